package voice

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tradejoy/internal/domain"
)

// ErrNoTransaction is returned when no transaction can be extracted from the
// command. Missing amount and missing kind both collapse into this one error;
// callers only learn that extraction failed.
var ErrNoTransaction = errors.New("could not extract transaction from voice command")

// Amount patterns are tried in order and the first match wins. Order is
// significant: a text like "sold tea for 20 rupees" must bind the amount to
// the currency form, not the bare "for 20".
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d{2})?)\s*(?:rupees?|rs?\.?|₹)`),
	regexp.MustCompile(`(?:rupees?|rs?\.?|₹)\s*(\d+(?:\.\d{2})?)`),
	regexp.MustCompile(`(\d+(?:\.\d{2})?)\s*(?:dollars?|\$)`),
	regexp.MustCompile(`for\s*(\d+(?:\.\d{2})?)`),
	regexp.MustCompile(`(\d+(?:\.\d{2})?)\s*(?:bucks?)`),
}

// Sale keywords are checked before expense keywords, so a command containing
// both ("sold goods I bought earlier") classifies as a sale.
var (
	saleKeywords    = []string{"sold", "sale", "earned", "received", "got", "made"}
	expenseKeywords = []string{"bought", "spent", "paid", "purchased", "expense", "cost"}
)

var saleDescPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sold\s+(.+?)\s+for`),
	regexp.MustCompile(`sale\s+of\s+(.+?)\s+for`),
	regexp.MustCompile(`earned\s+from\s+(.+?)\s+`),
}

var expenseDescPatterns = []*regexp.Regexp{
	regexp.MustCompile(`bought\s+(.+?)\s+for`),
	regexp.MustCompile(`spent\s+on\s+(.+?)\s+`),
	regexp.MustCompile(`paid\s+for\s+(.+?)\s+`),
}

// categoryRule maps a category to its keyword set. Evaluated in slice order,
// first category with a matching keyword wins.
type categoryRule struct {
	category string
	keywords []string
}

var categoryRules = []categoryRule{
	{domain.CategoryProductSale, []string{"vegetables", "fruits", "food", "products", "items", "goods"}},
	{domain.CategoryService, []string{"service", "repair", "consultation", "work"}},
	{domain.CategorySupplies, []string{"supplies", "materials", "inventory", "stock"}},
	{domain.CategoryTransport, []string{"transport", "taxi", "bus", "fuel", "petrol", "gas"}},
	{domain.CategoryFood, []string{"food", "lunch", "dinner", "snacks", "tea", "coffee"}},
	{domain.CategoryUtilities, []string{"electricity", "water", "phone", "internet", "rent"}},
}

// Parse extracts a transaction draft from a free-text voice command. The
// draft carries no user id; the caller fills that in before persisting.
func Parse(command string) (*domain.Transaction, error) {
	lower := strings.ToLower(command)

	amount, ok := extractAmount(lower)
	if !ok {
		return nil, ErrNoTransaction
	}

	kind, ok := classifyKind(lower)
	if !ok {
		return nil, ErrNoTransaction
	}

	now := time.Now()
	return &domain.Transaction{
		Kind:        kind,
		Amount:      amount,
		Description: extractDescription(lower, kind),
		Category:    categorize(lower, kind),
		Timestamp:   now,
		Date:        now.Format(domain.DateLayout),
	}, nil
}

func extractAmount(lower string) (float64, bool) {
	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		// First pattern that matches, matches. A zero amount still fails.
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil || amount == 0 {
			return 0, false
		}
		return amount, true
	}
	return 0, false
}

func classifyKind(lower string) (string, bool) {
	for _, kw := range saleKeywords {
		if strings.Contains(lower, kw) {
			return domain.KindSale, true
		}
	}
	for _, kw := range expenseKeywords {
		if strings.Contains(lower, kw) {
			return domain.KindExpense, true
		}
	}
	return "", false
}

func extractDescription(lower, kind string) string {
	patterns := saleDescPatterns
	if kind == domain.KindExpense {
		patterns = expenseDescPatterns
	}

	for _, re := range patterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return titleCase(strings.TrimSpace(m[1]))
		}
	}
	return fmt.Sprintf("Voice recorded %s", kind)
}

func categorize(lower, kind string) string {
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	if kind == domain.KindSale {
		return domain.CategoryProductSale
	}
	return domain.CategorySupplies
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
