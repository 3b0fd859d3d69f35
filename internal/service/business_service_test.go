package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tradejoy/internal/domain"
	"tradejoy/internal/voice"
)

// fakeLedger is an in-memory TransactionRepository.
type fakeLedger struct {
	rows   []domain.Transaction
	nextID uint
}

func (f *fakeLedger) Create(ctx context.Context, tx *domain.Transaction) error {
	f.nextID++
	tx.ID = f.nextID
	f.rows = append(f.rows, *tx)
	return nil
}

func (f *fakeLedger) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeLedger) Delete(ctx context.Context, id uint, userID string) error {
	for i, row := range f.rows {
		if row.ID == id && row.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeLedger) TotalByKind(ctx context.Context, userID, kind string) (float64, error) {
	var total float64
	for _, row := range f.rows {
		if row.UserID == userID && row.Kind == kind {
			total += row.Amount
		}
	}
	return total, nil
}

func (f *fakeLedger) TotalByKindOnDate(ctx context.Context, userID, kind, date string) (float64, error) {
	var total float64
	for _, row := range f.rows {
		if row.UserID == userID && row.Kind == kind && row.Date == date {
			total += row.Amount
		}
	}
	return total, nil
}

func (f *fakeLedger) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	for _, row := range f.rows {
		if row.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeLedger) DailyTotals(ctx context.Context, userID, since string) ([]domain.DailyTotal, error) {
	byDate := map[string]*domain.DailyTotal{}
	for _, row := range f.rows {
		if row.UserID != userID || row.Date < since {
			continue
		}
		d, ok := byDate[row.Date]
		if !ok {
			d = &domain.DailyTotal{Date: row.Date}
			byDate[row.Date] = d
		}
		if row.Kind == domain.KindSale {
			d.Sales += row.Amount
		} else {
			d.Expenses += row.Amount
		}
		d.Profit = d.Sales - d.Expenses
	}
	var out []domain.DailyTotal
	for _, d := range byDate {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeLedger) SaleCategoryTotals(ctx context.Context, userID string) ([]domain.CategoryTotal, error) {
	byCat := map[string]float64{}
	for _, row := range f.rows {
		if row.UserID == userID && row.Kind == domain.KindSale {
			byCat[row.Category] += row.Amount
		}
	}
	var out []domain.CategoryTotal
	for cat, amount := range byCat {
		out = append(out, domain.CategoryTotal{Category: cat, Amount: amount})
	}
	return out, nil
}

type fakeProfiles struct {
	profiles map[string]*domain.BusinessProfile
}

func (f *fakeProfiles) Get(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfiles) Upsert(ctx context.Context, profile *domain.BusinessProfile) error {
	copied := *profile
	f.profiles[profile.UserID] = &copied
	return nil
}

type fakeMilestones struct {
	recorded map[string]int
}

func (f *fakeMilestones) Record(ctx context.Context, userID, milestoneType string) error {
	f.recorded[userID+"/"+milestoneType]++
	return nil
}

type businessFixture struct {
	svc        *BusinessService
	ledger     *fakeLedger
	profiles   *fakeProfiles
	milestones *fakeMilestones
}

func newBusinessFixture(t *testing.T) *businessFixture {
	t.Helper()
	ledger := &fakeLedger{}
	profiles := &fakeProfiles{profiles: map[string]*domain.BusinessProfile{}}
	milestones := &fakeMilestones{recorded: map[string]int{}}
	svc := NewBusinessService(ledger, profiles, milestones, zerolog.Nop())
	return &businessFixture{svc: svc, ledger: ledger, profiles: profiles, milestones: milestones}
}

func addEntry(t *testing.T, f *businessFixture, kind string, amount float64, when time.Time) {
	t.Helper()
	err := f.svc.AddTransaction(context.Background(), &domain.Transaction{
		UserID:      "u1",
		Kind:        kind,
		Amount:      amount,
		Description: "Entry",
		Category:    domain.CategoryProductSale,
		Timestamp:   when,
		Date:        when.Format(domain.DateLayout),
	})
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
}

func TestStats(t *testing.T) {
	f := newBusinessFixture(t)
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	addEntry(t, f, domain.KindSale, 300, now)
	addEntry(t, f, domain.KindExpense, 100, now)
	addEntry(t, f, domain.KindSale, 500, yesterday)
	addEntry(t, f, domain.KindExpense, 50, yesterday)

	stats, err := f.svc.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TodayProfit != 200 {
		t.Errorf("today profit = %v, want 200", stats.TodayProfit)
	}
	if stats.TotalSales != 800 {
		t.Errorf("total sales = %v, want 800", stats.TotalSales)
	}
	if stats.TotalExpenses != 150 {
		t.Errorf("total expenses = %v, want 150", stats.TotalExpenses)
	}
	if stats.NetProfit != 650 {
		t.Errorf("net profit = %v, want 650", stats.NetProfit)
	}
	if stats.TotalTransactions != 4 {
		t.Errorf("count = %v, want 4", stats.TotalTransactions)
	}
}

func TestCoachTipDecisionOrder(t *testing.T) {
	now := time.Now()

	t.Run("welcome when ledger empty", func(t *testing.T) {
		f := newBusinessFixture(t)
		tip, _, err := f.svc.CoachTip(context.Background(), "u1")
		if err != nil {
			t.Fatalf("CoachTip: %v", err)
		}
		if tip != tipWelcome {
			t.Errorf("tip = %q, want welcome message", tip)
		}
	})

	t.Run("exceeding target above 500 today", func(t *testing.T) {
		f := newBusinessFixture(t)
		addEntry(t, f, domain.KindSale, 750, now)
		tip, _, err := f.svc.CoachTip(context.Background(), "u1")
		if err != nil {
			t.Fatalf("CoachTip: %v", err)
		}
		want := fmt.Sprintf("Excellent! You're ₹%.2f in profit today. You're exceeding your daily target!", 750.0)
		if tip != want {
			t.Errorf("tip = %q, want %q", tip, want)
		}
	})

	t.Run("good work when in profit today", func(t *testing.T) {
		f := newBusinessFixture(t)
		addEntry(t, f, domain.KindSale, 200, now)
		tip, _, err := f.svc.CoachTip(context.Background(), "u1")
		if err != nil {
			t.Fatalf("CoachTip: %v", err)
		}
		want := fmt.Sprintf("Good work! You're ₹%.2f in profit today. Keep it up!", 200.0)
		if tip != want {
			t.Errorf("tip = %q, want %q", tip, want)
		}
	})

	t.Run("overall profit when today is flat", func(t *testing.T) {
		f := newBusinessFixture(t)
		addEntry(t, f, domain.KindSale, 400, now.AddDate(0, 0, -2))
		tip, _, err := f.svc.CoachTip(context.Background(), "u1")
		if err != nil {
			t.Fatalf("CoachTip: %v", err)
		}
		want := fmt.Sprintf("Overall, you're ₹%.2f in profit. Focus on increasing daily sales!", 400.0)
		if tip != want {
			t.Errorf("tip = %q, want %q", tip, want)
		}
	})

	t.Run("fallback pool when at a loss", func(t *testing.T) {
		f := newBusinessFixture(t)
		addEntry(t, f, domain.KindExpense, 100, now)
		tip, _, err := f.svc.CoachTip(context.Background(), "u1")
		if err != nil {
			t.Fatalf("CoachTip: %v", err)
		}
		found := false
		for _, candidate := range fallbackTips {
			if tip == candidate {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("tip = %q, not in the fallback pool", tip)
		}
	})
}

func TestProcessVoiceCommand(t *testing.T) {
	f := newBusinessFixture(t)

	tx, err := f.svc.ProcessVoiceCommand(context.Background(), "u1", "I sold apples for 50 rupees")
	if err != nil {
		t.Fatalf("ProcessVoiceCommand: %v", err)
	}
	if tx.ID == 0 {
		t.Error("transaction was not persisted")
	}
	if tx.UserID != "u1" {
		t.Errorf("user = %q, want u1", tx.UserID)
	}
	if tx.Kind != domain.KindSale || tx.Amount != 50 {
		t.Errorf("parsed %s/%v, want sale/50", tx.Kind, tx.Amount)
	}

	_, err = f.svc.ProcessVoiceCommand(context.Background(), "u1", "hello there")
	if !errors.Is(err, voice.ErrNoTransaction) {
		t.Fatalf("err = %v, want ErrNoTransaction", err)
	}
	if n, _ := f.ledger.CountByUser(context.Background(), "u1"); n != 1 {
		t.Errorf("ledger has %d rows after failed parse, want 1", n)
	}
}

func TestMilestones(t *testing.T) {
	f := newBusinessFixture(t)
	now := time.Now()

	addEntry(t, f, domain.KindSale, 50, now)
	if got := f.milestones.recorded["u1/"+domain.MilestoneFirstTransaction]; got != 1 {
		t.Errorf("first-transaction milestone recorded %d times, want 1", got)
	}

	// crossing the default daily target records the target milestone
	addEntry(t, f, domain.KindSale, 600, now)
	if got := f.milestones.recorded["u1/"+domain.MilestoneDailyTarget]; got == 0 {
		t.Error("daily-target milestone not recorded")
	}
}

func TestUpdateProfileDefaults(t *testing.T) {
	f := newBusinessFixture(t)

	err := f.svc.UpdateProfile(context.Background(), &domain.BusinessProfile{
		UserID:       "u1",
		BusinessName: "Corner Shop",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	profile, err := f.svc.Profile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.DailyTarget != domain.DefaultDailyTarget {
		t.Errorf("daily target = %v, want default %v", profile.DailyTarget, domain.DefaultDailyTarget)
	}
	if profile.WeeklyTarget != domain.DefaultWeeklyTarget {
		t.Errorf("weekly target = %v, want default %v", profile.WeeklyTarget, domain.DefaultWeeklyTarget)
	}
}

func TestAnalytics(t *testing.T) {
	f := newBusinessFixture(t)
	now := time.Now()

	addEntry(t, f, domain.KindSale, 100, now)
	addEntry(t, f, domain.KindExpense, 30, now)
	addEntry(t, f, domain.KindSale, 200, now.AddDate(0, 0, -10)) // outside window

	analytics, err := f.svc.Analytics(context.Background(), "u1", 7)
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if len(analytics.DailyData) != 1 {
		t.Fatalf("daily rows = %d, want 1", len(analytics.DailyData))
	}
	d := analytics.DailyData[0]
	if d.Sales != 100 || d.Expenses != 30 || d.Profit != 70 {
		t.Errorf("daily row = %+v, want 100/30/70", d)
	}

	// category breakdown covers all sales, not just the window
	var total float64
	for _, c := range analytics.CategoryBreakdown {
		if !strings.HasPrefix(c.Category, "product") {
			t.Errorf("unexpected category %q", c.Category)
		}
		total += c.Amount
	}
	if total != 300 {
		t.Errorf("category total = %v, want 300", total)
	}
}
