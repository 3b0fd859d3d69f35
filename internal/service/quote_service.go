package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tradejoy/internal/domain"
)

// DefaultQuoteBaseURL is the market-data provider endpoint root.
const DefaultQuoteBaseURL = "https://query1.finance.yahoo.com"

// QuoteService fetches live quotes from the external market-data provider.
// It implements domain.QuoteProvider.
type QuoteService struct {
	httpClient *http.Client
	baseURL    string
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(baseURL string) *QuoteService {
	if baseURL == "" {
		baseURL = DefaultQuoteBaseURL
	}
	return &QuoteService{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// quoteResponse mirrors the provider's quote payload.
type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketChange        float64 `json:"regularMarketChange"`
			RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
			RegularMarketVolume        int64   `json:"regularMarketVolume"`
			MarketCap                  int64   `json:"marketCap"`
			RegularMarketDayHigh       float64 `json:"regularMarketDayHigh"`
			RegularMarketDayLow        float64 `json:"regularMarketDayLow"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// GetQuote fetches the full quote for a single symbol.
func (s *QuoteService) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	url := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", s.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "tradejoy/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("quote provider error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed quoteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote response: %w", err)
	}

	if len(parsed.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w: no quote for symbol %s", domain.ErrPriceUnavailable, symbol)
	}

	r := parsed.QuoteResponse.Result[0]
	if r.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("%w: no usable price for symbol %s", domain.ErrPriceUnavailable, symbol)
	}

	return &domain.Quote{
		Symbol:        symbol,
		Price:         r.RegularMarketPrice,
		Change:        r.RegularMarketChange,
		ChangePercent: r.RegularMarketChangePercent,
		Volume:        r.RegularMarketVolume,
		MarketCap:     r.MarketCap,
		DayHigh:       r.RegularMarketDayHigh,
		DayLow:        r.RegularMarketDayLow,
	}, nil
}

// GetPrice fetches just the current price for a single symbol.
func (s *QuoteService) GetPrice(ctx context.Context, symbol string) (float64, error) {
	quote, err := s.GetQuote(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return quote.Price, nil
}
