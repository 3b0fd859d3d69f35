package domain

import "context"

// Quote is a point-in-time snapshot from the external market-data provider.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     int64   `json:"market_cap"`
	DayHigh       float64 `json:"day_high"`
	DayLow        float64 `json:"day_low"`
}

// QuoteProvider defines the interface for fetching live market quotes
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
	GetPrice(ctx context.Context, symbol string) (float64, error)
}
