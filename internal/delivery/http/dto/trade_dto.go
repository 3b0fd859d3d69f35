package dto

// TradeRequest represents a trade order payload
type TradeRequest struct {
	Symbol   string `json:"symbol"`
	Action   string `json:"action"`
	Quantity int64  `json:"quantity"`
}

// WatchlistAddRequest represents a watchlist add payload
type WatchlistAddRequest struct {
	Symbol string `json:"symbol"`
}
