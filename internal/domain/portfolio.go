package domain

import (
	"time"

	"github.com/google/uuid"
)

// Position is a user's current holding in one symbol. At most one row per
// (user, symbol); the row is removed when quantity reaches zero, discarding
// its average price.
type Position struct {
	UserID    uuid.UUID `json:"user_id"`
	Symbol    string    `json:"symbol"`
	Quantity  int64     `json:"quantity"`
	AvgPrice  float64   `json:"avg_price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Trade is an immutable record of a BUY/SELL execution. Append-only audit log.
type Trade struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Symbol    string    `json:"symbol"`
	Action    string    `json:"action"`
	Quantity  int64     `json:"quantity"`
	Price     float64   `json:"price"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// Trade actions
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// WatchlistEntry tracks a symbol of interest. Unique per (user, symbol),
// no quantity or price state.
type WatchlistEntry struct {
	UserID  uuid.UUID `json:"user_id"`
	Symbol  string    `json:"symbol"`
	AddedAt time.Time `json:"added_at"`
}

// Settlement is the full outcome of one trade execution: the new cash
// balance, the desired position state, and the trade record to append.
// All three must be persisted atomically.
type Settlement struct {
	Trade          *Trade
	NewBalance     float64
	Position       *Position // desired state; ignored when RemovePosition is set
	RemovePosition bool      // true when a SELL closes the position to zero
}
