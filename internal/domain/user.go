package domain

import (
	"time"

	"github.com/google/uuid"
)

// StartingBalance is the cash every new trading account opens with.
const StartingBalance = 10000.0

// User represents a trading account. Authority for authentication and funds.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	Balance      float64   `json:"balance"`
	CreatedAt    time.Time `json:"created_at"`
}
