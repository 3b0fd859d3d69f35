package domain

import (
	"context"

	"github.com/google/uuid"
)

// TransactionRepository defines the interface for business ledger operations
type TransactionRepository interface {
	// Create inserts a new transaction and fills in its ID
	Create(ctx context.Context, tx *Transaction) error

	// ListByUser retrieves a user's transactions, newest first, bounded by limit
	ListByUser(ctx context.Context, userID string, limit int) ([]Transaction, error)

	// Delete removes a transaction; returns ErrNotFound when the id does not
	// belong to the requesting user
	Delete(ctx context.Context, id uint, userID string) error

	// TotalByKind sums amounts of one kind across all of a user's transactions
	TotalByKind(ctx context.Context, userID, kind string) (float64, error)

	// TotalByKindOnDate sums amounts of one kind for a single calendar date
	TotalByKindOnDate(ctx context.Context, userID, kind, date string) (float64, error)

	// CountByUser counts all of a user's transactions
	CountByUser(ctx context.Context, userID string) (int64, error)

	// DailyTotals aggregates per-day sales and expenses since the given date
	DailyTotals(ctx context.Context, userID, since string) ([]DailyTotal, error)

	// SaleCategoryTotals aggregates sale amounts per category, largest first
	SaleCategoryTotals(ctx context.Context, userID string) ([]CategoryTotal, error)
}

// ProfileRepository defines the interface for business profile operations
type ProfileRepository interface {
	// Get retrieves a user's profile; ErrNotFound when none exists
	Get(ctx context.Context, userID string) (*BusinessProfile, error)

	// Upsert creates or replaces the profile keyed on user id
	Upsert(ctx context.Context, profile *BusinessProfile) error
}

// MilestoneRepository defines the interface for milestone operations
type MilestoneRepository interface {
	// Record stores an achievement; recording the same (user, type) twice
	// is a no-op
	Record(ctx context.Context, userID, milestoneType string) error
}

// UserRepository defines the interface for trading account operations
type UserRepository interface {
	// Create creates a new user; ErrDuplicate when username or email is taken
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// PortfolioRepository defines the interface for position operations
type PortfolioRepository interface {
	// GetPositions retrieves all of a user's positions
	GetPositions(ctx context.Context, userID uuid.UUID) ([]*Position, error)

	// GetPosition retrieves one position; ErrNotFound when the user holds
	// no shares of the symbol
	GetPosition(ctx context.Context, userID uuid.UUID, symbol string) (*Position, error)

	// ApplySettlement persists the balance update, position upsert/delete,
	// and trade append as a single transaction
	ApplySettlement(ctx context.Context, s *Settlement) error
}

// TradeRepository defines the interface for the trade audit log
type TradeRepository interface {
	// ListByUser retrieves a user's trades, newest first, bounded by limit
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Trade, error)
}

// WatchlistRepository defines the interface for watchlist operations
type WatchlistRepository interface {
	// List retrieves a user's watchlist entries
	List(ctx context.Context, userID uuid.UUID) ([]*WatchlistEntry, error)

	// Add inserts a symbol; ErrDuplicate when already present
	Add(ctx context.Context, userID uuid.UUID, symbol string) error

	// Remove deletes a symbol; ErrNotFound when not present
	Remove(ctx context.Context, userID uuid.UUID, symbol string) error
}
