package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradejoy/internal/domain"
)

// WatchlistRepositoryImpl implements the WatchlistRepository interface
type WatchlistRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewWatchlistRepository creates a new WatchlistRepository
func NewWatchlistRepository(db *pgxpool.Pool) domain.WatchlistRepository {
	return &WatchlistRepositoryImpl{db: db}
}

// List retrieves a user's watchlist entries
func (r *WatchlistRepositoryImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.WatchlistEntry, error) {
	query := `
		SELECT user_id, symbol, added_at
		FROM watchlist
		WHERE user_id = $1
		ORDER BY added_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []*domain.WatchlistEntry
	for rows.Next() {
		entry := &domain.WatchlistEntry{}
		if err := rows.Scan(&entry.UserID, &entry.Symbol, &entry.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist: %w", err)
	}

	return entries, nil
}

// Add inserts a symbol into the user's watchlist
func (r *WatchlistRepositoryImpl) Add(ctx context.Context, userID uuid.UUID, symbol string) error {
	query := `
		INSERT INTO watchlist (user_id, symbol, added_at)
		VALUES ($1, $2, NOW())
	`

	_, err := r.db.Exec(ctx, query, userID, symbol)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("symbol already watched: %w", domain.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to add watchlist entry: %w", err)
	}

	return nil
}

// Remove deletes a symbol from the user's watchlist
func (r *WatchlistRepositoryImpl) Remove(ctx context.Context, userID uuid.UUID, symbol string) error {
	query := `
		DELETE FROM watchlist
		WHERE user_id = $1 AND symbol = $2
	`

	tag, err := r.db.Exec(ctx, query, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to remove watchlist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}
