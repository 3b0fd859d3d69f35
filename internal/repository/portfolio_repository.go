package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradejoy/internal/domain"
)

// PortfolioRepositoryImpl implements the PortfolioRepository interface
type PortfolioRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewPortfolioRepository creates a new PortfolioRepository
func NewPortfolioRepository(db *pgxpool.Pool) domain.PortfolioRepository {
	return &PortfolioRepositoryImpl{db: db}
}

// GetPositions retrieves all positions for a user
func (r *PortfolioRepositoryImpl) GetPositions(ctx context.Context, userID uuid.UUID) ([]*domain.Position, error) {
	query := `
		SELECT user_id, symbol, quantity, avg_price, updated_at
		FROM portfolio
		WHERE user_id = $1
		ORDER BY symbol ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []*domain.Position
	for rows.Next() {
		position := &domain.Position{}
		err := rows.Scan(
			&position.UserID,
			&position.Symbol,
			&position.Quantity,
			&position.AvgPrice,
			&position.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, position)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}

// GetPosition retrieves one position by (user, symbol)
func (r *PortfolioRepositoryImpl) GetPosition(ctx context.Context, userID uuid.UUID, symbol string) (*domain.Position, error) {
	query := `
		SELECT user_id, symbol, quantity, avg_price, updated_at
		FROM portfolio
		WHERE user_id = $1 AND symbol = $2
	`

	position := &domain.Position{}
	err := r.db.QueryRow(ctx, query, userID, symbol).Scan(
		&position.UserID,
		&position.Symbol,
		&position.Quantity,
		&position.AvgPrice,
		&position.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}

	return position, nil
}

// ApplySettlement persists the balance update, position upsert/delete, and
// trade-log append as one transaction. Either all three writes commit or
// none do.
func (r *PortfolioRepositoryImpl) ApplySettlement(ctx context.Context, s *domain.Settlement) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	trade := s.Trade

	_, err = tx.Exec(ctx,
		`UPDATE users SET balance = $1 WHERE id = $2`,
		s.NewBalance, trade.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	if s.RemovePosition {
		_, err = tx.Exec(ctx,
			`DELETE FROM portfolio WHERE user_id = $1 AND symbol = $2`,
			trade.UserID, trade.Symbol,
		)
		if err != nil {
			return fmt.Errorf("failed to remove position: %w", err)
		}
	} else {
		_, err = tx.Exec(ctx, `
			INSERT INTO portfolio (user_id, symbol, quantity, avg_price, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (user_id, symbol)
			DO UPDATE SET quantity = EXCLUDED.quantity,
			              avg_price = EXCLUDED.avg_price,
			              updated_at = NOW()
		`, s.Position.UserID, s.Position.Symbol, s.Position.Quantity, s.Position.AvgPrice)
		if err != nil {
			return fmt.Errorf("failed to upsert position: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO trades (id, user_id, symbol, action, quantity, price, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, trade.ID, trade.UserID, trade.Symbol, trade.Action, trade.Quantity, trade.Price, trade.Total, trade.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append trade: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}

	return nil
}
