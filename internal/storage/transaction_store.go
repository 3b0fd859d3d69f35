package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tradejoy/internal/domain"
)

// DefaultListLimit bounds transaction history reads when the caller does not
// supply a limit.
const DefaultListLimit = 50

// TransactionStore implements domain.TransactionRepository on SQLite.
type TransactionStore struct {
	db *gorm.DB
}

// NewTransactionStore creates a new TransactionStore
func NewTransactionStore(db *gorm.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Create inserts a new transaction and fills in its ID.
func (s *TransactionStore) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// ListByUser retrieves a user's transactions ordered by timestamp descending.
func (s *TransactionStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var transactions []domain.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, nil
}

// Delete removes a transaction scoped by owner. A foreign id reports
// not-found rather than touching another user's row.
func (s *TransactionStore) Delete(ctx context.Context, id uint, userID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Transaction{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TotalByKind sums amounts of one kind across all of a user's transactions.
func (s *TransactionStore) TotalByKind(ctx context.Context, userID, kind string) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ?", userID, kind).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum %s amounts: %w", kind, err)
	}
	return total, nil
}

// TotalByKindOnDate sums amounts of one kind for a single calendar date.
func (s *TransactionStore) TotalByKindOnDate(ctx context.Context, userID, kind, date string) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ? AND date = ?", userID, kind, date).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum %s amounts on %s: %w", kind, date, err)
	}
	return total, nil
}

// CountByUser counts all of a user's transactions.
func (s *TransactionStore) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// DailyTotals aggregates per-day sales and expenses since the given date.
func (s *TransactionStore) DailyTotals(ctx context.Context, userID, since string) ([]domain.DailyTotal, error) {
	rows, err := s.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Select(
			"date, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS sales, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expenses",
			domain.KindSale, domain.KindExpense,
		).
		Where("user_id = ? AND date >= ?", userID, since).
		Group("date").
		Order("date").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query daily totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.DailyTotal
	for rows.Next() {
		var t domain.DailyTotal
		if err := rows.Scan(&t.Date, &t.Sales, &t.Expenses); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		t.Profit = t.Sales - t.Expenses
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily totals: %w", err)
	}

	return totals, nil
}

// SaleCategoryTotals aggregates sale amounts per category, largest first.
func (s *TransactionStore) SaleCategoryTotals(ctx context.Context, userID string) ([]domain.CategoryTotal, error) {
	var totals []domain.CategoryTotal
	err := s.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Select("category, SUM(amount) AS amount").
		Where("user_id = ? AND type = ?", userID, domain.KindSale).
		Group("category").
		Order("amount DESC").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	return totals, nil
}
