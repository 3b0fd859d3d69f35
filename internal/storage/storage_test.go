package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"tradejoy/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func seedTransaction(t *testing.T, store *TransactionStore, userID, kind string, amount float64, date string, ts time.Time) *domain.Transaction {
	t.Helper()
	tx := &domain.Transaction{
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Description: fmt.Sprintf("Test %s", kind),
		Category:    domain.CategoryProductSale,
		Timestamp:   ts,
		Date:        date,
	}
	if err := store.Create(context.Background(), tx); err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}
	return tx
}

func TestTransactionCreateAndList(t *testing.T) {
	store := NewTransactionStore(newTestDB(t))
	ctx := context.Background()
	today := time.Now().Format(domain.DateLayout)

	older := seedTransaction(t, store, "demo_user", domain.KindSale, 150, today, time.Now().Add(-2*time.Hour))
	newer := seedTransaction(t, store, "demo_user", domain.KindExpense, 50, today, time.Now().Add(-time.Hour))
	seedTransaction(t, store, "other_user", domain.KindSale, 999, today, time.Now())

	list, err := store.ListByUser(ctx, "demo_user", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(list))
	}
	if list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Errorf("expected newest-first ordering, got %d then %d", list[0].ID, list[1].ID)
	}

	limited, err := store.ListByUser(ctx, "demo_user", 1)
	if err != nil {
		t.Fatalf("limited list failed: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != newer.ID {
		t.Errorf("limit 1 should return only the newest row")
	}
}

func TestTransactionDeleteScopedByOwner(t *testing.T) {
	store := NewTransactionStore(newTestDB(t))
	ctx := context.Background()
	today := time.Now().Format(domain.DateLayout)

	tx := seedTransaction(t, store, "alice", domain.KindSale, 100, today, time.Now())

	// A different user can never delete the row, even though the id exists.
	if err := store.Delete(ctx, tx.ID, "mallory"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cross-user delete: error = %v, want ErrNotFound", err)
	}
	list, _ := store.ListByUser(ctx, "alice", 0)
	if len(list) != 1 {
		t.Fatalf("row must survive a cross-user delete attempt")
	}

	if err := store.Delete(ctx, tx.ID, "alice"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := store.Delete(ctx, tx.ID, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: error = %v, want ErrNotFound", err)
	}
}

func TestTransactionAggregations(t *testing.T) {
	store := NewTransactionStore(newTestDB(t))
	ctx := context.Background()
	today := time.Now().Format(domain.DateLayout)
	yesterday := time.Now().AddDate(0, 0, -1).Format(domain.DateLayout)

	seedTransaction(t, store, "u", domain.KindSale, 150, today, time.Now())
	seedTransaction(t, store, "u", domain.KindSale, 200, yesterday, time.Now().Add(-24*time.Hour))
	seedTransaction(t, store, "u", domain.KindExpense, 50, today, time.Now())

	totalSales, err := store.TotalByKind(ctx, "u", domain.KindSale)
	if err != nil {
		t.Fatalf("TotalByKind failed: %v", err)
	}
	if totalSales != 350 {
		t.Errorf("total sales = %v, want 350", totalSales)
	}

	todaySales, err := store.TotalByKindOnDate(ctx, "u", domain.KindSale, today)
	if err != nil {
		t.Fatalf("TotalByKindOnDate failed: %v", err)
	}
	if todaySales != 150 {
		t.Errorf("today's sales = %v, want 150", todaySales)
	}

	count, err := store.CountByUser(ctx, "u")
	if err != nil {
		t.Fatalf("CountByUser failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	daily, err := store.DailyTotals(ctx, "u", yesterday)
	if err != nil {
		t.Fatalf("DailyTotals failed: %v", err)
	}
	if len(daily) != 2 {
		t.Fatalf("expected 2 daily rows, got %d", len(daily))
	}
	if daily[0].Date != yesterday || daily[0].Sales != 200 || daily[0].Profit != 200 {
		t.Errorf("yesterday row = %+v", daily[0])
	}
	if daily[1].Date != today || daily[1].Sales != 150 || daily[1].Expenses != 50 || daily[1].Profit != 100 {
		t.Errorf("today row = %+v", daily[1])
	}

	categories, err := store.SaleCategoryTotals(ctx, "u")
	if err != nil {
		t.Fatalf("SaleCategoryTotals failed: %v", err)
	}
	if len(categories) != 1 || categories[0].Category != domain.CategoryProductSale || categories[0].Amount != 350 {
		t.Errorf("category totals = %+v", categories)
	}
}

func TestProfileUpsertKeepsOneRowPerUser(t *testing.T) {
	db := newTestDB(t)
	store := NewProfileStore(db)
	ctx := context.Background()

	if _, err := store.Get(ctx, "u"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing profile: error = %v, want ErrNotFound", err)
	}

	first := &domain.BusinessProfile{
		UserID:       "u",
		BusinessName: "Corner Shop",
		BusinessType: "retail",
		DailyTarget:  domain.DefaultDailyTarget,
		WeeklyTarget: domain.DefaultWeeklyTarget,
	}
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	second := &domain.BusinessProfile{
		UserID:       "u",
		BusinessName: "Corner Shop & Cafe",
		BusinessType: "retail",
		DailyTarget:  750,
		WeeklyTarget: 5000,
	}
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	got, err := store.Get(ctx, "u")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.BusinessName != "Corner Shop & Cafe" || got.DailyTarget != 750 {
		t.Errorf("profile = %+v, want updated values", got)
	}

	var count int64
	db.Model(&domain.BusinessProfile{}).Where("user_id = ?", "u").Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one profile row, got %d", count)
	}
}

func TestMilestoneRecordIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	store := NewMilestoneStore(db)
	ctx := context.Background()

	if err := store.Record(ctx, "u", domain.MilestoneFirstTransaction); err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	if err := store.Record(ctx, "u", domain.MilestoneFirstTransaction); err != nil {
		t.Fatalf("duplicate record must be a no-op, got: %v", err)
	}

	var count int64
	db.Model(&domain.Milestone{}).Where("user_id = ?", "u").Count(&count)
	if count != 1 {
		t.Errorf("expected one milestone row, got %d", count)
	}
}
