package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"tradejoy/internal/domain"
	"tradejoy/internal/voice"
)

// Coaching messages. The decision list in CoachTip evaluates in fixed order
// and only the first matching branch fires.
const (
	tipWelcome = "Welcome! Start by recording your first sale or expense to begin tracking your business."
)

var fallbackTips = []string{
	"Track every small transaction - they add up quickly!",
	"Try using voice commands for faster data entry.",
	"Set a daily target to stay motivated.",
	"Review your expenses weekly to find savings.",
	"Celebrate small wins to stay motivated!",
}

// BusinessService derives statistics and coaching tips from the business
// ledger and handles voice-command entry. Stats are recomputed from the store
// on every call; nothing is cached.
type BusinessService struct {
	transactions domain.TransactionRepository
	profiles     domain.ProfileRepository
	milestones   domain.MilestoneRepository
	logger       zerolog.Logger
}

// NewBusinessService creates a new BusinessService
func NewBusinessService(
	transactions domain.TransactionRepository,
	profiles domain.ProfileRepository,
	milestones domain.MilestoneRepository,
	logger zerolog.Logger,
) *BusinessService {
	return &BusinessService{
		transactions: transactions,
		profiles:     profiles,
		milestones:   milestones,
		logger:       logger,
	}
}

// Transactions lists a user's transaction history, newest first.
func (s *BusinessService) Transactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	return s.transactions.ListByUser(ctx, userID, limit)
}

// AddTransaction persists a transaction and records any milestones it unlocks.
// Entries without an explicit timestamp are stamped with the current time.
func (s *BusinessService) AddTransaction(ctx context.Context, tx *domain.Transaction) error {
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now()
	}
	if tx.Date == "" {
		tx.Date = tx.Timestamp.Format(domain.DateLayout)
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return err
	}
	s.recordMilestones(ctx, tx.UserID)
	return nil
}

// DeleteTransaction removes a transaction owned by the user.
func (s *BusinessService) DeleteTransaction(ctx context.Context, id uint, userID string) error {
	return s.transactions.Delete(ctx, id, userID)
}

// ProcessVoiceCommand parses a free-text command into a transaction and
// persists it. Returns voice.ErrNoTransaction when nothing could be extracted.
func (s *BusinessService) ProcessVoiceCommand(ctx context.Context, userID, command string) (*domain.Transaction, error) {
	tx, err := voice.Parse(command)
	if err != nil {
		return nil, err
	}

	tx.UserID = userID
	if err := s.AddTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("kind", tx.Kind).
		Float64("amount", tx.Amount).
		Msg("voice transaction recorded")

	return tx, nil
}

// Stats aggregates a user's ledger into business statistics.
func (s *BusinessService) Stats(ctx context.Context, userID string) (*domain.BusinessStats, error) {
	today := time.Now().Format(domain.DateLayout)

	totalSales, err := s.transactions.TotalByKind(ctx, userID, domain.KindSale)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	totalExpenses, err := s.transactions.TotalByKind(ctx, userID, domain.KindExpense)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	todaySales, err := s.transactions.TotalByKindOnDate(ctx, userID, domain.KindSale, today)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	todayExpenses, err := s.transactions.TotalByKindOnDate(ctx, userID, domain.KindExpense, today)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	count, err := s.transactions.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	return &domain.BusinessStats{
		TodayProfit:       todaySales - todayExpenses,
		TotalSales:        totalSales,
		TotalExpenses:     totalExpenses,
		NetProfit:         totalSales - totalExpenses,
		TotalTransactions: count,
	}, nil
}

// CoachTip picks a coaching message for the user's current statistics.
func (s *BusinessService) CoachTip(ctx context.Context, userID string) (string, *domain.BusinessStats, error) {
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	return tipFor(stats), stats, nil
}

// tipFor is the coaching decision list. Branch order is significant.
func tipFor(stats *domain.BusinessStats) string {
	switch {
	case stats.TotalTransactions == 0:
		return tipWelcome
	case stats.TodayProfit > 500:
		return fmt.Sprintf("Excellent! You're ₹%.2f in profit today. You're exceeding your daily target!", stats.TodayProfit)
	case stats.TodayProfit > 0:
		return fmt.Sprintf("Good work! You're ₹%.2f in profit today. Keep it up!", stats.TodayProfit)
	case stats.NetProfit > 0:
		return fmt.Sprintf("Overall, you're ₹%.2f in profit. Focus on increasing daily sales!", stats.NetProfit)
	default:
		return fallbackTips[rand.Intn(len(fallbackTips))]
	}
}

// Analytics returns the per-day series for the last N days plus the
// per-category sale breakdown.
func (s *BusinessService) Analytics(ctx context.Context, userID string, days int) (*domain.Analytics, error) {
	since := time.Now().AddDate(0, 0, -days).Format(domain.DateLayout)

	daily, err := s.transactions.DailyTotals(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	categories, err := s.transactions.SaleCategoryTotals(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.Analytics{
		DailyData:         daily,
		CategoryBreakdown: categories,
	}, nil
}

// Profile retrieves a user's business profile.
func (s *BusinessService) Profile(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	return s.profiles.Get(ctx, userID)
}

// UpdateProfile upserts a user's business profile.
func (s *BusinessService) UpdateProfile(ctx context.Context, profile *domain.BusinessProfile) error {
	if profile.DailyTarget == 0 {
		profile.DailyTarget = domain.DefaultDailyTarget
	}
	if profile.WeeklyTarget == 0 {
		profile.WeeklyTarget = domain.DefaultWeeklyTarget
	}
	return s.profiles.Upsert(ctx, profile)
}

// recordMilestones is best-effort: a milestone failure never fails the
// transaction that triggered it.
func (s *BusinessService) recordMilestones(ctx context.Context, userID string) {
	count, err := s.transactions.CountByUser(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("milestone check skipped")
		return
	}
	if count == 1 {
		if err := s.milestones.Record(ctx, userID, domain.MilestoneFirstTransaction); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record first-transaction milestone")
		}
	}

	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return
	}

	target := domain.DefaultDailyTarget
	if profile, err := s.profiles.Get(ctx, userID); err == nil {
		target = profile.DailyTarget
	} else if !errors.Is(err, domain.ErrNotFound) {
		return
	}

	if stats.TodayProfit >= target {
		if err := s.milestones.Record(ctx, userID, domain.MilestoneDailyTarget); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record daily-target milestone")
		}
	}
}
