package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradejoy/internal/domain"
)

// MilestoneStore implements domain.MilestoneRepository on SQLite.
type MilestoneStore struct {
	db *gorm.DB
}

// NewMilestoneStore creates a new MilestoneStore
func NewMilestoneStore(db *gorm.DB) *MilestoneStore {
	return &MilestoneStore{db: db}
}

// Record stores an achievement. Re-recording an already achieved milestone
// is a no-op.
func (s *MilestoneStore) Record(ctx context.Context, userID, milestoneType string) error {
	milestone := &domain.Milestone{
		UserID:     userID,
		Type:       milestoneType,
		AchievedAt: time.Now(),
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(milestone).Error
	if err != nil {
		return fmt.Errorf("failed to record milestone: %w", err)
	}
	return nil
}
