package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradejoy/internal/domain"
)

// ProfileStore implements domain.ProfileRepository on SQLite.
type ProfileStore struct {
	db *gorm.DB
}

// NewProfileStore creates a new ProfileStore
func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get retrieves a user's business profile.
func (s *ProfileStore) Get(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	var profile domain.BusinessProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business profile: %w", err)
	}
	return &profile, nil
}

// Upsert creates or replaces the profile keyed on user id.
func (s *ProfileStore) Upsert(ctx context.Context, profile *domain.BusinessProfile) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"business_name", "business_type", "daily_target", "weekly_target", "updated_at",
			}),
		}).
		Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to upsert business profile: %w", err)
	}
	return nil
}
