package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

type UserPreferenceRepo interface {
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.UserPreference, error)
	Create(ctx context.Context, tx *gorm.DB, pref *types.UserPreference) error
	Update(ctx context.Context, tx *gorm.DB, pref *types.UserPreference) error
}

type userPreferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) UserPreferenceRepo {
	repoLog := baseLog.With("repo", "UserPreferenceRepo")
	return &userPreferenceRepo{db: db, log: repoLog}
}

// GetByEmail returns (nil, nil) when no preferences exist for the address.
func (r *userPreferenceRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.UserPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserPreference
	if email == "" {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).
		Where("email = ?", email).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *userPreferenceRepo) Create(ctx context.Context, tx *gorm.DB, pref *types.UserPreference) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(pref).Error; err != nil {
		return err
	}
	return nil
}

func (r *userPreferenceRepo) Update(ctx context.Context, tx *gorm.DB, pref *types.UserPreference) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Save(pref).Error; err != nil {
		return err
	}
	return nil
}
