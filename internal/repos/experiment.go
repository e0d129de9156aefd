package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

type ExperimentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, experiment *types.Experiment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Experiment, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Experiment, error)
	Update(ctx context.Context, tx *gorm.DB, experiment *types.Experiment) error
}

type experimentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExperimentRepo(db *gorm.DB, baseLog *logger.Logger) ExperimentRepo {
	repoLog := baseLog.With("repo", "ExperimentRepo")
	return &experimentRepo{db: db, log: repoLog}
}

func (r *experimentRepo) Create(ctx context.Context, tx *gorm.DB, experiment *types.Experiment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(experiment).Error; err != nil {
		return err
	}
	return nil
}

// GetByID returns (nil, nil) when the experiment does not exist.
func (r *experimentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Experiment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Experiment
	if id == uuid.Nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *experimentRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Experiment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Experiment
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *experimentRepo) Update(ctx context.Context, tx *gorm.DB, experiment *types.Experiment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Save(experiment).Error; err != nil {
		return err
	}
	return nil
}
