package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

type ExperimentResultRepo interface {
	ReplaceForExperiment(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID, results []*types.ExperimentResult) error
	GetByExperimentID(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID) ([]*types.ExperimentResult, error)
}

type experimentResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExperimentResultRepo(db *gorm.DB, baseLog *logger.Logger) ExperimentResultRepo {
	repoLog := baseLog.With("repo", "ExperimentResultRepo")
	return &experimentResultRepo{db: db, log: repoLog}
}

// ReplaceForExperiment swaps the experiment's result snapshot wholesale.
// The delete and insert run in one transaction so concurrent readers never
// observe an empty or half-written snapshot.
func (r *experimentResultRepo) ReplaceForExperiment(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID, results []*types.ExperimentResult) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Transaction(func(innerTx *gorm.DB) error {
		if err := innerTx.
			Where("experiment_id = ?", experimentID).
			Delete(&types.ExperimentResult{}).Error; err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}
		if err := innerTx.Create(&results).Error; err != nil {
			return err
		}
		return nil
	})
}

func (r *experimentResultRepo) GetByExperimentID(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID) ([]*types.ExperimentResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ExperimentResult
	if err := transaction.WithContext(ctx).
		Where("experiment_id = ?", experimentID).
		Order("calculated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
