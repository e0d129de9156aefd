package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

type VariantCount struct {
	Variant string `json:"variant"`
	Count   int64  `json:"count"`
}

type ExperimentAssignmentRepo interface {
	GetByExperimentAndUser(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID, userIdentifier string) (*types.ExperimentAssignment, error)
	CreateOrGet(ctx context.Context, tx *gorm.DB, assignment *types.ExperimentAssignment) (*types.ExperimentAssignment, bool, error)
	CountByVariant(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID) ([]VariantCount, error)
	CountByExperiment(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID) (int64, error)
}

type experimentAssignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExperimentAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) ExperimentAssignmentRepo {
	repoLog := baseLog.With("repo", "ExperimentAssignmentRepo")
	return &experimentAssignmentRepo{db: db, log: repoLog}
}

func (r *experimentAssignmentRepo) GetByExperimentAndUser(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID, userIdentifier string) (*types.ExperimentAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ExperimentAssignment
	if experimentID == uuid.Nil || userIdentifier == "" {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).
		Where("experiment_id = ? AND user_identifier = ?", experimentID, userIdentifier).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// CreateOrGet inserts the assignment unless one already exists for the
// (experiment, user) pair, in which case the existing row wins. Two racing
// assign calls therefore converge on a single variant; the loser of the
// insert re-reads the winner's row. Returns created=false when the existing
// row was returned.
func (r *experimentAssignmentRepo) CreateOrGet(ctx context.Context, tx *gorm.DB, assignment *types.ExperimentAssignment) (*types.ExperimentAssignment, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "experiment_id"}, {Name: "user_identifier"}},
			DoNothing: true,
		}).
		Create(assignment)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return assignment, true, nil
	}

	existing, err := r.GetByExperimentAndUser(ctx, transaction, assignment.ExperimentID, assignment.UserIdentifier)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *experimentAssignmentRepo) CountByVariant(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID) ([]VariantCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []VariantCount
	if err := transaction.WithContext(ctx).
		Model(&types.ExperimentAssignment{}).
		Select("variant, COUNT(*) as count").
		Where("experiment_id = ?", experimentID).
		Group("variant").
		Order("variant").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *experimentAssignmentRepo) CountByExperiment(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ExperimentAssignment{}).
		Where("experiment_id = ?", experimentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
