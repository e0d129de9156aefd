package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

// VariantConversionCounts carries the per-variant aggregates the statistics
// engine runs on: distinct assigned users and the distinct subset of them
// that ever emitted the target metric.
type VariantConversionCounts struct {
	Variant     string `json:"variant"`
	TotalUsers  int64  `json:"total_users"`
	Conversions int64  `json:"conversions"`
}

type ExperimentEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.ExperimentEvent) error
	ConversionCountsByVariant(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID, targetMetric string) ([]VariantConversionCounts, error)
}

type experimentEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExperimentEventRepo(db *gorm.DB, baseLog *logger.Logger) ExperimentEventRepo {
	repoLog := baseLog.With("repo", "ExperimentEventRepo")
	return &experimentEventRepo{db: db, log: repoLog}
}

func (r *experimentEventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.ExperimentEvent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(event).Error; err != nil {
		return err
	}
	return nil
}

// ConversionCountsByVariant left-joins events onto assignments so variants
// with zero conversions still produce a row. A user counts as converted once
// no matter how many target-metric events they emitted.
func (r *experimentEventRepo) ConversionCountsByVariant(ctx context.Context, tx *gorm.DB, experimentID uuid.UUID, targetMetric string) ([]VariantConversionCounts, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []VariantConversionCounts
	if err := transaction.WithContext(ctx).Raw(`
		SELECT
			a.variant AS variant,
			COUNT(DISTINCT a.user_identifier) AS total_users,
			COUNT(DISTINCT CASE WHEN e.event_name = ? THEN e.user_identifier END) AS conversions
		FROM ab_test_assignment a
		LEFT JOIN ab_test_event e
			ON a.experiment_id = e.experiment_id
			AND a.user_identifier = e.user_identifier
		WHERE a.experiment_id = ?
		GROUP BY a.variant
		ORDER BY a.variant
	`, targetMetric, experimentID).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
