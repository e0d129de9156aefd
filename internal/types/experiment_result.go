package types

import (
	"time"

	"github.com/google/uuid"
)

// ExperimentResult is a derived snapshot, fully recomputable from assignments
// and events. Calculation replaces the whole set for an experiment.
type ExperimentResult struct {
	ID                         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExperimentID               uuid.UUID `gorm:"type:uuid;not null;index;column:experiment_id" json:"experiment_id"`
	Variant                    string    `gorm:"not null;column:variant" json:"variant"`
	MetricName                 string    `gorm:"not null;column:metric_name" json:"metric_name"`
	SampleSize                 int       `gorm:"not null;column:sample_size" json:"sample_size"`
	ConversionCount            int       `gorm:"not null;column:conversion_count" json:"conversion_count"`
	ConversionRate             float64   `gorm:"not null;column:conversion_rate" json:"conversion_rate"`
	ConfidenceIntervalLower    float64   `gorm:"column:confidence_interval_lower" json:"confidence_interval_lower"`
	ConfidenceIntervalUpper    float64   `gorm:"column:confidence_interval_upper" json:"confidence_interval_upper"`
	PValue                     *float64  `gorm:"column:p_value" json:"p_value"`
	IsStatisticallySignificant bool      `gorm:"not null;column:is_statistically_significant" json:"is_statistically_significant"`
	CalculatedAt               time.Time `gorm:"not null;column:calculated_at" json:"calculated_at"`
}

func (ExperimentResult) TableName() string { return "ab_test_result" }
