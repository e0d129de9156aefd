package types

import (
	"time"

	"github.com/google/uuid"
)

// Experiment statuses.
const (
	ExperimentStatusDraft     = "draft"
	ExperimentStatusRunning   = "running"
	ExperimentStatusPaused    = "paused"
	ExperimentStatusCompleted = "completed"
)

type Experiment struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string     `gorm:"not null;column:name" json:"name"`
	Description       string     `gorm:"column:description" json:"description"`
	Hypothesis        string     `gorm:"column:hypothesis" json:"hypothesis"`
	ControlVariant    string     `gorm:"not null;column:control_variant" json:"control_variant"`
	TestVariant       string     `gorm:"not null;column:test_variant" json:"test_variant"`
	TargetMetric      string     `gorm:"not null;column:target_metric" json:"target_metric"`
	MinimumSampleSize int        `gorm:"not null;column:minimum_sample_size" json:"minimum_sample_size"`
	ConfidenceLevel   float64    `gorm:"not null;column:confidence_level" json:"confidence_level"`
	Status            string     `gorm:"not null;index;column:status" json:"status"`
	StartDate         *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate           *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	CreatedAt         time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"not null" json:"updated_at"`
}

func (Experiment) TableName() string { return "ab_test" }
