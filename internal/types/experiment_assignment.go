package types

import (
	"time"

	"github.com/google/uuid"
)

// ExperimentAssignment pins a user to one variant for the lifetime of an
// experiment. The composite unique index is what makes concurrent assign
// calls for the same user collapse to a single row.
type ExperimentAssignment struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ExperimentID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_ab_test_assignment_experiment_user;index" json:"experiment_id"`
	Experiment     *Experiment `gorm:"constraint:OnDelete:CASCADE;foreignKey:ExperimentID;references:ID" json:"experiment,omitempty"`
	UserIdentifier string      `gorm:"not null;uniqueIndex:idx_ab_test_assignment_experiment_user;column:user_identifier" json:"user_identifier"`
	Variant        string      `gorm:"not null;column:variant" json:"variant"`
	AssignedAt     time.Time   `gorm:"not null;column:assigned_at" json:"assigned_at"`
}

func (ExperimentAssignment) TableName() string { return "ab_test_assignment" }
