package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ExperimentEvent rows are append-only. Variant is copied from the user's
// assignment at record time so later reassignment bugs can never rewrite
// history.
type ExperimentEvent struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ExperimentID   uuid.UUID      `gorm:"type:uuid;not null;index;column:experiment_id" json:"experiment_id"`
	Experiment     *Experiment    `gorm:"constraint:OnDelete:CASCADE;foreignKey:ExperimentID;references:ID" json:"experiment,omitempty"`
	UserIdentifier string         `gorm:"not null;index;column:user_identifier" json:"user_identifier"`
	Variant        string         `gorm:"not null;column:variant" json:"variant"`
	EventName      string         `gorm:"not null;index;column:event_name" json:"event_name"`
	EventValue     *float64       `gorm:"column:event_value" json:"event_value,omitempty"`
	EventData      datatypes.JSON `gorm:"type:jsonb;column:event_data" json:"event_data,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
}

func (ExperimentEvent) TableName() string { return "ab_test_event" }
