package types

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatusHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TicketID  uuid.UUID `gorm:"type:uuid;not null;index;column:ticket_id" json:"ticket_id"`
	Ticket    *Ticket   `gorm:"constraint:OnDelete:CASCADE;foreignKey:TicketID;references:ID" json:"ticket,omitempty"`
	OldStatus string    `gorm:"column:old_status" json:"old_status"`
	NewStatus string    `gorm:"not null;column:new_status" json:"new_status"`
	ChangedBy string    `gorm:"not null;column:changed_by" json:"changed_by"`
	Notes     string    `gorm:"column:notes" json:"notes"`
	ChangedAt time.Time `gorm:"not null;column:changed_at" json:"changed_at"`
}

func (TicketStatusHistory) TableName() string { return "ticket_status_history" }
