package types

import (
	"time"

	"github.com/google/uuid"
)

// Ticket priorities and statuses.
const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"

	TicketStatusNew        = "new"
	TicketStatusInProgress = "in-progress"
	TicketStatusResolved   = "resolved"
)

type Ticket struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"not null;column:title" json:"title"`
	Description  string    `gorm:"not null;column:description" json:"description"`
	Priority     string    `gorm:"not null;column:priority" json:"priority"`
	Status       string    `gorm:"not null;index;column:status" json:"status"`
	ContactEmail string    `gorm:"not null;column:contact_email" json:"contact_email"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Ticket) TableName() string { return "ticket" }
