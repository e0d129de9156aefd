package types

import (
	"time"

	"github.com/google/uuid"
)

// Notification delivery statuses.
const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

type Notification struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TicketID         *uuid.UUID `gorm:"type:uuid;index;column:ticket_id" json:"ticket_id,omitempty"`
	RecipientEmail   string     `gorm:"not null;column:recipient_email" json:"recipient_email"`
	NotificationType string     `gorm:"not null;column:notification_type" json:"notification_type"`
	Subject          string     `gorm:"not null;column:subject" json:"subject"`
	Content          string     `gorm:"not null;column:content" json:"content"`
	Status           string     `gorm:"not null;column:status" json:"status"`
	SentAt           *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }
