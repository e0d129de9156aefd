package types

import (
	"time"

	"github.com/google/uuid"
)

type UserPreference struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email                 string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	EmailNotifications    bool      `gorm:"not null;column:email_notifications" json:"email_notifications"`
	SMSNotifications      bool      `gorm:"not null;column:sms_notifications" json:"sms_notifications"`
	NotificationFrequency string    `gorm:"not null;column:notification_frequency" json:"notification_frequency"`
	PreferredLanguage     string    `gorm:"not null;column:preferred_language" json:"preferred_language"`
	CreatedAt             time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time `gorm:"not null" json:"updated_at"`
}

func (UserPreference) TableName() string { return "user_preference" }
