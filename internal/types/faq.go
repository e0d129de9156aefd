package types

import (
	"time"

	"github.com/google/uuid"
)

type FAQ struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Question  string    `gorm:"not null;column:question" json:"question"`
	Answer    string    `gorm:"not null;column:answer" json:"answer"`
	Category  string    `gorm:"not null;index;column:category" json:"category"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (FAQ) TableName() string { return "faq" }
