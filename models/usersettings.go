package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSettings holds per-seller storefront settings, one row per seller
type UserSettings struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Currency    string    `gorm:"not null;default:'USD'" json:"currency"`
	PayPalEmail *string   `gorm:"column:paypal_email" json:"paypal_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the UserSettings model
func (UserSettings) TableName() string {
	return "user_settings"
}

// BeforeCreate assigns a UUID primary key when one is not already set
func (s *UserSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
