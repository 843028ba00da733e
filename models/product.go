package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product status values
const (
	ProductStatusDraft    = "draft"
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// CustomField is a seller-defined checkout input attached to a product.
// Type is one of: text, email, number, phone, textarea, select, checkbox.
type CustomField struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"` // for select fields
}

// Product represents a digital product listed by a seller
type Product struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"` // owning seller
	Title           string          `gorm:"not null" json:"title"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency        string          `gorm:"not null;default:'USD'" json:"currency"`
	Description     string          `gorm:"type:text" json:"description"`
	Type            string          `json:"type"` // ebook, course, software, ...
	PaymentGateways []string        `gorm:"serializer:json" json:"payment_gateways"`
	CustomFields    []CustomField   `gorm:"serializer:json" json:"custom_fields"`
	Images          []string        `gorm:"serializer:json" json:"images"` // S3 object keys
	ImageURLs       []string        `gorm:"-" json:"image_urls,omitempty"` // computed, presigned URLs
	Status          string          `gorm:"not null;default:'draft'" json:"status"` // draft, active, inactive
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns a UUID primary key when one is not already set
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
