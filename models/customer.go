package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer status values
const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
	CustomerStatusBlocked  = "blocked"
)

// ValidCustomerStatus reports whether s is a known customer status
func ValidCustomerStatus(s string) bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusBlocked:
		return true
	}
	return false
}

// Customer is a per-seller rollup of order activity keyed by (seller, email).
// It is not authoritative: rows are upserted as a side effect of order
// creation and can be rebuilt from the orders table.
type Customer struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SellerID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_customers_seller_email" json:"seller_id"`
	Email         string          `gorm:"not null;uniqueIndex:idx_customers_seller_email" json:"email"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	Country       string          `json:"country"`
	PostalCode    string          `json:"postal_code"`
	TotalOrders   int             `gorm:"not null;default:0" json:"total_orders"`
	TotalSpent    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_spent"`
	LastOrderDate *time.Time      `json:"last_order_date,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Status        string          `gorm:"not null;default:'active'" json:"status"` // active, inactive, blocked
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate assigns a UUID primary key when one is not already set
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
