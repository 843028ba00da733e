package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Coupon discount types
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon is a discount code scoped to one seller. Codes are stored uppercase
// and looked up uppercase, so matching is effectively case-insensitive.
type Coupon struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_coupons_user_code" json:"user_id"`
	Code           string           `gorm:"not null;uniqueIndex:idx_coupons_user_code" json:"code"`
	DiscountType   string           `gorm:"not null" json:"discount_type"` // percentage, fixed
	DiscountValue  decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"discount_value"`
	MinOrderAmount *decimal.Decimal `gorm:"type:decimal(10,2)" json:"min_order_amount,omitempty"`
	MaxUses        *int             `json:"max_uses,omitempty"`
	CurrentUses    int              `gorm:"not null;default:0" json:"current_uses"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	IsActive       bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TableName specifies the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}

// BeforeCreate assigns a UUID primary key when one is not already set
func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
