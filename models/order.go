package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment status values
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Order status values
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ValidPaymentStatus reports whether s is a known payment status
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a checkout purchase. The product title and unit price are
// snapshotted at creation so later product edits don't rewrite order history.
type Order struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	SellerID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"seller_id"`
	ProductID       *uuid.UUID        `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ProductTitle    string            `gorm:"not null" json:"product_title"`
	Quantity        int               `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice       decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalAmount     decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Currency        string            `gorm:"not null;default:'USD'" json:"currency"`
	CustomerEmail   string            `gorm:"not null;index" json:"customer_email"`
	CustomerName    string            `json:"customer_name"`
	PaymentMethod   string            `json:"payment_method"`
	PaymentStatus   string            `gorm:"not null;default:'pending'" json:"payment_status"` // pending, paid, failed, refunded
	OrderStatus     string            `gorm:"not null;default:'pending'" json:"order_status"`   // pending, processing, shipped, delivered, cancelled
	CustomerNotes   string            `gorm:"type:text" json:"customer_notes"`
	SellerNotes     string            `gorm:"type:text" json:"seller_notes"`
	CustomFieldData map[string]string `gorm:"serializer:json" json:"custom_field_data"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns a UUID primary key when one is not already set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
