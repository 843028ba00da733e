package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Query status values
const (
	QueryStatusOpen       = "open"
	QueryStatusInProgress = "in_progress"
	QueryStatusResolved   = "resolved"
	QueryStatusClosed     = "closed"
)

// Query priority values
const (
	QueryPriorityLow    = "low"
	QueryPriorityMedium = "medium"
	QueryPriorityHigh   = "high"
	QueryPriorityUrgent = "urgent"
)

// Query category values
const (
	QueryCategoryGeneral   = "general"
	QueryCategoryTechnical = "technical"
	QueryCategoryBilling   = "billing"
	QueryCategoryProduct   = "product"
	QueryCategoryRefund    = "refund"
	QueryCategoryComplaint = "complaint"
)

// ValidQueryStatus reports whether s is a known query status
func ValidQueryStatus(s string) bool {
	switch s {
	case QueryStatusOpen, QueryStatusInProgress, QueryStatusResolved, QueryStatusClosed:
		return true
	}
	return false
}

// ValidQueryPriority reports whether s is a known query priority
func ValidQueryPriority(s string) bool {
	switch s {
	case QueryPriorityLow, QueryPriorityMedium, QueryPriorityHigh, QueryPriorityUrgent:
		return true
	}
	return false
}

// Query represents a customer support ticket directed at a seller
type Query struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SellerID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"seller_id"`
	CustomerEmail string         `gorm:"not null" json:"customer_email"`
	CustomerName  string         `json:"customer_name"`
	Subject       string         `gorm:"not null" json:"subject"`
	Message       string         `gorm:"type:text;not null" json:"message"`
	Priority      string         `gorm:"not null;default:'medium'" json:"priority"` // low, medium, high, urgent
	Status        string         `gorm:"not null;default:'open'" json:"status"`     // open, in_progress, resolved, closed
	Category      string         `gorm:"not null;default:'general'" json:"category"`
	ReplyMessage  *string        `gorm:"type:text" json:"reply_message,omitempty"`
	RepliedAt     *time.Time     `json:"replied_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Query model
func (Query) TableName() string {
	return "queries"
}

// BeforeCreate assigns a UUID primary key when one is not already set
func (q *Query) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
