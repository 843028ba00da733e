package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies what a user is allowed to do. It is a closed set:
// anything that is not a known role parses to RoleUnknown and is
// rejected at routing boundaries.
type Role string

const (
	RoleSeller  Role = "seller"
	RoleAdmin   Role = "admin"
	RoleUnknown Role = "unknown"
)

// ParseRole maps a raw role claim to a Role. Unrecognized values
// (including the empty string) become RoleUnknown.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleSeller:
		return RoleSeller
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// User represents a seller or admin profile, synced from the identity provider
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AuthID    string         `gorm:"uniqueIndex;not null" json:"auth_id"` // identity provider user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Username  string         `gorm:"uniqueIndex;not null" json:"username"` // storefront handle (/:username)
	Role      Role           `gorm:"not null;default:'seller'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key when one is not already set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
