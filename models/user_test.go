package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw      string
		expected Role
	}{
		{"seller", RoleSeller},
		{"admin", RoleAdmin},
		{"", RoleUnknown},
		{"customer", RoleUnknown},
		{"Seller", RoleUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseRole(tt.raw), "ParseRole(%q)", tt.raw)
	}
}

func TestStatusValidators(t *testing.T) {
	assert.True(t, ValidPaymentStatus(PaymentStatusPaid))
	assert.False(t, ValidPaymentStatus("settled"))

	assert.True(t, ValidOrderStatus(OrderStatusShipped))
	assert.False(t, ValidOrderStatus("teleported"))

	assert.True(t, ValidCustomerStatus(CustomerStatusBlocked))
	assert.False(t, ValidCustomerStatus("banned"))

	assert.True(t, ValidQueryStatus(QueryStatusInProgress))
	assert.False(t, ValidQueryStatus("stalled"))

	assert.True(t, ValidQueryPriority(QueryPriorityUrgent))
	assert.False(t, ValidQueryPriority("asap"))
}

func TestBeforeCreateAssignsUUID(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	user := User{
		AuthID:   "auth0|abc",
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Username: "janedoe",
		Role:     RoleSeller,
	}
	assert.NoError(t, db.Create(&user).Error)
	assert.NotEqual(t, uuid.Nil, user.ID)

	// A preset ID is kept
	preset := uuid.New()
	user2 := User{
		ID:       preset,
		AuthID:   "auth0|def",
		Name:     "Other User",
		Email:    "other@example.com",
		Username: "otheruser",
		Role:     RoleSeller,
	}
	assert.NoError(t, db.Create(&user2).Error)
	assert.Equal(t, preset, user2.ID)
}
