package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sellport/sellport-api/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		quantity int
		expected string
	}{
		{
			name:     "single unit",
			price:    "49.99",
			quantity: 1,
			expected: "49.99",
		},
		{
			name:     "two units keep cents exact",
			price:    "49.99",
			quantity: 2,
			expected: "99.98",
		},
		{
			name:     "three units of a repeating-looking price",
			price:    "0.10",
			quantity: 3,
			expected: "0.3",
		},
		{
			name:     "large quantity",
			price:    "19.95",
			quantity: 100,
			expected: "1995",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Subtotal(d(tt.price), tt.quantity)
			assert.True(t, d(tt.expected).Equal(got),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		coupon   *models.Coupon
		expected string
	}{
		{
			name:     "nil coupon discounts nothing",
			subtotal: "99.98",
			coupon:   nil,
			expected: "0",
		},
		{
			name:     "20 percent of 99.98",
			subtotal: "99.98",
			coupon: &models.Coupon{
				DiscountType:  models.DiscountTypePercentage,
				DiscountValue: d("20"),
			},
			expected: "19.996",
		},
		{
			name:     "100 percent takes the full subtotal",
			subtotal: "49.99",
			coupon: &models.Coupon{
				DiscountType:  models.DiscountTypePercentage,
				DiscountValue: d("100"),
			},
			expected: "49.99",
		},
		{
			name:     "fixed amount below subtotal",
			subtotal: "49.99",
			coupon: &models.Coupon{
				DiscountType:  models.DiscountTypeFixed,
				DiscountValue: d("5"),
			},
			expected: "5",
		},
		{
			name:     "fixed amount above subtotal is capped",
			subtotal: "10",
			coupon: &models.Coupon{
				DiscountType:  models.DiscountTypeFixed,
				DiscountValue: d("15"),
			},
			expected: "10",
		},
		{
			name:     "unknown discount type discounts nothing",
			subtotal: "25",
			coupon: &models.Coupon{
				DiscountType:  "bogus",
				DiscountValue: d("5"),
			},
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Discount(d(tt.subtotal), tt.coupon)
			assert.True(t, d(tt.expected).Equal(got),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestTotal(t *testing.T) {
	t.Run("two units with twenty percent off", func(t *testing.T) {
		coupon := &models.Coupon{
			DiscountType:  models.DiscountTypePercentage,
			DiscountValue: d("20"),
		}
		got := Total(d("49.99"), 2, coupon)
		assert.True(t, d("79.984").Equal(got), "expected 79.984, got %s", got)
	})

	t.Run("fixed coupon larger than order never goes negative", func(t *testing.T) {
		coupon := &models.Coupon{
			DiscountType:  models.DiscountTypeFixed,
			DiscountValue: d("15"),
		}
		got := Total(d("10"), 1, coupon)
		assert.True(t, got.Equal(decimal.Zero), "expected 0, got %s", got)
		assert.False(t, got.IsNegative())
	})

	t.Run("no coupon equals subtotal", func(t *testing.T) {
		got := Total(d("49.99"), 2, nil)
		assert.True(t, d("99.98").Equal(got), "expected 99.98, got %s", got)
	})
}

func TestValidateCheckoutForm(t *testing.T) {
	plainProduct := &models.Product{Title: "E-Book"}
	customProduct := &models.Product{
		Title: "Course",
		CustomFields: []models.CustomField{
			{ID: 1, Name: "Company", Type: "text", Required: true},
			{ID: 2, Name: "Contact Email", Type: "email", Required: true},
			{ID: 3, Name: "Referral", Type: "text", Required: false},
		},
	}

	tests := []struct {
		name        string
		product     *models.Product
		form        CheckoutForm
		expectedErr string
	}{
		{
			name:    "default contact fields all present",
			product: plainProduct,
			form: CheckoutForm{
				Email:     "buyer@example.com",
				FirstName: "Jane",
				LastName:  "Doe",
				Quantity:  1,
			},
		},
		{
			name:    "missing email rejected",
			product: plainProduct,
			form: CheckoutForm{
				FirstName: "Jane",
				LastName:  "Doe",
				Quantity:  1,
			},
			expectedErr: "Please fill in all required customer information",
		},
		{
			name:    "missing last name rejected",
			product: plainProduct,
			form: CheckoutForm{
				Email:     "buyer@example.com",
				FirstName: "Jane",
				Quantity:  1,
			},
			expectedErr: "Please fill in all required customer information",
		},
		{
			name:    "zero quantity rejected",
			product: plainProduct,
			form: CheckoutForm{
				Email:     "buyer@example.com",
				FirstName: "Jane",
				LastName:  "Doe",
				Quantity:  0,
			},
			expectedErr: "Quantity must be at least 1",
		},
		{
			name:    "custom fields satisfied, contact fields ignored",
			product: customProduct,
			form: CheckoutForm{
				Quantity: 1,
				CustomFields: map[string]string{
					"Company":       "Acme",
					"Contact Email": "ops@acme.com",
				},
			},
		},
		{
			name:    "missing required custom field rejected",
			product: customProduct,
			form: CheckoutForm{
				Quantity: 1,
				CustomFields: map[string]string{
					"Company": "Acme",
				},
			},
			expectedErr: "Please fill in the required field: Contact Email",
		},
		{
			name:    "whitespace-only custom field value rejected",
			product: customProduct,
			form: CheckoutForm{
				Quantity: 1,
				CustomFields: map[string]string{
					"Company":       "   ",
					"Contact Email": "ops@acme.com",
				},
			},
			expectedErr: "Please fill in the required field: Company",
		},
		{
			name:    "optional custom field may be empty",
			product: customProduct,
			form: CheckoutForm{
				Quantity: 2,
				CustomFields: map[string]string{
					"Company":       "Acme",
					"Contact Email": "ops@acme.com",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCheckoutForm(tt.product, &tt.form)
			if tt.expectedErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedErr, err.Error())
			}
		})
	}
}

func TestCustomerEmail(t *testing.T) {
	customProduct := &models.Product{
		CustomFields: []models.CustomField{
			{ID: 1, Name: "Company", Type: "text", Required: true},
			{ID: 2, Name: "Work Email", Type: "email", Required: true},
			{ID: 3, Name: "Backup Email", Type: "email", Required: false},
		},
	}

	t.Run("default email field wins when present", func(t *testing.T) {
		form := &CheckoutForm{
			Email:        "buyer@example.com",
			CustomFields: map[string]string{"Work Email": "ops@acme.com"},
		}
		assert.Equal(t, "buyer@example.com", CustomerEmail(customProduct, form))
	})

	t.Run("falls back to first email-typed custom field", func(t *testing.T) {
		form := &CheckoutForm{
			CustomFields: map[string]string{
				"Work Email":   "ops@acme.com",
				"Backup Email": "backup@acme.com",
			},
		}
		assert.Equal(t, "ops@acme.com", CustomerEmail(customProduct, form))
	})

	t.Run("empty when nothing resolves", func(t *testing.T) {
		form := &CheckoutForm{}
		assert.Equal(t, "", CustomerEmail(&models.Product{}, form))
	})
}

func TestCustomerName(t *testing.T) {
	tests := []struct {
		name     string
		form     CheckoutForm
		expected string
	}{
		{"both names", CheckoutForm{FirstName: "Jane", LastName: "Doe"}, "Jane Doe"},
		{"first name only", CheckoutForm{FirstName: "Jane"}, "Jane"},
		{"last name only", CheckoutForm{LastName: "Doe"}, "Doe"},
		{"no names defaults", CheckoutForm{}, "Customer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CustomerName(&tt.form))
		})
	}
}
