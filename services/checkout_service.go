package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sellport/sellport-api/models"
)

// CheckoutError represents a checkout validation failure
type CheckoutError struct {
	Code    string
	Message string
}

func (e *CheckoutError) Error() string {
	return e.Message
}

var oneHundred = decimal.NewFromInt(100)

// Subtotal returns unit price times quantity
func Subtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Discount returns the amount a coupon takes off the given subtotal.
// Percentage coupons take discount_value percent of the subtotal; fixed
// coupons take discount_value capped at the subtotal so the total never
// goes negative. A nil coupon discounts nothing.
func Discount(subtotal decimal.Decimal, coupon *models.Coupon) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}

	switch coupon.DiscountType {
	case models.DiscountTypePercentage:
		return subtotal.Mul(coupon.DiscountValue).Div(oneHundred)
	case models.DiscountTypeFixed:
		if coupon.DiscountValue.GreaterThan(subtotal) {
			return subtotal
		}
		return coupon.DiscountValue
	default:
		return decimal.Zero
	}
}

// Total returns subtotal minus the coupon discount
func Total(unitPrice decimal.Decimal, quantity int, coupon *models.Coupon) decimal.Decimal {
	subtotal := Subtotal(unitPrice, quantity)
	return subtotal.Sub(Discount(subtotal, coupon))
}

// CheckoutForm carries the buyer-entered fields validated at submit time
type CheckoutForm struct {
	Email        string            `json:"email"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Phone        string            `json:"phone"`
	Quantity     int               `json:"quantity"`
	Notes        string            `json:"notes"`
	CouponCode   string            `json:"coupon_code"`
	CustomFields map[string]string `json:"custom_fields"`
}

// ValidateCheckoutForm enforces the required-field policy. When the product
// defines custom fields, only the required custom fields are checked and the
// default contact fields are ignored; otherwise email, first name and last
// name are required. The two paths are mutually exclusive.
func ValidateCheckoutForm(product *models.Product, form *CheckoutForm) error {
	if form.Quantity < 1 {
		return &CheckoutError{
			Code:    "VALIDATION_ERROR",
			Message: "Quantity must be at least 1",
		}
	}

	if len(product.CustomFields) > 0 {
		for _, field := range product.CustomFields {
			if field.Required && strings.TrimSpace(form.CustomFields[field.Name]) == "" {
				return &CheckoutError{
					Code:    "VALIDATION_ERROR",
					Message: fmt.Sprintf("Please fill in the required field: %s", field.Name),
				}
			}
		}
		return nil
	}

	if form.Email == "" || form.FirstName == "" || form.LastName == "" {
		return &CheckoutError{
			Code:    "VALIDATION_ERROR",
			Message: "Please fill in all required customer information",
		}
	}
	return nil
}

// CustomerEmail resolves the buyer contact email for an order: the default
// email field when present, otherwise the value of the product's first
// custom field of type email.
func CustomerEmail(product *models.Product, form *CheckoutForm) string {
	if form.Email != "" {
		return form.Email
	}
	for _, field := range product.CustomFields {
		if field.Type == "email" {
			return form.CustomFields[field.Name]
		}
	}
	return ""
}

// CustomerName resolves the buyer display name, defaulting to "Customer"
// when no name fields were filled in
func CustomerName(form *CheckoutForm) string {
	name := strings.TrimSpace(form.FirstName + " " + form.LastName)
	if name == "" {
		return "Customer"
	}
	return name
}
