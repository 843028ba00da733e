package services

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
)

func TestRedirectURL(t *testing.T) {
	cfg := &config.Config{
		PayPalBaseURL: "https://www.sandbox.paypal.com/cgi-bin/webscr",
		AppBaseURL:    "https://shop.example.com/",
	}
	svc := NewPayPalService(cfg)

	orderID := uuid.New()
	order := &models.Order{
		ID:           orderID,
		ProductTitle: "Premium E-Book Bundle",
		Currency:     "USD",
	}

	raw := svc.RedirectURL("seller@example.com", order, d("79.984"))

	parsed, err := url.Parse(raw)
	assert.NoError(t, err)
	assert.Equal(t, "www.sandbox.paypal.com", parsed.Host)
	assert.Equal(t, "/cgi-bin/webscr", parsed.Path)

	params := parsed.Query()
	assert.Equal(t, "_xclick", params.Get("cmd"))
	assert.Equal(t, "seller@example.com", params.Get("business"))
	assert.Equal(t, "Premium E-Book Bundle", params.Get("item_name"))
	assert.Equal(t, orderID.String(), params.Get("item_number"))
	assert.Equal(t, "79.984", params.Get("amount"))
	assert.Equal(t, "USD", params.Get("currency_code"))
	assert.Equal(t, orderID.String(), params.Get("custom"))
	assert.Equal(t, "1", params.Get("no_shipping"))
	assert.Equal(t, "1", params.Get("no_note"))

	// The trailing slash on the app base URL must not double up
	assert.Equal(t, "https://shop.example.com/payment/success?order_id="+orderID.String(), params.Get("return"))
	assert.Equal(t, "https://shop.example.com/payment/cancel?order_id="+orderID.String(), params.Get("cancel_return"))
	assert.Equal(t, "https://shop.example.com/api/paypal/ipn", params.Get("notify_url"))
}

func TestVerifyIPN(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		statusCode int
		expected   string
		expectErr  bool
	}{
		{
			name:       "verified payload",
			response:   "VERIFIED",
			statusCode: http.StatusOK,
			expected:   IPNVerified,
		},
		{
			name:       "invalid payload",
			response:   "INVALID",
			statusCode: http.StatusOK,
			expected:   IPNInvalid,
		},
		{
			name:       "verdict with trailing newline",
			response:   "VERIFIED\n",
			statusCode: http.StatusOK,
			expected:   IPNVerified,
		},
		{
			name:       "non-200 from verification endpoint",
			response:   "VERIFIED",
			statusCode: http.StatusServiceUnavailable,
			expectErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var receivedBody string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				receivedBody = string(body)
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			svc := NewPayPalService(&config.Config{
				PayPalBaseURL: server.URL,
				AppBaseURL:    "http://localhost:8080",
			})

			verdict, err := svc.VerifyIPN("payment_status=Completed&custom=abc123")
			if tt.expectErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, verdict)
			assert.Equal(t, "cmd=_notify-validate&payment_status=Completed&custom=abc123", receivedBody)
		})
	}
}

func TestMapIPNPaymentStatus(t *testing.T) {
	tests := []struct {
		paypalStatus string
		expected     string
	}{
		{"Completed", models.PaymentStatusPaid},
		{"Processed", models.PaymentStatusPaid},
		{"Failed", models.PaymentStatusFailed},
		{"Denied", models.PaymentStatusFailed},
		{"Expired", models.PaymentStatusFailed},
		{"Voided", models.PaymentStatusFailed},
		{"Refunded", models.PaymentStatusRefunded},
		{"Reversed", models.PaymentStatusRefunded},
		{"Pending", models.PaymentStatusPending},
		{"Created", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run("status "+tt.paypalStatus, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapIPNPaymentStatus(tt.paypalStatus))
		})
	}
}
