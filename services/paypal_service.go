package services

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
)

// PayPal IPN verification outcomes
const (
	IPNVerified = "VERIFIED"
	IPNInvalid  = "INVALID"
)

// PayPalService builds "standard button" redirect URLs and verifies IPN
// notifications against PayPal
type PayPalService struct {
	baseURL    string // https://www.paypal.com/cgi-bin/webscr (sandbox in tests)
	appBaseURL string // our own origin, used for return/cancel/notify URLs
	httpClient *http.Client
}

// NewPayPalService creates a new PayPal service instance
func NewPayPalService(cfg *config.Config) *PayPalService {
	return &PayPalService{
		baseURL:    cfg.PayPalBaseURL,
		appBaseURL: strings.TrimRight(cfg.AppBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RedirectURL builds the PayPal standard checkout URL for an order. The
// buyer's browser is redirected here; the order id rides along in the
// custom param so the IPN handler can find the order again.
func (s *PayPalService) RedirectURL(paypalEmail string, order *models.Order, total decimal.Decimal) string {
	params := url.Values{}
	params.Set("cmd", "_xclick")
	params.Set("business", paypalEmail)
	params.Set("item_name", order.ProductTitle)
	params.Set("item_number", order.ID.String())
	params.Set("amount", total.String())
	params.Set("currency_code", order.Currency)
	params.Set("return", fmt.Sprintf("%s/payment/success?order_id=%s", s.appBaseURL, order.ID))
	params.Set("cancel_return", fmt.Sprintf("%s/payment/cancel?order_id=%s", s.appBaseURL, order.ID))
	params.Set("notify_url", fmt.Sprintf("%s/api/paypal/ipn", s.appBaseURL))
	params.Set("custom", order.ID.String())
	params.Set("no_shipping", "1")
	params.Set("no_note", "1")

	return fmt.Sprintf("%s?%s", s.baseURL, params.Encode())
}

// VerifyIPN echoes a received IPN payload back to PayPal with
// cmd=_notify-validate and returns PayPal's verdict (VERIFIED or INVALID).
// The raw body must be posted back unchanged, only the cmd is prepended.
func (s *PayPalService) VerifyIPN(rawBody string) (string, error) {
	payload := "cmd=_notify-validate&" + rawBody

	req, err := http.NewRequest(http.MethodPost, s.baseURL, strings.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call PayPal verification endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("PayPal verification returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read verification response: %w", err)
	}

	return strings.TrimSpace(string(body)), nil
}

// MapIPNPaymentStatus maps a PayPal payment_status value to our order
// payment status. Unknown values map to the empty string and are ignored
// by the webhook handler.
func MapIPNPaymentStatus(paypalStatus string) string {
	switch paypalStatus {
	case "Completed", "Processed":
		return models.PaymentStatusPaid
	case "Failed", "Denied", "Expired", "Voided":
		return models.PaymentStatusFailed
	case "Refunded", "Reversed":
		return models.PaymentStatusRefunded
	case "Pending":
		return models.PaymentStatusPending
	default:
		return ""
	}
}
