package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
)

func setupWebhookTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.UserSettings{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// fakePayPal answers IPN verification postbacks with a fixed verdict
func fakePayPal(t *testing.T, verdict string, statusCode int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(verdict))
	}))
}

func postIPN(router http.Handler, params url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/api/paypal/ipn", strings.NewReader(params.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlePayPalIPN(t *testing.T) {
	db := setupWebhookTestDB(t)
	config.SetDB(db)

	seller := createTestSeller(t, db, "auth0|seller1", "janedoe")
	paypalEmail := "seller-paypal@example.com"
	db.Create(&models.UserSettings{UserID: seller.ID, Currency: "USD", PayPalEmail: &paypalEmail})

	newOrder := func(t *testing.T) *models.Order {
		return createTestOrder(t, db, seller, models.OrderStatusPending, models.PaymentStatusPending, "49.99")
	}

	ipnParams := func(orderID, paymentStatus, receiver string) url.Values {
		params := url.Values{}
		params.Set("custom", orderID)
		params.Set("payment_status", paymentStatus)
		params.Set("receiver_email", receiver)
		params.Set("txn_id", "TXN-123")
		return params
	}

	paymentStatusOf := func(t *testing.T, orderID string) string {
		var order models.Order
		assert.NoError(t, db.First(&order, "id = ?", orderID).Error)
		return order.PaymentStatus
	}

	t.Run("verified completed payment marks the order paid", func(t *testing.T) {
		server := fakePayPal(t, "VERIFIED", http.StatusOK)
		defer server.Close()
		config.SetConfig(&config.Config{PayPalBaseURL: server.URL, AppBaseURL: "http://localhost:8080"})

		order := newOrder(t)
		router := setupTestRouter()
		router.POST("/api/paypal/ipn", HandlePayPalIPN)

		w := postIPN(router, ipnParams(order.ID.String(), "Completed", paypalEmail))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.PaymentStatusPaid, paymentStatusOf(t, order.ID.String()))
	})

	t.Run("verified refund marks the order refunded", func(t *testing.T) {
		server := fakePayPal(t, "VERIFIED", http.StatusOK)
		defer server.Close()
		config.SetConfig(&config.Config{PayPalBaseURL: server.URL, AppBaseURL: "http://localhost:8080"})

		order := newOrder(t)
		db.Model(order).Update("payment_status", models.PaymentStatusPaid)

		router := setupTestRouter()
		router.POST("/api/paypal/ipn", HandlePayPalIPN)

		w := postIPN(router, ipnParams(order.ID.String(), "Refunded", paypalEmail))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.PaymentStatusRefunded, paymentStatusOf(t, order.ID.String()))
	})

	t.Run("unverified notification is acknowledged and dropped", func(t *testing.T) {
		server := fakePayPal(t, "INVALID", http.StatusOK)
		defer server.Close()
		config.SetConfig(&config.Config{PayPalBaseURL: server.URL, AppBaseURL: "http://localhost:8080"})

		order := newOrder(t)
		router := setupTestRouter()
		router.POST("/api/paypal/ipn", HandlePayPalIPN)

		w := postIPN(router, ipnParams(order.ID.String(), "Completed", paypalEmail))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.PaymentStatusPending, paymentStatusOf(t, order.ID.String()))
	})

	t.Run("receiver email mismatch is dropped", func(t *testing.T) {
		server := fakePayPal(t, "VERIFIED", http.StatusOK)
		defer server.Close()
		config.SetConfig(&config.Config{PayPalBaseURL: server.URL, AppBaseURL: "http://localhost:8080"})

		order := newOrder(t)
		router := setupTestRouter()
		router.POST("/api/paypal/ipn", HandlePayPalIPN)

		w := postIPN(router, ipnParams(order.ID.String(), "Completed", "attacker@example.com"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.PaymentStatusPending, paymentStatusOf(t, order.ID.String()))
	})

	t.Run("receiver email match is case-insensitive", func(t *testing.T) {
		server := fakePayPal(t, "VERIFIED", http.StatusOK)
		defer server.Close()
		config.SetConfig(&config.Config{PayPalBaseURL: server.URL, AppBaseURL: "http://localhost:8080"})

		order := newOrder(t)
		router := setupTestRouter()
		router.POST("/api/paypal/ipn", HandlePayPalIPN)

		w := postIPN(router, ipnParams(order.ID.String(), "Completed", "Seller-PayPal@Example.COM"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.PaymentStatusPaid, paymentStatusOf(t, order.ID.String()))
	})

	t.Run("pending payment status is ignored", func(t *testing.T) {
		server := fakePayPal(t, "VERIFIED", http.StatusOK)
		defer server.Close()
		config.SetConfig(&config.Config{PayPalBaseURL: server.URL, AppBaseURL: "http://localhost:8080"})

		order := newOrder(t)
		router := setupTestRouter()
		router.POST("/api/paypal/ipn", HandlePayPalIPN)

		w := postIPN(router, ipnParams(order.ID.String(), "Pending", paypalEmail))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.PaymentStatusPending, paymentStatusOf(t, order.ID.String()))
	})

	t.Run("unknown order is acknowledged and dropped", func(t *testing.T) {
		server := fakePayPal(t, "VERIFIED", http.StatusOK)
		defer server.Close()
		config.SetConfig(&config.Config{PayPalBaseURL: server.URL, AppBaseURL: "http://localhost:8080"})

		router := setupTestRouter()
		router.POST("/api/paypal/ipn", HandlePayPalIPN)

		w := postIPN(router, ipnParams("00000000-0000-0000-0000-000000000000", "Completed", paypalEmail))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("verification round trip failure returns 500 so PayPal retries", func(t *testing.T) {
		server := fakePayPal(t, "", http.StatusInternalServerError)
		defer server.Close()
		config.SetConfig(&config.Config{PayPalBaseURL: server.URL, AppBaseURL: "http://localhost:8080"})

		order := newOrder(t)
		router := setupTestRouter()
		router.POST("/api/paypal/ipn", HandlePayPalIPN)

		w := postIPN(router, ipnParams(order.ID.String(), "Completed", paypalEmail))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, models.PaymentStatusPending, paymentStatusOf(t, order.ID.String()))
	})
}
