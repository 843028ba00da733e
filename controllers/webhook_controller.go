package controllers

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
	"github.com/sellport/sellport-api/services"
)

// HandlePayPalIPN handles POST /api/paypal/ipn - PayPal's asynchronous
// payment notification. The payload is echoed back to PayPal for
// verification before anything is trusted. Invalid or unmatched
// notifications are acknowledged with 200 and dropped, otherwise PayPal
// keeps retrying them; only a failed verification round trip returns an
// error status.
func HandlePayPalIPN(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	rawBody := string(body)

	paypal := services.NewPayPalService(config.GetConfig())
	verdict, err := paypal.VerifyIPN(rawBody)
	if err != nil {
		log.WithError(err).Error("PayPal IPN verification round trip failed")
		c.Status(http.StatusInternalServerError)
		return
	}
	if verdict != services.IPNVerified {
		log.WithField("verdict", verdict).Warn("Dropping unverified PayPal IPN")
		c.Status(http.StatusOK)
		return
	}

	params, err := url.ParseQuery(rawBody)
	if err != nil {
		log.WithError(err).Warn("Dropping malformed PayPal IPN payload")
		c.Status(http.StatusOK)
		return
	}

	orderID := params.Get("custom")
	paypalStatus := params.Get("payment_status")
	receiverEmail := params.Get("receiver_email")

	ipnLog := log.WithFields(log.Fields{
		"order_id":       orderID,
		"payment_status": paypalStatus,
		"txn_id":         params.Get("txn_id"),
	})

	mapped := services.MapIPNPaymentStatus(paypalStatus)
	if mapped == "" || mapped == models.PaymentStatusPending {
		ipnLog.Info("Ignoring PayPal IPN with no actionable payment status")
		c.Status(http.StatusOK)
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ?", orderID).First(&order).Error; err != nil {
		ipnLog.Warn("Dropping PayPal IPN for unknown order")
		c.Status(http.StatusOK)
		return
	}

	// The receiver must be the seller's configured PayPal account, otherwise
	// anyone could mark orders paid by paying themselves
	var settings models.UserSettings
	if err := db.Where("user_id = ?", order.SellerID).First(&settings).Error; err != nil ||
		settings.PayPalEmail == nil ||
		!strings.EqualFold(*settings.PayPalEmail, receiverEmail) {
		ipnLog.Warn("Dropping PayPal IPN with receiver mismatch")
		c.Status(http.StatusOK)
		return
	}

	if err := db.Model(&order).Update("payment_status", mapped).Error; err != nil {
		ipnLog.WithError(err).Error("Failed to update order payment status from IPN")
		c.Status(http.StatusInternalServerError)
		return
	}

	ipnLog.WithField("mapped_status", mapped).Info("Updated order payment status from PayPal IPN")
	c.Status(http.StatusOK)
}
