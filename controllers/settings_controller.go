package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
)

// UpdateSettingsRequest represents the request body for saving settings
type UpdateSettingsRequest struct {
	Currency    string  `json:"currency" binding:"omitempty,len=3"`
	PayPalEmail *string `json:"paypal_email" binding:"omitempty"`
}

// GetSettings handles GET /api/v1/settings - the seller's settings, with
// default USD currency when no row exists yet
func GetSettings(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	var settings models.UserSettings
	if err := db.Where("user_id = ?", user.ID).First(&settings).Error; err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data": models.UserSettings{
					UserID:   user.ID,
					Currency: "USD",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load settings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settings,
	})
}

// UpdateSettings handles PUT /api/v1/settings - upserts the settings row on
// user_id and, when the currency changes, rewrites the currency on all of
// the seller's products
func UpdateSettings(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	settings := models.UserSettings{
		UserID:      user.ID,
		Currency:    currency,
		PayPalEmail: req.PayPalEmail,
	}

	db := config.GetDB()
	assignments := map[string]interface{}{
		"currency":   currency,
		"updated_at": time.Now(),
	}
	if req.PayPalEmail != nil {
		assignments["paypal_email"] = *req.PayPalEmail
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save settings",
			},
		})
		return
	}

	// Keep all product rows priced in the seller's display currency
	if err := db.Model(&models.Product{}).Where("user_id = ?", user.ID).
		Update("currency", currency).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to sync product currency",
			},
		})
		return
	}

	var saved models.UserSettings
	if err := db.Where("user_id = ?", user.ID).First(&saved).Error; err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load saved settings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    saved,
	})
}
