package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
)

// CouponError represents a coupon validation failure
type CouponError struct {
	Message string
}

func (e *CouponError) Error() string {
	return e.Message
}

// findValidCoupon looks up an active coupon by code for a seller and checks
// it against the order amount. Codes are uppercased before lookup. Returns a
// CouponError when the coupon is missing, expired, below the minimum order
// amount, or used up.
func findValidCoupon(db *gorm.DB, sellerID uuid.UUID, code string, orderAmount decimal.Decimal) (*models.Coupon, error) {
	var coupon models.Coupon
	err := db.Where("user_id = ? AND code = ? AND is_active = ?",
		sellerID, strings.ToUpper(code), true).First(&coupon).Error
	if err != nil {
		if isNotFoundError(err) {
			return nil, &CouponError{Message: "Invalid coupon code"}
		}
		return nil, err
	}

	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(time.Now()) {
		return nil, &CouponError{Message: "Coupon has expired"}
	}

	if coupon.MinOrderAmount != nil && orderAmount.LessThan(*coupon.MinOrderAmount) {
		return nil, &CouponError{Message: "Minimum order amount is " + coupon.MinOrderAmount.String()}
	}

	if coupon.MaxUses != nil && coupon.CurrentUses >= *coupon.MaxUses {
		return nil, &CouponError{Message: "Coupon usage limit reached"}
	}

	return &coupon, nil
}

// findAppliedCoupon re-resolves a coupon for pricing an order. Validation and
// the usage increment already happened when the buyer applied the code, so
// expiry and usage limits are not rechecked here: the buyer who consumed the
// last use must still be able to complete that checkout.
func findAppliedCoupon(db *gorm.DB, sellerID uuid.UUID, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := db.Where("user_id = ? AND code = ? AND is_active = ?",
		sellerID, strings.ToUpper(code), true).First(&coupon).Error
	if err != nil {
		if isNotFoundError(err) {
			return nil, &CouponError{Message: "Invalid coupon code"}
		}
		return nil, err
	}
	return &coupon, nil
}

// incrementCouponUsage bumps current_uses with a single conditional UPDATE so
// concurrent applies can never push the counter past max_uses
func incrementCouponUsage(db *gorm.DB, coupon *models.Coupon) error {
	tx := db.Model(&models.Coupon{}).Where("id = ?", coupon.ID)
	if coupon.MaxUses != nil {
		tx = tx.Where("current_uses < ?", *coupon.MaxUses)
	}

	result := tx.UpdateColumn("current_uses", gorm.Expr("current_uses + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &CouponError{Message: "Coupon usage limit reached"}
	}

	coupon.CurrentUses++
	return nil
}

// CreateCouponRequest represents the request body for creating a coupon
type CreateCouponRequest struct {
	Code           string           `json:"code" binding:"required"`
	DiscountType   string           `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue  decimal.Decimal  `json:"discount_value" binding:"required"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	MaxUses        *int             `json:"max_uses"`
	ExpiresAt      *time.Time       `json:"expires_at"`
	IsActive       *bool            `json:"is_active"`
}

// UpdateCouponRequest represents the request body for updating a coupon
type UpdateCouponRequest struct {
	Code           string           `json:"code"`
	DiscountType   string           `json:"discount_type" binding:"omitempty,oneof=percentage fixed"`
	DiscountValue  *decimal.Decimal `json:"discount_value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	MaxUses        *int             `json:"max_uses"`
	ExpiresAt      *time.Time       `json:"expires_at"`
	IsActive       *bool            `json:"is_active"`
}

// CreateCoupon handles POST /api/v1/coupons - creates a coupon with zero uses
func CreateCoupon(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req CreateCouponRequest
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

	if req.DiscountValue.IsNegative() || req.DiscountValue.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Discount value must be positive",
			},
		})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	coupon := models.Coupon{
		UserID:         user.ID,
		Code:           strings.ToUpper(req.Code),
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxUses:        req.MaxUses,
		CurrentUses:    0,
		ExpiresAt:      req.ExpiresAt,
		IsActive:       isActive,
	}

	db := config.GetDB()
	if err := db.Create(&coupon).Error; err != nil {
		if isDuplicateError(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "COUPON_EXISTS",
					"message": "A coupon with this code already exists",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create coupon",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    coupon,
	})
}

// GetCoupons handles GET /api/v1/coupons - lists the seller's coupons,
// newest first
func GetCoupons(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	var coupons []models.Coupon
	if err := db.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&coupons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load coupons",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    coupons,
	})
}

// UpdateCoupon handles PUT /api/v1/coupons/:id - updates coupon fields
func UpdateCoupon(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req UpdateCouponRequest
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

	db := config.GetDB()
	var coupon models.Coupon
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&coupon).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Coupon not found",
			},
		})
		return
	}

	if req.Code != "" {
		coupon.Code = strings.ToUpper(req.Code)
	}
	if req.DiscountType != "" {
		coupon.DiscountType = req.DiscountType
	}
	if req.DiscountValue != nil {
		coupon.DiscountValue = *req.DiscountValue
	}
	if req.MinOrderAmount != nil {
		coupon.MinOrderAmount = req.MinOrderAmount
	}
	if req.MaxUses != nil {
		coupon.MaxUses = req.MaxUses
	}
	if req.ExpiresAt != nil {
		coupon.ExpiresAt = req.ExpiresAt
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := db.Save(&coupon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update coupon",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    coupon,
	})
}

// ToggleCouponStatus handles PATCH /api/v1/coupons/:id/toggle - flips is_active
func ToggleCouponStatus(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	var coupon models.Coupon
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&coupon).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Coupon not found",
			},
		})
		return
	}

	coupon.IsActive = !coupon.IsActive
	if err := db.Model(&coupon).Update("is_active", coupon.IsActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to toggle coupon status",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    coupon,
	})
}

// DeleteCoupon handles DELETE /api/v1/coupons/:id - deletes a coupon
func DeleteCoupon(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	result := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).Delete(&models.Coupon{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete coupon",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Coupon not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Coupon deleted",
	})
}
