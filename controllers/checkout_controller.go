package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
	"github.com/sellport/sellport-api/services"
)

// ApplyCouponRequest represents the request body for applying a coupon at checkout
type ApplyCouponRequest struct {
	CouponCode string `json:"coupon_code" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
}

// ApplyCoupon handles POST /api/v1/store/:username/checkout/:slug/coupon -
// validates a coupon against the checkout subtotal and consumes one use.
// The use is consumed at apply time, not at order completion, so a buyer
// who applies a coupon and abandons checkout still burns a use. That
// matches the shipped behavior and is kept for parity.
func ApplyCoupon(c *gin.Context) {
	var req ApplyCouponRequest
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

	seller, err := findStoreSeller(db, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Store not found",
			},
		})
		return
	}

	product, err := findStoreProduct(db, seller.ID, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	subtotal := services.Subtotal(product.Price, req.Quantity)

	coupon, err := findValidCoupon(db, product.UserID, req.CouponCode, subtotal)
	if err != nil {
		var couponErr *CouponError
		if errors.As(err, &couponErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_COUPON",
					"message": couponErr.Message,
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to validate coupon",
			},
		})
		return
	}

	if err := incrementCouponUsage(db, coupon); err != nil {
		var couponErr *CouponError
		if errors.As(err, &couponErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_COUPON",
					"message": couponErr.Message,
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to apply coupon",
			},
		})
		return
	}

	discount := services.Discount(subtotal, coupon)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"coupon":   coupon,
			"subtotal": subtotal,
			"discount": discount,
			"total":    subtotal.Sub(discount),
		},
	})
}

// SubmitCheckout handles POST /api/v1/store/:username/checkout/:slug -
// validates the buyer's form, creates a pending order, rolls the order into
// the customer aggregate, and returns the PayPal redirect URL
func SubmitCheckout(c *gin.Context) {
	var form services.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
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

	seller, err := findStoreSeller(db, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Store not found",
			},
		})
		return
	}

	product, err := findStoreProduct(db, seller.ID, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if err := services.ValidateCheckoutForm(product, &form); err != nil {
		var checkoutErr *services.CheckoutError
		if errors.As(err, &checkoutErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    checkoutErr.Code,
					"message": checkoutErr.Message,
				},
			})
			return
		}

		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	// Re-resolve a previously applied coupon to price the order. The usage
	// counter was already bumped at apply time, so limits are not rechecked.
	var coupon *models.Coupon
	if form.CouponCode != "" {
		coupon, err = findAppliedCoupon(db, product.UserID, form.CouponCode)
		if err != nil {
			var couponErr *CouponError
			if errors.As(err, &couponErr) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INVALID_COUPON",
						"message": couponErr.Message,
					},
				})
				return
			}

			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to validate coupon",
				},
			})
			return
		}
	}

	// The seller must have PayPal configured before any order row is created
	var settings models.UserSettings
	settingsErr := db.Where("user_id = ?", product.UserID).First(&settings).Error
	if settingsErr != nil || settings.PayPalEmail == nil || *settings.PayPalEmail == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PAYMENT_NOT_CONFIGURED",
				"message": "PayPal is not configured for this seller",
			},
		})
		return
	}

	total := services.Total(product.Price, form.Quantity, coupon)

	productID := product.ID
	order := models.Order{
		SellerID:        product.UserID,
		ProductID:       &productID,
		ProductTitle:    product.Title,
		Quantity:        form.Quantity,
		UnitPrice:       product.Price,
		TotalAmount:     total,
		Currency:        product.Currency,
		CustomerEmail:   services.CustomerEmail(product, &form),
		CustomerName:    services.CustomerName(&form),
		PaymentMethod:   "paypal",
		PaymentStatus:   models.PaymentStatusPending,
		OrderStatus:     models.OrderStatusPending,
		CustomerNotes:   form.Notes,
		CustomFieldData: form.CustomFields,
	}

	if err := db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	// Roll the order into the customer aggregate. Best effort: the order
	// stands even if the rollup write fails.
	if err := upsertCustomerFromOrder(db, &order); err != nil {
		log.WithError(err).WithField("order_id", order.ID).Error("Failed to upsert customer from order")
	}

	paypal := services.NewPayPalService(config.GetConfig())
	redirectURL := paypal.RedirectURL(*settings.PayPalEmail, &order, total)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order":        order,
			"redirect_url": redirectURL,
		},
	})
}
