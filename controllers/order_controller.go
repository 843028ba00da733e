package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
)

// UpdateOrderRequest represents the request body for seller order edits
type UpdateOrderRequest struct {
	OrderStatus   string `json:"order_status"`
	PaymentStatus string `json:"payment_status"`
	SellerNotes   string `json:"seller_notes"`
}

// GetOrders handles GET /api/v1/orders - lists the seller's orders, newest
// first. Supports ?status= filtering on order_status.
func GetOrders(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	query := db.Where("seller_id = ?", user.ID)

	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid order status",
				},
			})
			return
		}
		query = query.Where("order_status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrderStats handles GET /api/v1/orders/stats - dashboard rollup of
// per-status counts and paid revenue
func GetOrderStats(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	var orders []models.Order
	if err := db.Where("seller_id = ?", user.ID).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order stats",
			},
		})
		return
	}

	var pending, processing, shipped, delivered, cancelled, pendingPayments int
	totalRevenue := decimal.Zero
	for _, order := range orders {
		switch order.OrderStatus {
		case models.OrderStatusPending:
			pending++
		case models.OrderStatusProcessing:
			processing++
		case models.OrderStatusShipped:
			shipped++
		case models.OrderStatusDelivered:
			delivered++
		case models.OrderStatusCancelled:
			cancelled++
		}
		if order.PaymentStatus == models.PaymentStatusPaid {
			totalRevenue = totalRevenue.Add(order.TotalAmount)
		}
		if order.PaymentStatus == models.PaymentStatusPending {
			pendingPayments++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":            len(orders),
			"pending":          pending,
			"processing":       processing,
			"shipped":          shipped,
			"delivered":        delivered,
			"cancelled":        cancelled,
			"total_revenue":    totalRevenue,
			"pending_payments": pendingPayments,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - order details. Public because
// the payment return page looks the order up without a session.
func GetOrder(c *gin.Context) {
	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrder handles PUT /api/v1/orders/:id - seller edits to statuses
// and notes
func UpdateOrder(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req UpdateOrderRequest
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

	if req.OrderStatus != "" && !models.ValidOrderStatus(req.OrderStatus) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order status",
			},
		})
		return
	}
	if req.PaymentStatus != "" && !models.ValidPaymentStatus(req.PaymentStatus) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid payment status",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND seller_id = ?", c.Param("id"), user.ID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.OrderStatus != "" {
		updates["order_status"] = req.OrderStatus
	}
	if req.PaymentStatus != "" {
		updates["payment_status"] = req.PaymentStatus
	}
	if req.SellerNotes != "" {
		updates["seller_notes"] = req.SellerNotes
	}

	if len(updates) > 0 {
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update order",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /api/v1/orders/:id - manual deletion only; the
// system itself never deletes orders
func DeleteOrder(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	result := db.Where("id = ? AND seller_id = ?", c.Param("id"), user.ID).Delete(&models.Order{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete order",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted",
	})
}
