package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
)

// upsertCustomerFromOrder rolls one order into the per-seller customer
// aggregate with a single atomic ON CONFLICT upsert on (seller_id, email),
// so concurrent orders for the same new customer cannot race the
// existence check.
func upsertCustomerFromOrder(db *gorm.DB, order *models.Order) error {
	if order.CustomerEmail == "" {
		return nil
	}

	orderDate := order.CreatedAt
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	assignments := map[string]interface{}{
		"total_orders":    gorm.Expr("total_orders + 1"),
		"total_spent":     gorm.Expr("total_spent + ?", order.TotalAmount),
		"last_order_date": orderDate,
		"updated_at":      time.Now(),
	}
	if order.CustomerName != "" {
		assignments["name"] = order.CustomerName
	}

	customer := models.Customer{
		SellerID:      order.SellerID,
		Email:         order.CustomerEmail,
		Name:          order.CustomerName,
		TotalOrders:   1,
		TotalSpent:    order.TotalAmount,
		LastOrderDate: &orderDate,
		Status:        models.CustomerStatusActive,
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "seller_id"}, {Name: "email"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&customer).Error
}

// UpdateCustomerRequest represents the request body for editing a customer
type UpdateCustomerRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Notes      string `json:"notes"`
	Status     string `json:"status"`
}

// GetCustomers handles GET /api/v1/customers - lists the seller's customers,
// newest first. Supports ?status= and ?search= filters.
func GetCustomers(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	query := db.Where("seller_id = ?", user.ID)

	if status := c.Query("status"); status != "" {
		if !models.ValidCustomerStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid customer status",
				},
			})
			return
		}
		query = query.Where("status = ?", status)
	}

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}

	var customers []models.Customer
	if err := query.Order("created_at DESC").Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load customers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
	})
}

// GetCustomerStats handles GET /api/v1/customers/stats - per-status counts
// and revenue rollups for the dashboard
func GetCustomerStats(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	var customers []models.Customer
	if err := db.Where("seller_id = ?", user.ID).Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load customer stats",
			},
		})
		return
	}

	var active, inactive, blocked, totalOrders int
	totalRevenue := decimal.Zero
	for _, customer := range customers {
		switch customer.Status {
		case models.CustomerStatusActive:
			active++
		case models.CustomerStatusInactive:
			inactive++
		case models.CustomerStatusBlocked:
			blocked++
		}
		totalOrders += customer.TotalOrders
		totalRevenue = totalRevenue.Add(customer.TotalSpent)
	}

	averageOrderValue := decimal.Zero
	if totalOrders > 0 {
		averageOrderValue = totalRevenue.Div(decimal.NewFromInt(int64(totalOrders))).Round(2)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":               len(customers),
			"active":              active,
			"inactive":            inactive,
			"blocked":             blocked,
			"total_revenue":       totalRevenue,
			"total_orders":        totalOrders,
			"average_order_value": averageOrderValue,
		},
	})
}

// UpdateCustomer handles PUT /api/v1/customers/:id - edits customer contact
// fields, notes and status
func UpdateCustomer(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req UpdateCustomerRequest
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

	if req.Status != "" && !models.ValidCustomerStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid customer status",
			},
		})
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.Where("id = ? AND seller_id = ?", c.Param("id"), user.ID).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.City != "" {
		updates["city"] = req.City
	}
	if req.Country != "" {
		updates["country"] = req.Country
	}
	if req.PostalCode != "" {
		updates["postal_code"] = req.PostalCode
	}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	if len(updates) > 0 {
		if err := db.Model(&customer).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update customer",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// DeleteCustomer handles DELETE /api/v1/customers/:id
func DeleteCustomer(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	result := db.Where("id = ? AND seller_id = ?", c.Param("id"), user.ID).Delete(&models.Customer{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete customer",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Customer deleted",
	})
}

// SyncCustomersFromOrders handles POST /api/v1/customers/sync - rebuilds the
// customer aggregates by replaying the seller's orders oldest first
func SyncCustomersFromOrders(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	var orders []models.Order
	if err := db.Where("seller_id = ?", user.ID).Order("created_at ASC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	// Replay on a clean slate so re-syncing doesn't double-count
	if err := db.Where("seller_id = ?", user.ID).Delete(&models.Customer{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to reset customers",
			},
		})
		return
	}

	for i := range orders {
		if err := upsertCustomerFromOrder(db, &orders[i]); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to sync customers from orders",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Customers synced from orders",
		"data": gin.H{
			"orders_processed": len(orders),
		},
	})
}
