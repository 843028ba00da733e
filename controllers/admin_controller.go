package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
)

// AdminGetUsers handles GET /api/v1/admin/users - cross-tenant user listing
func AdminGetUsers(c *gin.Context) {
	db := config.GetDB()
	var users []models.User
	if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load users",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
	})
}

// AdminGetOrders handles GET /api/v1/admin/orders - cross-tenant order listing
func AdminGetOrders(c *gin.Context) {
	db := config.GetDB()
	var orders []models.Order
	if err := db.Order("created_at DESC").Find(&orders).Error; err != nil {
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

// AdminGetProducts handles GET /api/v1/admin/products - cross-tenant product
// listing
func AdminGetProducts(c *gin.Context) {
	db := config.GetDB()
	var products []models.Product
	if err := db.Order("created_at DESC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}
