package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
	"github.com/sellport/sellport-api/utils"
)

// findStoreSeller resolves the seller owning the /:username storefront
func findStoreSeller(db *gorm.DB, username string) (*models.User, error) {
	var seller models.User
	if err := db.Where("username = ?", username).First(&seller).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}

// findStoreProduct resolves an active product by its title slug within a
// seller's storefront
func findStoreProduct(db *gorm.DB, sellerID uuid.UUID, slug string) (*models.Product, error) {
	var products []models.Product
	if err := db.Where("user_id = ? AND status = ?", sellerID, models.ProductStatusActive).Find(&products).Error; err != nil {
		return nil, err
	}
	for i := range products {
		if utils.Slugify(products[i].Title) == slug {
			return &products[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// GetStoreProducts handles GET /api/v1/store/:username - public storefront
// listing of a seller's active products, newest first
func GetStoreProducts(c *gin.Context) {
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

	var products []models.Product
	if err := db.Where("user_id = ? AND status = ?", seller.ID, models.ProductStatusActive).
		Order("created_at DESC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load store products",
			},
		})
		return
	}

	attachImageURLs(products)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"store": gin.H{
				"username": seller.Username,
				"name":     seller.Name,
			},
			"products": products,
		},
	})
}

// GetStoreProduct handles GET /api/v1/store/:username/products/:slug - public
// product detail for the checkout page
func GetStoreProduct(c *gin.Context) {
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

	products := []models.Product{*product}
	attachImageURLs(products)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products[0],
	})
}
