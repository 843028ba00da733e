package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
	"github.com/sellport/sellport-api/services"
)

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Title           string               `json:"title" binding:"required"`
	Price           decimal.Decimal      `json:"price" binding:"required"`
	Description     string               `json:"description"`
	Type            string               `json:"type"`
	PaymentGateways []string             `json:"payment_gateways"`
	CustomFields    []models.CustomField `json:"custom_fields"`
	Status          string               `json:"status"`
}

// UpdateProductRequest represents the request body for updating a product.
// Products are replaced whole from the edit form, so all fields are present.
type UpdateProductRequest struct {
	Title           string               `json:"title" binding:"required"`
	Price           decimal.Decimal      `json:"price" binding:"required"`
	Description     string               `json:"description"`
	Type            string               `json:"type"`
	PaymentGateways []string             `json:"payment_gateways"`
	CustomFields    []models.CustomField `json:"custom_fields"`
	Status          string               `json:"status"`
}

// attachImageURLs fills the computed ImageURLs field with presigned URLs.
// Failures are logged and skipped so a storage hiccup never breaks a listing.
func attachImageURLs(products []models.Product) {
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	for i := range products {
		for _, key := range products[i].Images {
			url, err := imageService.GetImageURL(key)
			if err != nil {
				log.WithError(err).WithField("image_key", key).Warn("Failed to presign product image")
				continue
			}
			products[i].ImageURLs = append(products[i].ImageURLs, url)
		}
	}
}

// CreateProduct handles POST /api/v1/products - creates a product for the
// authenticated seller. The currency comes from the seller's settings.
func CreateProduct(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req CreateProductRequest
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

	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Price must not be negative",
			},
		})
		return
	}

	status := req.Status
	if status == "" {
		status = models.ProductStatusDraft
	}
	if status != models.ProductStatusDraft && status != models.ProductStatusActive && status != models.ProductStatusInactive {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid product status",
			},
		})
		return
	}

	db := config.GetDB()

	// Product currency follows the seller's settings, defaulting to USD
	currency := "USD"
	var settings models.UserSettings
	if err := db.Where("user_id = ?", user.ID).First(&settings).Error; err == nil {
		currency = settings.Currency
	}

	product := models.Product{
		UserID:          user.ID,
		Title:           req.Title,
		Price:           req.Price,
		Currency:        currency,
		Description:     req.Description,
		Type:            req.Type,
		PaymentGateways: req.PaymentGateways,
		CustomFields:    req.CustomFields,
		Status:          status,
	}

	if err := db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create product",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// GetProducts handles GET /api/v1/products - lists the seller's products,
// newest first
func GetProducts(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	var products []models.Product
	if err := db.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load products",
			},
		})
		return
	}

	attachImageURLs(products)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// GetProduct handles GET /api/v1/products/:id - gets one of the seller's products
func GetProduct(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	products := []models.Product{product}
	attachImageURLs(products)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products[0],
	})
}

// UpdateProduct handles PUT /api/v1/products/:id - replaces a product from
// the edit form
func UpdateProduct(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req UpdateProductRequest
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

	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Price must not be negative",
			},
		})
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	product.Title = req.Title
	product.Price = req.Price
	product.Description = req.Description
	product.Type = req.Type
	product.PaymentGateways = req.PaymentGateways
	product.CustomFields = req.CustomFields
	if req.Status != "" {
		product.Status = req.Status
	}

	if err := db.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// ToggleProductStatus handles PATCH /api/v1/products/:id/toggle - flips a
// product between active and inactive. Draft products activate on first
// toggle; toggling twice restores the previous value for active/inactive.
func ToggleProductStatus(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if product.Status == models.ProductStatusActive {
		product.Status = models.ProductStatusInactive
	} else {
		product.Status = models.ProductStatusActive
	}

	if err := db.Model(&product).Update("status", product.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to toggle product status",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /api/v1/products/:id - deletes a product and
// best-effort removes its images from storage
func DeleteProduct(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if err := db.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete product",
			},
		})
		return
	}

	if imageService := services.GetImageService(); imageService != nil {
		for _, key := range product.Images {
			if err := imageService.DeleteImage(key); err != nil {
				log.WithError(err).WithField("image_key", key).Warn("Failed to delete product image")
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}
