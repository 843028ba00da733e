package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
	"github.com/sellport/sellport-api/services"
	"github.com/sellport/sellport-api/utils"
)

// UploadProductImage handles POST /api/v1/products/:id/images - validates and
// uploads a product image to storage, then appends its key to the product
func UploadProductImage(c *gin.Context) {
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

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "Image file is required",
			},
		})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Image storage is not configured",
			},
		})
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to upload image",
			},
		})
		return
	}

	product.Images = append(product.Images, imageKey)
	if err := db.Model(&product).Update("images", product.Images).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save product image",
			},
		})
		return
	}

	imageURL, _ := imageService.GetImageURL(imageKey)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"image_key": imageKey,
			"image_url": imageURL,
		},
	})
}

// DeleteProductImage handles DELETE /api/v1/products/:id/images?key= -
// removes one image from the product and from storage
func DeleteProductImage(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	imageKey := c.Query("key")
	if imageKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Image key is required",
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

	found := false
	remaining := make([]string, 0, len(product.Images))
	for _, key := range product.Images {
		if key == imageKey {
			found = true
			continue
		}
		remaining = append(remaining, key)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Image not found on this product",
			},
		})
		return
	}

	if err := db.Model(&product).Update("images", remaining).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update product images",
			},
		})
		return
	}

	if imageService := services.GetImageService(); imageService != nil {
		// Best effort: a stale object in the bucket is harmless
		_ = imageService.DeleteImage(imageKey)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Image deleted",
	})
}
