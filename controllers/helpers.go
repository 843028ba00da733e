package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/middleware"
	"github.com/sellport/sellport-api/models"
)

// currentUser resolves the authenticated user's profile row from the auth
// provider ID in the JWT. Writes the error response and returns nil when the
// token is missing or no profile exists yet.
func currentUser(c *gin.Context) *models.User {
	authID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth_id = ?", authID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil
	}

	return &user
}

// isDuplicateError reports whether err is a unique constraint violation
// (works with both PostgreSQL and SQLite)
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}

// isNotFoundError reports whether err is a gorm record-not-found error
func isNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
