package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
	"github.com/sellport/sellport-api/services"
)

// CreateQueryRequest represents a storefront contact form submission
type CreateQueryRequest struct {
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerName  string `json:"customer_name"`
	Subject       string `json:"subject" binding:"required"`
	Message       string `json:"message" binding:"required"`
	Priority      string `json:"priority"`
	Category      string `json:"category"`
}

// UpdateQueryRequest represents seller edits to a query
type UpdateQueryRequest struct {
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// ReplyQueryRequest represents the request body for replying to a query
type ReplyQueryRequest struct {
	Message string `json:"message" binding:"required"`
}

// CreateQuery handles POST /api/v1/store/:username/queries - public support
// ticket submission against a seller's storefront
func CreateQuery(c *gin.Context) {
	var req CreateQueryRequest
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

	priority := req.Priority
	if priority == "" {
		priority = models.QueryPriorityMedium
	}
	if !models.ValidQueryPriority(priority) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid query priority",
			},
		})
		return
	}

	category := req.Category
	if category == "" {
		category = models.QueryCategoryGeneral
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

	query := models.Query{
		SellerID:      seller.ID,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		Subject:       req.Subject,
		Message:       req.Message,
		Priority:      priority,
		Status:        models.QueryStatusOpen,
		Category:      category,
	}

	if err := db.Create(&query).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create query",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    query,
	})
}

// GetQueries handles GET /api/v1/queries - lists the seller's support
// queries, newest first. Supports ?status=, ?priority= and ?search= filters.
func GetQueries(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	query := db.Where("seller_id = ?", user.ID)

	if status := c.Query("status"); status != "" {
		if !models.ValidQueryStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid query status",
				},
			})
			return
		}
		query = query.Where("status = ?", status)
	}

	if priority := c.Query("priority"); priority != "" {
		if !models.ValidQueryPriority(priority) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid query priority",
				},
			})
			return
		}
		query = query.Where("priority = ?", priority)
	}

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"LOWER(subject) LIKE LOWER(?) OR LOWER(customer_name) LIKE LOWER(?) OR LOWER(customer_email) LIKE LOWER(?)",
			pattern, pattern, pattern)
	}

	var queries []models.Query
	if err := query.Order("created_at DESC").Find(&queries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load queries",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    queries,
	})
}

// GetQueryStats handles GET /api/v1/queries/stats - dashboard counts
func GetQueryStats(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	var queries []models.Query
	if err := db.Where("seller_id = ?", user.ID).Find(&queries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load query stats",
			},
		})
		return
	}

	var open, inProgress, resolved, urgent, high int
	for _, q := range queries {
		switch q.Status {
		case models.QueryStatusOpen:
			open++
		case models.QueryStatusInProgress:
			inProgress++
		case models.QueryStatusResolved:
			resolved++
		}
		switch q.Priority {
		case models.QueryPriorityUrgent:
			urgent++
		case models.QueryPriorityHigh:
			high++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":       len(queries),
			"open":        open,
			"in_progress": inProgress,
			"resolved":    resolved,
			"urgent":      urgent,
			"high":        high,
		},
	})
}

// GetQuery handles GET /api/v1/queries/:id
func GetQuery(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	var query models.Query
	if err := db.Where("id = ? AND seller_id = ?", c.Param("id"), user.ID).First(&query).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Query not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    query,
	})
}

// UpdateQuery handles PUT /api/v1/queries/:id - status/priority changes
func UpdateQuery(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req UpdateQueryRequest
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

	if req.Status != "" && !models.ValidQueryStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid query status",
			},
		})
		return
	}
	if req.Priority != "" && !models.ValidQueryPriority(req.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid query priority",
			},
		})
		return
	}

	db := config.GetDB()
	var query models.Query
	if err := db.Where("id = ? AND seller_id = ?", c.Param("id"), user.ID).First(&query).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Query not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.Priority != "" {
		updates["priority"] = req.Priority
	}

	if len(updates) > 0 {
		if err := db.Model(&query).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update query",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    query,
	})
}

// ReplyToQuery handles POST /api/v1/queries/:id/reply - stores the reply,
// marks the query resolved and emails the customer when mail is configured
func ReplyToQuery(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req ReplyQueryRequest
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
	var query models.Query
	if err := db.Where("id = ? AND seller_id = ?", c.Param("id"), user.ID).First(&query).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Query not found",
			},
		})
		return
	}

	now := time.Now()
	if err := db.Model(&query).Updates(map[string]interface{}{
		"reply_message": req.Message,
		"replied_at":    now,
		"status":        models.QueryStatusResolved,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save reply",
			},
		})
		return
	}

	query.ReplyMessage = &req.Message
	query.RepliedAt = &now
	query.Status = models.QueryStatusResolved

	// Mail is best effort: a failed send never fails the reply
	if mailer := services.GetMailer(); mailer != nil {
		subject := fmt.Sprintf("Re: %s", query.Subject)
		body := fmt.Sprintf("Hello %s,\n\n%s\n\n--\n%s", query.CustomerName, req.Message, user.Name)
		if err := mailer.SendEmail(context.Background(), query.CustomerEmail, subject, body); err != nil {
			log.WithError(err).WithField("query_id", query.ID).Error("Failed to send reply email")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    query,
	})
}

// DeleteQuery handles DELETE /api/v1/queries/:id
func DeleteQuery(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	result := db.Where("id = ? AND seller_id = ?", c.Param("id"), user.ID).Delete(&models.Query{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete query",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Query not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Query deleted",
	})
}
