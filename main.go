package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/controllers"
	"github.com/sellport/sellport-api/middleware"
	"github.com/sellport/sellport-api/models"
	"github.com/sellport/sellport-api/services"
)

func main() {
	log.Info("Starting Sellport API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.Customer{},
		&models.Coupon{},
		&models.Query{},
		&models.UserSettings{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Info("Database migration completed successfully")

	// Product image storage
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
	} else {
		log.Warn("AWS_S3_BUCKET not set, product image uploads are disabled")
	}

	// Outbound mail for query replies
	if services.InitMailer(cfg) == nil {
		log.Warn("SMTP not configured, query reply emails are disabled")
	}

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())

	// PayPal posts IPN notifications here; outside the versioned API because
	// the notify_url is part of the deployed checkout contract
	router.POST("/api/paypal/ipn", controllers.HandlePayPalIPN)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Public storefront and checkout
		store := v1.Group("/store/:username")
		{
			store.GET("", controllers.GetStoreProducts)
			store.GET("/products/:slug", controllers.GetStoreProduct)
			store.POST("/checkout/:slug", controllers.SubmitCheckout)
			store.POST("/checkout/:slug/coupon", controllers.ApplyCoupon)
			store.POST("/queries", controllers.CreateQuery)
		}

		// Public order lookup for the payment return page
		v1.GET("/order/:id", controllers.GetOrder)

		// Authenticated routes
		authed := v1.Group("")
		authed.Use(middleware.EnsureValidToken(cfg))
		{
			authed.POST("/users", controllers.CreateUser)
			authed.GET("/users/me", controllers.GetMyProfile)
			authed.PUT("/users/me", controllers.UpdateMyProfile)

			seller := authed.Group("")
			seller.Use(middleware.RequireRole(models.RoleSeller, models.RoleAdmin))
			{
				seller.POST("/products", controllers.CreateProduct)
				seller.GET("/products", controllers.GetProducts)
				seller.GET("/products/:id", controllers.GetProduct)
				seller.PUT("/products/:id", controllers.UpdateProduct)
				seller.PATCH("/products/:id/toggle", controllers.ToggleProductStatus)
				seller.DELETE("/products/:id", controllers.DeleteProduct)
				seller.POST("/products/:id/images", controllers.UploadProductImage)
				seller.DELETE("/products/:id/images", controllers.DeleteProductImage)

				seller.GET("/orders", controllers.GetOrders)
				seller.PUT("/orders/:id", controllers.UpdateOrder)
				seller.DELETE("/orders/:id", controllers.DeleteOrder)

				seller.GET("/customers", controllers.GetCustomers)
				seller.PUT("/customers/:id", controllers.UpdateCustomer)
				seller.DELETE("/customers/:id", controllers.DeleteCustomer)
				seller.POST("/customers/sync", controllers.SyncCustomersFromOrders)

				seller.POST("/coupons", controllers.CreateCoupon)
				seller.GET("/coupons", controllers.GetCoupons)
				seller.PUT("/coupons/:id", controllers.UpdateCoupon)
				seller.PATCH("/coupons/:id/toggle", controllers.ToggleCouponStatus)
				seller.DELETE("/coupons/:id", controllers.DeleteCoupon)

				seller.GET("/queries", controllers.GetQueries)
				seller.GET("/queries/:id", controllers.GetQuery)
				seller.PUT("/queries/:id", controllers.UpdateQuery)
				seller.POST("/queries/:id/reply", controllers.ReplyToQuery)
				seller.DELETE("/queries/:id", controllers.DeleteQuery)

				seller.GET("/settings", controllers.GetSettings)
				seller.PUT("/settings", controllers.UpdateSettings)

				// Dashboard rollups live under /stats so the static
				// segments never collide with the :id routes above
				seller.GET("/stats/orders", controllers.GetOrderStats)
				seller.GET("/stats/customers", controllers.GetCustomerStats)
				seller.GET("/stats/queries", controllers.GetQueryStats)
			}

			admin := authed.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", controllers.AdminGetUsers)
				admin.GET("/orders", controllers.AdminGetOrders)
				admin.GET("/products", controllers.AdminGetProducts)
			}
		}
	}

	// Start server
	port := ":" + cfg.Port
	log.Infof("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sellport API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
