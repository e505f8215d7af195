package main

import (
	"fmt"
	"net/http"
	"os"

	"tripledger/internal/config"
	"tripledger/internal/database"
	"tripledger/internal/handlers"
	"tripledger/internal/logger"
	"tripledger/internal/middleware"
	"tripledger/internal/services"
	"tripledger/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "tripledger/internal/docs" // Import swagger docs
)

// @title           TripLedger API
// @version         1.0
// @description     TripLedger tracks travel spending: bank accounts, trips, transactions with receipts, and per-user dashboards.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	tripService := services.NewTripService(db)
	destinationService := services.NewDestinationService(db)
	transactionService := services.NewTransactionService(db, accountService, categoryService, tripService)
	receiptService := services.NewReceiptService(db, appConfig.ReceiptDir, transactionService)
	dashboardService := services.NewDashboardService(db)
	statsService := services.NewStatsService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, transactionService)
	tripHandler := handlers.NewTripHandler(tripService, transactionService)
	destinationHandler := handlers.NewDestinationHandler(destinationService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, receiptService)
	receiptHandler := handlers.NewReceiptHandler(receiptService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Anonymous landing-page statistics
	v1.GET("/stats/overview", statsHandler.GetOverview)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Trip routes
	trips := protected.Group("/trips")
	trips.POST("", tripHandler.CreateTrip)
	trips.GET("", tripHandler.GetTrips)
	trips.GET("/:id", tripHandler.GetTrip)
	trips.PUT("/:id", tripHandler.UpdateTrip)
	trips.DELETE("/:id", tripHandler.DeleteTrip)

	// Destination reference data; writes are admin only
	countries := protected.Group("/countries")
	countries.GET("", destinationHandler.GetCountries)
	countries.GET("/:id/cities", destinationHandler.GetCities)
	countries.POST("", middleware.AdminOnly(), destinationHandler.CreateCountry)
	countries.POST("/:id/cities", middleware.AdminOnly(), destinationHandler.CreateCity)

	// Category routes; writes are admin only
	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.POST("", middleware.AdminOnly(), categoryHandler.CreateCategory)
	categories.PUT("/:id", middleware.AdminOnly(), categoryHandler.UpdateCategory)
	categories.DELETE("/:id", middleware.AdminOnly(), categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/:id/receipts", receiptHandler.UploadReceipt)
	transactions.GET("/:id/receipts", receiptHandler.GetReceipts)

	// Receipt routes
	receipts := protected.Group("/receipts")
	receipts.GET("/:id/file", receiptHandler.DownloadReceipt)
	receipts.DELETE("/:id", receiptHandler.DeleteReceipt)

	// Dashboard routes
	dashboard := protected.Group("/dashboard")
	dashboard.GET("", dashboardHandler.GetDashboard)
	dashboard.GET("/monthly", dashboardHandler.GetMonthlyStats)
	dashboard.GET("/categories", dashboardHandler.GetCategoryStats)
	dashboard.GET("/trips", dashboardHandler.GetTripStats)
	dashboard.GET("/current-month", dashboardHandler.GetCurrentMonthSummary)

	log.Infof("Starting TripLedger backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
