package main

import (
	"fmt"
	"net/http"
	"os"

	"peppermint/internal/config"
	"peppermint/internal/database"
	"peppermint/internal/handlers"
	"peppermint/internal/logger"
	"peppermint/internal/middleware"
	"peppermint/internal/services"
	"peppermint/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "peppermint/internal/docs" // Import swagger docs
)

// @title           Peppermint API
// @version         1.0
// @description     Peppermint is a personal finance backend for tracking bank accounts and the transactions that move their balances.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8000
// @BasePath  /peppermint

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
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	transactionService := services.NewTransactionService(db, accountService)
	auditService := services.NewAuditService(db)

	// Token manager carries the signing secret and token lifetime from config.
	tokens := middleware.NewTokenManager(appConfig.SecretKey, appConfig.AccessTokenTTL)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, auditService, tokens)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)

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
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pm := router.Group("/peppermint")

	// Public routes
	pm.POST("/user/register", userHandler.Register)
	pm.POST("/user/login", userHandler.Login)

	// Protected routes
	protected := pm.Group("/")
	protected.Use(tokens.RequireAuth(userService))

	// User routes
	protected.GET("/user", userHandler.GetProfile)
	protected.GET("/user/all", userHandler.GetAllUsers)
	protected.PUT("/user", userHandler.UpdateUser)
	protected.DELETE("/user/:user_id", userHandler.DeleteUser)

	// Account routes
	protected.POST("/account", accountHandler.CreateAccount)
	protected.GET("/account/my_accounts", accountHandler.GetMyAccounts)
	protected.GET("/account/:account_id", accountHandler.GetAccountByID)
	protected.PUT("/account/:account_id", accountHandler.UpdateAccount)
	protected.DELETE("/account/:account_id", accountHandler.DeleteAccount)

	// Transaction routes
	protected.GET("/transaction", transactionHandler.GetUserTransactions)
	protected.POST("/transaction/:account_id", transactionHandler.CreateTransaction)
	protected.GET("/transaction/:account_id", transactionHandler.GetAccountTransactions)
	protected.PUT("/transaction/:account_id/:transaction_id", transactionHandler.UpdateTransaction)
	protected.DELETE("/transaction/:account_id/:transaction_id", transactionHandler.DeleteTransaction)

	log.Infof("Starting Peppermint backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
