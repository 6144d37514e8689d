// main.go
package main

import (
	"log"
	"time"

	"ecommerce-backend/cmd"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/internal/gateway"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/internal/wire"
	"ecommerce-backend/pkg/cache"
	"ecommerce-backend/pkg/database"
	"ecommerce-backend/pkg/events"
	"ecommerce-backend/pkg/mailer"
	"ecommerce-backend/pkg/storage"
	"ecommerce-backend/pkg/token"
	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	if config.JWT.Secret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.RunMigrations(config.Database, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Infrastructure
	store, err := cache.NewStore(config.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer store.Close()

	files, err := storage.New(config.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to init storage", zap.Error(err))
	}

	payments, err := gateway.New(config.Payment, logger)
	if err != nil {
		logger.Fatal("Failed to init payment gateway", zap.Error(err))
	}

	publisher := events.New(config.Kafka, logger)
	defer publisher.Close()

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(usecase.Deps{
		Repo:      repos,
		Config:    config,
		Tokens:    token.NewManager(config.JWT.Secret, time.Duration(config.JWT.ExpiryHours)*time.Hour),
		Store:     store,
		Mailer:    mailer.New(config.Email, logger),
		Storage:   files,
		Gateway:   payments,
		Publisher: publisher,
	}, db, logger)

	// Start server
	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
