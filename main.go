// main.go
package main

import (
	"context"
	"log"

	"bonus-tma/cmd"
	"bonus-tma/internal/data/migrations"
	"bonus-tma/internal/data/repository"
	"bonus-tma/internal/data/seed"
	"bonus-tma/internal/wire"
	"bonus-tma/pkg/database"
	"bonus-tma/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("env", config.App.Env),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)
	if config.Telegram.SkipAuth {
		logger.Warn("Telegram init data verification is DISABLED (SKIP_TG_AUTH)")
	}

	// Apply schema
	if err := migrations.Up(config.Database, logger); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	if config.App.SeedDemo {
		if err := seed.Run(context.Background(), repos, logger); err != nil {
			logger.Fatal("Failed to seed demo data", zap.Error(err))
		}
	}

	// Wire all dependencies
	app := wire.Wiring(repos, db, config, logger)

	// Start server
	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
