package main

import (
	"fmt"

	"product-catalog/internal/config"
	"product-catalog/internal/logger"
	"product-catalog/internal/server"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting product catalog API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	store, err := server.OpenStore(cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}

	srv := server.NewServer(cfg, log, store)

	if err := srv.Run(); err != nil {
		log.Fatal("HTTP server error", zap.Error(err))
	}
}
