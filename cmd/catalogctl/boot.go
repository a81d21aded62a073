package main

import (
	"fmt"

	"product-catalog/internal/config"
	"product-catalog/internal/database"
	"product-catalog/internal/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// boot loads configuration and builds the logger shared by every command
func boot() (*config.Config, *zap.Logger, error) {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

// bootDB additionally opens the PostgreSQL pool; migration commands need a real database
func bootDB() (database.Service, *zap.Logger, error) {
	cfg, log, err := boot()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.InMemory() {
		return nil, nil, fmt.Errorf("DB_DRIVER=memory has no schema to migrate")
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, log, nil
}
