package server

import (
	"fmt"

	"product-catalog/internal/config"
	"product-catalog/internal/database"
	"product-catalog/internal/repository/memory"
	"product-catalog/migrations"

	"go.uber.org/zap"
)

// OpenStore connects the backend selected by DB_DRIVER. For PostgreSQL the
// embedded migrations are applied before the store is returned.
func OpenStore(cfg config.DatabaseConfig, logger *zap.Logger) (Store, error) {
	if cfg.InMemory() {
		logger.Warn("Using in-memory store, data is lost on shutdown")
		return memory.New(), nil
	}

	dbService, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	health := dbService.Health()
	logger.Info("Database health check", zap.Any("health", health))

	if err := database.RunMigrations(dbService.DB().DB, migrations.FS, ".", logger); err != nil {
		dbService.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return dbService, nil
}
