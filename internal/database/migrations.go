package database

import (
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func prepareGoose(migrations fs.FS) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// RunMigrations executes all pending database migrations found in dir of migrations
func RunMigrations(db *sql.DB, migrations fs.FS, dir string, logger *zap.Logger) error {
	if err := prepareGoose(migrations); err != nil {
		return err
	}

	logger.Info("Checking for pending migrations...", zap.String("dir", dir))

	if err := goose.Up(db, dir); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations completed successfully")
	return nil
}

// RollbackMigration reverts the most recently applied migration
func RollbackMigration(db *sql.DB, migrations fs.FS, dir string, logger *zap.Logger) error {
	if err := prepareGoose(migrations); err != nil {
		return err
	}

	if err := goose.Down(db, dir); err != nil {
		logger.Error("Failed to roll back migration", zap.Error(err))
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	logger.Info("Rolled back last migration")
	return nil
}

// GetMigrationStatus prints the current migration status
func GetMigrationStatus(db *sql.DB, migrations fs.FS, dir string) error {
	if err := prepareGoose(migrations); err != nil {
		return err
	}

	return goose.Status(db, dir)
}
