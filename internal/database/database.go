package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"product-catalog/internal/config"
	"product-catalog/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Service owns the PostgreSQL connection pool
type Service interface {
	// DB returns the underlying connection pool.
	DB() *sqlx.DB
	// Health reports pool statistics and whether the database answers a ping.
	Health() map[string]string
	// Repositories returns the catalog repositories bound to the pool.
	Repositories() repository.Repositories
	repository.Transactor
	Close() error
}

type service struct {
	db *sqlx.DB
	repository.Transactor
}

// New opens a connection pool using the pgx driver
func New(cfg config.DatabaseConfig) (Service, error) {
	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	return &service{db: db, Transactor: repository.NewTransactor(db)}, nil
}

func (s *service) DB() *sqlx.DB {
	return s.db
}

func (s *service) Repositories() repository.Repositories {
	return repository.NewRepositories(s.db)
}

func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["driver"] = "postgres"

	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()

	return stats
}

func (s *service) Close() error {
	return s.db.Close()
}
