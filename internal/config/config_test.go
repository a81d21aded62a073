package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DB_USER", "catalog")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_DATABASE", "catalog")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "warn", cfg.Server.LogLevel)
	assert.Equal(t, "catalog", cfg.Database.User)
	assert.False(t, cfg.Database.InMemory())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "user",
		Password: "password",
		Database: "catalog",
		Schema:   "public",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://user:password@db:5432/catalog?sslmode=disable&search_path=public", c.DSN())
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,, b "))
}

func TestDatabaseConfig_InMemory(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")

	cfg := Load()

	assert.True(t, cfg.Database.InMemory())
}
