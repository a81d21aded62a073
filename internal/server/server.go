package server

import (
	"fmt"
	"net/http"
	"time"

	"product-catalog/internal/config"
	"product-catalog/internal/metrics"
	custommiddleware "product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store is the persistence backend the API runs on. Both the PostgreSQL
// service and the in-memory store satisfy it.
type Store interface {
	repository.Transactor
	Repositories() repository.Repositories
	Health() map[string]string
	Close() error
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  Store
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, store Store) *Server {
	server := &Server{
		config: cfg,
		logger: logger,
		store:  store,
	}

	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))
	router.Use(metrics.Middleware())

	router.NotFound(custommiddleware.NotFoundHandler)
	router.MethodNotAllowed(custommiddleware.MethodNotAllowedHandler)

	router.Get("/health", server.health)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	handlers := transport.NewHandlers(store.Repositories(), store, logger)

	router.Group(func(r chi.Router) {
		if cfg.RateLimit.Enabled {
			server.redis = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr(),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			r.Use(custommiddleware.RateLimitMiddleware(server.redis, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "catalog_rate_limit",
			}, logger))
			logger.Info("Rate limiting enabled",
				zap.String("redis", cfg.Redis.Addr()),
				zap.Int("requests", cfg.RateLimit.Requests),
				zap.Duration("window", cfg.RateLimit.Window),
			)
		}

		handlers.RegisterRoutes(r)
	})

	server.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

// health answers 200 while the store is reachable and 503 otherwise
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	stats := s.store.Health()

	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
		s.logger.Warn("Health check failed", zap.String("error", stats["error"]))
	}

	custommiddleware.RespondWithJSON(w, status, stats)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if err := s.store.Close(); err != nil {
		s.logger.Error("Failed to close database connection", zap.Error(err))
	}

	s.logger.Sync()
	return nil
}
