package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run serves until SIGINT or SIGTERM, then drains in-flight requests for up
// to 30 seconds and releases the server's resources. Resources are released
// as well when the listener fails to start.
func (s *Server) Run() error {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", zap.String("addr", s.Addr))
		serveErr <- s.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if closeErr := s.Close(); closeErr != nil {
			s.logger.Error("Error closing server resources", zap.Error(closeErr))
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
	}
	<-serveErr

	if err := s.Close(); err != nil {
		s.logger.Error("Error closing server resources", zap.Error(err))
	}

	s.logger.Info("Graceful shutdown complete")
	return nil
}
