package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedRouter(level zapcore.Level) (chi.Router, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	logger := zap.New(core)

	r := chi.NewRouter()
	r.Use(LoggingMiddleware(logger))
	r.Use(ErrorHandlingMiddleware(logger))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "up"})
	})
	r.Get("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		RespondWithError(w, http.StatusNotFound, "product not found")
	})
	r.Get("/api/products", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	r.Get("/api/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	return r, logs
}

func TestLoggingMiddleware_OneEntryPerRequest(t *testing.T) {
	r, logs := observedRouter(zapcore.InfoLevel)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products", nil))

	entries := logs.FilterMessage("Request completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "/api/products", fields["path"])
	assert.Equal(t, "/api/products", fields["route"])
}

func TestLoggingMiddleware_LevelFollowsStatus(t *testing.T) {
	r, logs := observedRouter(zapcore.DebugLevel)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/0190b3c4-5d6e-7f80-9a1b-2c3d4e5f6a7b", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/boom", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := logs.FilterMessage("Request completed").All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "/api/products/{id}", entries[0].ContextMap()["route"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
}

func TestLoggingMiddleware_SkipsHealthAboveDebug(t *testing.T) {
	r, logs := observedRouter(zapcore.InfoLevel)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Zero(t, logs.FilterMessage("Request completed").Len())
}

func TestErrorHandlingMiddleware_RecoversPanics(t *testing.T) {
	r, logs := observedRouter(zapcore.InfoLevel)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")

	panics := logs.FilterMessage("Panic recovered").All()
	require.Len(t, panics, 1)
	assert.Equal(t, "boom", panics[0].ContextMap()["error"])
}

func TestNotFoundHandlers(t *testing.T) {
	r := chi.NewRouter()
	r.NotFound(NotFoundHandler)
	r.MethodNotAllowed(MethodNotAllowedHandler)
	r.Get("/api/products", func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/products", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
