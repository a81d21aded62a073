package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func limitedHandler(t *testing.T, client redis.Cmdable, limit int, window time.Duration) http.Handler {
	t.Helper()

	return RateLimitMiddleware(client, RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            window,
		KeyPrefix:         "catalog_rate_limit",
	}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func sendFrom(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestProperty_RateLimitAllowsExactlyTheLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	properties := gopter.NewProperties(nil)

	properties.Property("the first limit requests pass and the rest get 429", prop.ForAll(
		func(limit int, excess int) bool {
			mr.FlushAll()
			handler := limitedHandler(t, client, limit, time.Minute)

			passed, blocked := 0, 0
			for i := 0; i < limit+excess; i++ {
				switch sendFrom(handler, "192.168.1.100:5000").Code {
				case http.StatusOK:
					passed++
				case http.StatusTooManyRequests:
					blocked++
				}
			}

			return passed == limit && blocked == excess
		},
		gen.IntRange(1, 20),
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_Headers(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	handler := limitedHandler(t, client, 2, time.Minute)

	w := sendFrom(handler, "10.0.0.1:1000")
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))

	sendFrom(handler, "10.0.0.1:1000")
	w = sendFrom(handler, "10.0.0.1:1000")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.True(t, retryAfter >= 1 && retryAfter <= 60)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimit_WindowExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	handler := limitedHandler(t, client, 1, 10*time.Second)

	assert.Equal(t, http.StatusOK, sendFrom(handler, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(handler, "10.0.0.1:1000").Code)
	assert.Equal(t, 10*time.Second, mr.TTL("catalog_rate_limit:10.0.0.1"))

	mr.FastForward(11 * time.Second)

	assert.Equal(t, http.StatusOK, sendFrom(handler, "10.0.0.1:1000").Code)
}

func TestRateLimit_CountsPerClientIP(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	handler := limitedHandler(t, client, 2, time.Minute)

	// source ports differ but the client is the same
	assert.Equal(t, http.StatusOK, sendFrom(handler, "10.0.0.1:40001").Code)
	assert.Equal(t, http.StatusOK, sendFrom(handler, "10.0.0.1:40002").Code)
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(handler, "10.0.0.1:40003").Code)

	assert.Equal(t, http.StatusOK, sendFrom(handler, "10.0.0.2:40001").Code)
	assert.True(t, mr.Exists("catalog_rate_limit:10.0.0.1"))
}

func TestRateLimit_AllowsRequestsWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	handler := limitedHandler(t, client, 1, time.Minute)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, sendFrom(handler, "10.0.0.1:1000").Code)
	}
}
