package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
)

type stubLimiter struct {
	decision Decision
	err      error
	keys     []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (Decision, error) {
	s.keys = append(s.keys, key)
	return s.decision, s.err
}

func newRateLimitedRouter(l Limiter) *gin.Engine {
	router := gin.New()
	router.POST("/recipes", RateLimit(l, logging.Discard()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func TestRateLimitAllowed(t *testing.T) {
	reset := time.Now().Add(time.Minute)
	stub := &stubLimiter{decision: Decision{Allowed: true, Limit: 5, Remaining: 4, Reset: reset}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/recipes", nil)
	req.RemoteAddr = "192.0.2.7:1234"
	newRateLimitedRouter(stub).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, []string{"192.0.2.7"}, stub.keys)
}

func TestRateLimitRejected(t *testing.T) {
	stub := &stubLimiter{decision: Decision{Allowed: false, Limit: 5, Reset: time.Now().Add(30 * time.Second)}}

	w := httptest.NewRecorder()
	newRateLimitedRouter(stub).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recipes", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestRateLimitFailsOpen(t *testing.T) {
	stub := &stubLimiter{err: errors.New("redis down")}

	w := httptest.NewRecorder()
	newRateLimitedRouter(stub).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recipes", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestLocalLimiter(t *testing.T) {
	l, err := NewLocalLimiter(RateLimitConfig{Window: time.Minute, Limit: 3}, 16)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.True(t, d.Reset.After(now))

	// other callers have their own bucket
	d, err = l.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// one token refills every 20s
	now = now.Add(21 * time.Second)
	d, err = l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestNewLocalLimiterRejectsZeroLimit(t *testing.T) {
	_, err := NewLocalLimiter(RateLimitConfig{Window: time.Minute}, 16)
	assert.Error(t, err)
}

func TestNewRecipeCreationLimiterWithoutRedis(t *testing.T) {
	l, err := NewRecipeCreationLimiter(nil, 10)
	require.NoError(t, err)
	assert.IsType(t, &LocalLimiter{}, l)
}

func TestRedisLimiter(t *testing.T) {
	url := testhelpers.SetupRedis(t)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	l := NewRedisLimiter(client, RateLimitConfig{Window: time.Minute, Limit: 2, KeyPrefix: "test"})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "client")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}

	d, err := l.Allow(ctx, "client")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}
