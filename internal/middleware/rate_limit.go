package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/pageza/recipebox/backend/internal/types"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// Decision is the outcome of a single rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RedisLimiter is a fixed-window limiter shared by every replica.
type RedisLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

// NewRedisLimiter creates a new Redis backed limiter
func NewRedisLimiter(redisClient *redis.Client, config RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

// Allow counts the request against the current window.
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// INCR and EXPIRE go out in one round trip
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(incrCmd.Val())
	return Decision{
		Allowed:   count <= rl.config.Limit,
		Limit:     rl.config.Limit,
		Remaining: max(rl.config.Limit-count, 0),
		Reset:     windowStart.Add(rl.config.Window),
	}, nil
}

// LocalLimiter keeps one token bucket per key in process memory. The set of
// tracked keys is bounded; the least recently seen key is dropped first.
type LocalLimiter struct {
	config  RateLimitConfig
	mu      sync.Mutex
	buckets *lru.Cache
	now     func() time.Time
}

// NewLocalLimiter creates an in-process limiter tracking at most maxKeys callers.
func NewLocalLimiter(config RateLimitConfig, maxKeys int) (*LocalLimiter, error) {
	if config.Limit <= 0 || config.Window <= 0 {
		return nil, fmt.Errorf("invalid rate limit %d per %v", config.Limit, config.Window)
	}
	cache, err := lru.New(maxKeys)
	if err != nil {
		return nil, err
	}
	return &LocalLimiter{config: config, buckets: cache, now: time.Now}, nil
}

// Allow takes a token from the caller's bucket.
func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var bucket *rate.Limiter
	if v, ok := l.buckets.Get(key); ok {
		bucket = v.(*rate.Limiter)
	} else {
		every := rate.Every(l.config.Window / time.Duration(l.config.Limit))
		bucket = rate.NewLimiter(every, l.config.Limit)
		l.buckets.Add(key, bucket)
	}

	now := l.now()
	allowed := bucket.AllowN(now, 1)
	tokens := bucket.TokensAt(now)

	reset := now
	if tokens < float64(l.config.Limit) {
		missing := float64(l.config.Limit) - tokens
		reset = now.Add(time.Duration(missing / float64(bucket.Limit()) * float64(time.Second)))
	}

	return Decision{
		Allowed:   allowed,
		Limit:     l.config.Limit,
		Remaining: max(int(tokens), 0),
		Reset:     reset,
	}, nil
}

// RateLimit enforces limiter per client IP. Limiter failures are logged and
// the request is let through.
func RateLimit(limiter Limiter, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("rate limit check failed",
				slog.String("error", err.Error()),
				slog.String("requestID", c.GetString(RequestIDKey)),
			)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

		if !d.Allowed {
			rateLimitRejects.Inc()
			retryAfter := int(time.Until(d.Reset).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			AbortWithError(c, http.StatusTooManyRequests, types.ErrCodeRateLimitExceeded,
				fmt.Sprintf("rate limit of %d requests exceeded", d.Limit))
			return
		}

		c.Next()
	}
}

// NewRecipeCreationLimiter picks the Redis limiter when a client is available
// and the in-process one otherwise.
func NewRecipeCreationLimiter(redisClient *redis.Client, perMinute int) (Limiter, error) {
	cfg := RateLimitConfig{
		Window:    time.Minute,
		Limit:     perMinute,
		KeyPrefix: "rate_limit:recipe_creation",
	}
	if redisClient != nil {
		return NewRedisLimiter(redisClient, cfg), nil
	}
	local, err := NewLocalLimiter(cfg, 10000)
	if err != nil {
		return nil, err
	}
	return local, nil
}
