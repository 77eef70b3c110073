package httpkit

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"codemasters_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const errTooManyRequests = "Too many requests, please try again later."

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// Limiter decides whether one more request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// IPRateLimiter counts requests per key in fixed windows held in process
// memory. A key gets at most max requests until its window has passed.
type IPRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*fixedWindow
	max     int
	window  time.Duration
	sweep   rate.Sometimes
	now     func() time.Time
}

type fixedWindow struct {
	start time.Time
	count int
}

// NewIPRateLimiter creates a per-key limiter allowing max requests per window.
func NewIPRateLimiter(max int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		windows: make(map[string]*fixedWindow),
		max:     max,
		window:  window,
		sweep:   rate.Sometimes{Interval: window},
		now:     time.Now,
	}
}

// Allow counts one request for key, opening a new window when the previous
// one has passed.
func (l *IPRateLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep.Do(func() { l.evictExpired(now) })

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		w = &fixedWindow{start: now}
		l.windows[key] = w
	}
	w.count++

	remaining := l.max - w.count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   w.count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetIn:   w.start.Add(l.window).Sub(now),
	}, nil
}

// evictExpired drops windows that have passed. Callers hold l.mu.
func (l *IPRateLimiter) evictExpired(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, key)
		}
	}
}

// RedisWindowLimiter counts requests per key in fixed windows shared by every
// instance pointing at the same Redis.
type RedisWindowLimiter struct {
	client redis.UniversalClient
	max    int
	window time.Duration
	prefix string
}

// NewRedisWindowLimiter creates a fixed-window limiter backed by client.
func NewRedisWindowLimiter(client redis.UniversalClient, max int, window time.Duration) *RedisWindowLimiter {
	return &RedisWindowLimiter{
		client: client,
		max:    max,
		window: window,
		prefix: "ratelimit:inquiries:",
	}
}

// Allow increments the counter for key, starting a new window when the key
// has no expiry yet.
func (l *RedisWindowLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := l.prefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit counter: %w", err)
	}

	resetIn := ttl.Val()
	if resetIn < 0 {
		if err := l.client.PExpire(ctx, redisKey, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("rate limit expiry: %w", err)
		}
		resetIn = l.window
	}

	count := int(incr.Val())
	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}

// RateLimit throttles requests per client IP as resolved by gin, which only
// honours forwarding headers from the engine's trusted proxies. Limiter
// errors let the request through so a Redis outage does not block
// submissions.
func RateLimit(limiter Limiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		decision, err := limiter.Allow(c.Request.Context(), clientIP)
		if err != nil {
			log.WithContext(c.Request.Context()).Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		resetSeconds := int(math.Ceil(decision.ResetIn.Seconds()))
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(resetSeconds))

		if !decision.Allowed {
			log.WithContext(c.Request.Context()).RateLimitExceeded(clientIP, c.Request.URL.Path)
			c.Header("Retry-After", strconv.Itoa(resetSeconds))
			AbortFail(c, http.StatusTooManyRequests, errTooManyRequests)
			return
		}

		c.Next()
	}
}
