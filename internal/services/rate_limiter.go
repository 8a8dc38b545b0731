package services

import (
	"context"
	"sync"
	"time"

	"github.com/forkful/restaurant-finder/internal/logging"
	"github.com/forkful/restaurant-finder/internal/observability"
	"go.uber.org/zap"
)

// WindowCounter increments a counter that expires at the end of a fixed
// window and returns the new count and the time left in the window.
// redisclient.Client implements it.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimitDecision is the outcome of one rate limit check
type RateLimitDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// RateLimiter implements a fixed window limit per client key
type RateLimiter struct {
	counter WindowCounter
	max     int
	window  time.Duration
	prefix  string
	logger  *logging.SafeLogger
}

// NewRateLimiter creates a limiter allowing max requests per window
func NewRateLimiter(counter WindowCounter, max int, window time.Duration, logger *logging.SafeLogger) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		max:     max,
		window:  window,
		prefix:  "ratelimit:",
		logger:  logger,
	}
}

// Allow counts a request for key. When the counter store fails the request
// is allowed.
func (rl *RateLimiter) Allow(ctx context.Context, key string) RateLimitDecision {
	count, remaining, err := rl.counter.IncrWindow(ctx, rl.prefix+key, rl.window)
	if err != nil {
		rl.logger.Warn("rate limiter unavailable, allowing request",
			zap.String("key", key),
			zap.Error(err))
		return RateLimitDecision{Allowed: true, Limit: rl.max, Remaining: rl.max, ResetAfter: rl.window}
	}

	left := rl.max - int(count)
	if left < 0 {
		left = 0
	}
	decision := RateLimitDecision{
		Allowed:    count <= int64(rl.max),
		Limit:      rl.max,
		Remaining:  left,
		ResetAfter: remaining,
	}

	if !decision.Allowed {
		observability.RateLimitRejections.Inc()
		rl.logger.Warn("rate limiter rejected request",
			zap.String("key", key),
			zap.Int64("count", count),
			zap.Int("max", rl.max))
	}
	return decision
}

// LocalWindowCounter is an in-process WindowCounter for single instance
// deployments without Redis
type LocalWindowCounter struct {
	mutex   sync.Mutex
	windows map[string]*localWindow
	now     func() time.Time
}

type localWindow struct {
	count   int64
	expires time.Time
}

// NewLocalWindowCounter creates an empty in-process counter
func NewLocalWindowCounter() *LocalWindowCounter {
	return &LocalWindowCounter{
		windows: map[string]*localWindow{},
		now:     time.Now,
	}
}

// IncrWindow implements WindowCounter
func (c *LocalWindowCounter) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	w, ok := c.windows[key]
	if !ok || !now.Before(w.expires) {
		w = &localWindow{expires: now.Add(window)}
		c.windows[key] = w
	}
	w.count++
	return w.count, w.expires.Sub(now), nil
}

// CleanupExpired drops finished windows
func (c *LocalWindowCounter) CleanupExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	removed := 0
	for key, w := range c.windows {
		if !now.Before(w.expires) {
			delete(c.windows, key)
			removed++
		}
	}
	return removed
}

// RateLimiterInstance is the global request rate limiter. It is nil when
// rate limiting is disabled.
var RateLimiterInstance *RateLimiter

// InitRateLimiter initializes the global rate limiter. With a nil counter
// it falls back to an in-process counter that is swept every window.
func InitRateLimiter(counter WindowCounter, max int, window time.Duration, logger *logging.SafeLogger) {
	backend := "redis"
	if counter == nil {
		local := NewLocalWindowCounter()
		counter = local
		backend = "local"

		go func() {
			ticker := time.NewTicker(window)
			defer ticker.Stop()

			for range ticker.C {
				local.CleanupExpired()
			}
		}()
	}

	RateLimiterInstance = NewRateLimiter(counter, max, window, logger)
	logger.Info("rate limiter initialized",
		zap.String("backend", backend),
		zap.Int("max_requests", max),
		zap.Duration("window", window))
}
