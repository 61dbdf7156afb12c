package redis

import (
	"context"
	"time"
)

// RateLimiter is a fixed-window request limiter shared across server
// instances. Each key gets a counter that expires with the window, so
// a restarted or scaled-out deployment enforces one consistent limit.
type RateLimiter struct {
	cache  *Cache
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// A non-positive window falls back to TTLRateLimitWindow.
func NewRateLimiter(cache *Cache, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = TTLRateLimitWindow
	}
	return &RateLimiter{cache: cache, limit: limit, window: window}
}

// Allow reports whether the caller identified by key may proceed.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := r.cache.Increment(ctx, PrefixRateLimit+key, r.window)
	if err != nil {
		return false, err
	}
	return n <= int64(r.limit), nil
}
