package tileserver

import (
	"time"

	"github.com/tdoa-platform/core/internal/cache"
)

// rateLimitBuckets controls the granularity of the rolling one-minute
// window; 6 ten-second buckets gives a smooth enough rolloff for tile
// traffic without per-request bookkeeping overhead.
const rateLimitBuckets = 6

// RateLimiter enforces a per-client rolling one-minute request budget.
type RateLimiter struct {
	store *cache.SlidingWindowStore
	limit int64
}

// NewRateLimiter builds a RateLimiter allowing up to limit requests per
// client per rolling minute.
func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{
		store: cache.NewSlidingWindowStore(time.Minute, rateLimitBuckets, 0),
		limit: int64(limit),
	}
}

// Allow reports whether the client identified by key may proceed. Only
// allowed requests are counted against the window; denied ones are not.
func (r *RateLimiter) Allow(key string) bool {
	if r.limit <= 0 {
		return true
	}
	if r.store.Count(key) >= r.limit {
		return false
	}
	r.store.Increment(key)
	return true
}
