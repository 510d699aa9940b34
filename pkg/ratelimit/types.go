// Package ratelimit counts attempts per key in fixed time windows.
//
// Counters live in a Store: MemoryStore for a single process, or the Redis
// store in pkg/redis when several instances share the same limits.
package ratelimit

import (
	"context"
	"time"
)

type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long to wait before the key is allowed again.
func (r *Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed || !r.ResetAt.After(now) {
		return 0
	}
	return r.ResetAt.Sub(now)
}

// Store keeps per-key counters that expire with their window.
type Store interface {
	// Increment adds one to the counter, starting a new window of the given
	// length if the key is absent or expired, and returns the new count and
	// the time left in the window.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
	Delete(ctx context.Context, key string) error
}
