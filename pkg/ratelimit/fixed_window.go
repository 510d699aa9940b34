package ratelimit

import (
	"context"
	"time"
)

// FixedWindow allows at most limit attempts per key in each window.
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

type Option func(*FixedWindow)

func WithClock(now func() time.Time) Option {
	return func(fw *FixedWindow) {
		if now != nil {
			fw.now = now
		}
	}
}

func NewFixedWindow(store Store, limit int, window time.Duration, opts ...Option) (*FixedWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}
	fw := &FixedWindow{store: store, limit: limit, window: window, now: time.Now}
	for _, opt := range opts {
		opt(fw)
	}
	return fw, nil
}

// Allow records one attempt for key and reports whether it fits in the window.
// Rejected attempts are counted too.
func (fw *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	count, ttl, err := fw.store.Increment(ctx, key, fw.window)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = fw.window
	}

	return &Result{
		Allowed:   count <= int64(fw.limit),
		Limit:     fw.limit,
		Remaining: max(0, fw.limit-int(count)),
		ResetAt:   fw.now().Add(ttl),
	}, nil
}

// Reset forgets all attempts recorded for key.
func (fw *FixedWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return fw.store.Delete(ctx, key)
}
