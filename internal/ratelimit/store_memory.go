package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is an in-process fixed window limiter with the same
// admission semantics as RedisLimiter. Suitable for tests and
// single-instance development.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	window  time.Duration
	clock   func() time.Time
}

// MemoryLimiterOption configures a MemoryLimiter instance.
type MemoryLimiterOption func(*MemoryLimiter)

// WithMemoryLimit overrides the attempts allowed per window.
func WithMemoryLimit(limit int) MemoryLimiterOption {
	return func(l *MemoryLimiter) {
		if limit > 0 {
			l.limit = limit
		}
	}
}

// WithMemoryWindow overrides the window length.
func WithMemoryWindow(window time.Duration) MemoryLimiterOption {
	return func(l *MemoryLimiter) {
		if window > 0 {
			l.window = window
		}
	}
}

// WithMemoryLimiterClock sets the clock function for testability.
func WithMemoryLimiterClock(clock func() time.Time) MemoryLimiterOption {
	return func(l *MemoryLimiter) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// NewMemoryLimiter constructs an in-memory fixed window limiter.
func NewMemoryLimiter(opts ...MemoryLimiterOption) *MemoryLimiter {
	l := &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   DefaultLimit,
		window:  DefaultWindow,
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Check records one attempt for the key; lapsed windows restart fresh.
func (l *MemoryLimiter) Check(_ context.Context, key string) (*Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	w, ok := l.windows[key]
	if !ok || !w.resetAt.After(now) {
		w = &window{resetAt: now.Add(l.window)}
		l.windows[key] = w
	}
	w.count++

	res := &Result{
		Allowed: w.count <= l.limit,
		Limit:   l.limit,
		ResetAt: w.resetAt,
	}
	if remaining := l.limit - w.count; remaining > 0 {
		res.Remaining = remaining
	}
	if !res.Allowed {
		res.RetryAfter = int((w.resetAt.Sub(now) + time.Second - 1) / time.Second)
	}
	return res, nil
}
