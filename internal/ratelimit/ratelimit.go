// Package ratelimit guards the password login endpoint with a fixed
// window counter per client IP. The limiter is advisory: when its
// backing store is unreachable the middleware fails open, because
// locking every user out is worse than briefly losing the limit.
package ratelimit

import (
	"context"
	"time"
)

const (
	// DefaultLimit and DefaultWindow follow the login endpoint policy:
	// five attempts per rolling minute per IP.
	DefaultLimit  = 5
	DefaultWindow = time.Minute
)

// Result reports one admission decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is seconds until the window resets; zero when allowed.
	RetryAfter int
}

// Limiter admits or rejects one attempt for the given key.
type Limiter interface {
	Check(ctx context.Context, key string) (*Result, error)
}
