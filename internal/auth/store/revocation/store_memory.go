package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryTRL is an in-process revocation list with the same TTL semantics
// as RedisTRL. Suitable for tests and single-instance development; entries
// past their deadline read as absent and are dropped lazily.
type MemoryTRL struct {
	mu      sync.Mutex
	entries map[string]time.Time
	clock   func() time.Time
}

// MemoryTRLOption configures a MemoryTRL instance.
type MemoryTRLOption func(*MemoryTRL)

// WithMemoryClock sets the clock function for testability.
func WithMemoryClock(clock func() time.Time) MemoryTRLOption {
	return func(trl *MemoryTRL) {
		if clock != nil {
			trl.clock = clock
		}
	}
}

// NewMemoryTRL constructs an in-memory token revocation list.
func NewMemoryTRL(opts ...MemoryTRLOption) *MemoryTRL {
	trl := &MemoryTRL{
		entries: make(map[string]time.Time),
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(trl)
		}
	}
	return trl
}

// Revoke denylists the jti until expiresAt; expired tokens are a no-op.
func (t *MemoryTRL) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	if !expiresAt.After(t.clock()) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[jti] = expiresAt
	return nil
}

// IsRevoked reports whether the jti has an unexpired denylist entry.
func (t *MemoryTRL) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	deadline, ok := t.entries[jti]
	if !ok {
		return false, nil
	}
	if !deadline.After(t.clock()) {
		delete(t.entries, jti)
		return false, nil
	}
	return true, nil
}
