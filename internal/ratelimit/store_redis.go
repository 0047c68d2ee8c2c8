package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const counterKeyPrefix = "rl:login:"

// RedisLimiter counts attempts in Redis so the window is shared across
// instances. INCR creates the counter atomically; the expiry is attached
// on first increment and left untouched after, giving a fixed window.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	clock  func() time.Time
}

// RedisLimiterOption configures a RedisLimiter instance.
type RedisLimiterOption func(*RedisLimiter)

// WithRedisLimit overrides the attempts allowed per window.
func WithRedisLimit(limit int) RedisLimiterOption {
	return func(l *RedisLimiter) {
		if limit > 0 {
			l.limit = limit
		}
	}
}

// WithRedisWindow overrides the window length.
func WithRedisWindow(window time.Duration) RedisLimiterOption {
	return func(l *RedisLimiter) {
		if window > 0 {
			l.window = window
		}
	}
}

// NewRedisLimiter constructs a Redis-backed fixed window limiter. The
// client lifecycle is managed by the caller.
func NewRedisLimiter(client *redis.Client, opts ...RedisLimiterOption) *RedisLimiter {
	l := &RedisLimiter{
		client: client,
		limit:  DefaultLimit,
		window: DefaultWindow,
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Check records one attempt for the key and reports whether it fits the
// window. The attempt is counted even when rejected, so hammering the
// endpoint never shortens the wait.
func (l *RedisLimiter) Check(ctx context.Context, key string) (*Result, error) {
	counterKey := counterKeyPrefix + key

	count, err := l.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return nil, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, counterKey, l.window).Err(); err != nil {
			return nil, err
		}
	}

	ttl, err := l.client.TTL(ctx, counterKey).Result()
	if err != nil || ttl <= 0 {
		// A counter without expiry would lock the key forever; treat it
		// as a fresh window.
		ttl = l.window
	}

	return l.buildResult(int(count), ttl), nil
}

func (l *RedisLimiter) buildResult(count int, ttl time.Duration) *Result {
	res := &Result{
		Allowed: count <= l.limit,
		Limit:   l.limit,
		ResetAt: l.clock().Add(ttl),
	}
	if remaining := l.limit - count; remaining > 0 {
		res.Remaining = remaining
	}
	if !res.Allowed {
		res.RetryAfter = int((ttl + time.Second - 1) / time.Second)
	}
	return res
}
