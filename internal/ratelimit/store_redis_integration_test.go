//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"authgate/internal/ratelimit"
	"authgate/pkg/testutil/containers"
)

type RedisLimiterSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisLimiterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLimiterSuite))
}

func (s *RedisLimiterSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RedisLimiterSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisLimiterSuite) TestFixedWindowAdmission() {
	ctx := context.Background()
	limiter := ratelimit.NewRedisLimiter(s.redis.Client,
		ratelimit.WithRedisLimit(3),
		ratelimit.WithRedisWindow(time.Minute),
	)

	for i := 0; i < 3; i++ {
		res, err := limiter.Check(ctx, "10.0.0.1")
		s.Require().NoError(err)
		s.True(res.Allowed)
	}

	res, err := limiter.Check(ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Positive(res.RetryAfter)

	// A different IP has its own counter.
	res, err = limiter.Check(ctx, "10.0.0.2")
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func (s *RedisLimiterSuite) TestCounterExpiresWithWindow() {
	ctx := context.Background()
	limiter := ratelimit.NewRedisLimiter(s.redis.Client,
		ratelimit.WithRedisLimit(1),
		ratelimit.WithRedisWindow(time.Second),
	)

	_, err := limiter.Check(ctx, "10.0.0.1")
	s.Require().NoError(err)

	res, err := limiter.Check(ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.False(res.Allowed)

	time.Sleep(1500 * time.Millisecond)

	res, err = limiter.Check(ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.True(res.Allowed)
}
