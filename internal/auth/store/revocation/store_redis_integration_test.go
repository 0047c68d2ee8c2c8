//go:build integration

package revocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"authgate/internal/auth/store/revocation"
	"authgate/pkg/testutil/containers"
)

type RedisTRLSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	trl   *revocation.RedisTRL
}

func TestRedisTRLSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisTRLSuite))
}

func (s *RedisTRLSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.trl = revocation.NewRedisTRL(s.redis.Client)
}

func (s *RedisTRLSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisTRLSuite) TestRevokeAndCheck() {
	ctx := context.Background()
	jti := uuid.NewString()

	revoked, err := s.trl.IsRevoked(ctx, jti)
	s.Require().NoError(err)
	s.False(revoked)

	s.Require().NoError(s.trl.Revoke(ctx, jti, time.Now().Add(time.Hour)))

	revoked, err = s.trl.IsRevoked(ctx, jti)
	s.Require().NoError(err)
	s.True(revoked)
}

func (s *RedisTRLSuite) TestRevokeExpiredTokenIsNoOp() {
	ctx := context.Background()
	jti := uuid.NewString()

	s.Require().NoError(s.trl.Revoke(ctx, jti, time.Now().Add(-time.Minute)))

	revoked, err := s.trl.IsRevoked(ctx, jti)
	s.Require().NoError(err)
	s.False(revoked)

	// No key should exist at all for an already-expired token.
	n, err := s.redis.Client.Exists(ctx, "trl:jti:"+jti).Result()
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *RedisTRLSuite) TestEntryExpiresWithTokenLifetime() {
	ctx := context.Background()
	jti := uuid.NewString()

	s.Require().NoError(s.trl.Revoke(ctx, jti, time.Now().Add(time.Second)))

	revoked, err := s.trl.IsRevoked(ctx, jti)
	s.Require().NoError(err)
	s.True(revoked)

	time.Sleep(1500 * time.Millisecond)

	// Redis has dropped the entry on its own: the token would have expired
	// anyway, so the denylist stays bounded.
	n, err := s.redis.Client.Exists(ctx, "trl:jti:"+jti).Result()
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *RedisTRLSuite) TestRevokeIsIdempotent() {
	ctx := context.Background()
	jti := uuid.NewString()

	s.Require().NoError(s.trl.Revoke(ctx, jti, time.Now().Add(time.Hour)))
	s.Require().NoError(s.trl.Revoke(ctx, jti, time.Now().Add(time.Hour)))

	revoked, err := s.trl.IsRevoked(ctx, jti)
	s.Require().NoError(err)
	s.True(revoked)
}
