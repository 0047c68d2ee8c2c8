package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

type CodecSuite struct {
	suite.Suite
	codec *Codec
}

func (s *CodecSuite) SetupTest() {
	s.codec = NewCodec("test-signing-key")
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecSuite))
}

func (s *CodecSuite) TestRoundTrip() {
	s.Run("access token recovers subject and role", func() {
		tokenString, err := s.codec.IssueAccess("jane.doe@example.com", "user")
		s.Require().NoError(err)

		claims, err := s.codec.Decode(tokenString)
		s.Require().NoError(err)
		s.Equal("jane.doe@example.com", claims.SubjectID())
		s.Equal("user", claims.Role)
		s.Empty(claims.Scope)
		s.False(claims.IsRefresh())
		s.NotEmpty(claims.JTI())
	})

	s.Run("refresh token carries refresh scope", func() {
		tokenString, err := s.codec.IssueRefresh("jane.doe@example.com", "admin")
		s.Require().NoError(err)

		claims, err := s.codec.Decode(tokenString)
		s.Require().NoError(err)
		s.Equal(ScopeRefresh, claims.Scope)
		s.True(claims.IsRefresh())
		s.Equal("admin", claims.Role)
	})

	s.Run("jti is unique across issuances for the same subject", func() {
		seen := make(map[string]bool)
		for range 50 {
			tokenString, err := s.codec.IssueAccess("repeat@example.com", "user")
			s.Require().NoError(err)
			claims, err := s.codec.Decode(tokenString)
			s.Require().NoError(err)
			s.False(seen[claims.JTI()], "jti reused: %s", claims.JTI())
			seen[claims.JTI()] = true
		}
	})
}

func (s *CodecSuite) TestDecodeFailures() {
	s.Run("expired token returns ErrExpired", func() {
		past := NewCodec("test-signing-key", WithClock(func() time.Time {
			return time.Now().Add(-time.Hour)
		}))
		tokenString, err := past.IssueAccess("late@example.com", "user")
		s.Require().NoError(err)

		_, err = s.codec.Decode(tokenString)
		s.Require().ErrorIs(err, ErrExpired)
	})

	s.Run("garbage returns ErrMalformed", func() {
		_, err := s.codec.Decode("not.a.token")
		s.Require().ErrorIs(err, ErrMalformed)
	})

	s.Run("wrong key returns ErrMalformed", func() {
		other := NewCodec("a-different-key")
		tokenString, err := other.IssueAccess("who@example.com", "user")
		s.Require().NoError(err)

		_, err = s.codec.Decode(tokenString)
		s.Require().ErrorIs(err, ErrMalformed)
	})

	s.Run("non-HMAC algorithm is rejected even with valid structure", func() {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			Role: "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "forged@example.com",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		s.Require().NoError(err)

		_, err = s.codec.Decode(tokenString)
		s.Require().ErrorIs(err, ErrMalformed)
	})
}

func (s *CodecSuite) TestDecodeUnchecked() {
	s.Run("reads claims out of an expired token", func() {
		past := NewCodec("test-signing-key", WithClock(func() time.Time {
			return time.Now().Add(-time.Hour)
		}))
		tokenString, err := past.IssueAccess("late@example.com", "user")
		s.Require().NoError(err)

		claims, err := s.codec.DecodeUnchecked(tokenString)
		s.Require().NoError(err)
		s.Equal("late@example.com", claims.SubjectID())
		s.NotEmpty(claims.JTI())
		s.NotNil(claims.ExpiresAt)
	})

	s.Run("still verifies the signature", func() {
		other := NewCodec("a-different-key")
		tokenString, err := other.IssueAccess("who@example.com", "user")
		s.Require().NoError(err)

		_, err = s.codec.DecodeUnchecked(tokenString)
		s.Require().ErrorIs(err, ErrMalformed)
	})
}

func (s *CodecSuite) TestTTLOptions() {
	fixed := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	codec := NewCodec("test-signing-key",
		WithClock(func() time.Time { return fixed }),
		WithAccessTTL(time.Minute),
		WithRefreshTTL(time.Hour),
	)

	access, err := codec.IssueAccess("ttl@example.com", "user")
	s.Require().NoError(err)
	refresh, err := codec.IssueRefresh("ttl@example.com", "user")
	s.Require().NoError(err)

	accessClaims, err := codec.DecodeUnchecked(access)
	s.Require().NoError(err)
	s.Equal(fixed.Add(time.Minute).Unix(), accessClaims.ExpiresAt.Unix())

	refreshClaims, err := codec.DecodeUnchecked(refresh)
	s.Require().NoError(err)
	s.Equal(fixed.Add(time.Hour).Unix(), refreshClaims.ExpiresAt.Unix())
}
