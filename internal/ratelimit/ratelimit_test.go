package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"authgate/pkg/requestcontext"
)

type MemoryLimiterSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	limiter *MemoryLimiter
}

func TestMemoryLimiterSuite(t *testing.T) {
	suite.Run(t, new(MemoryLimiterSuite))
}

func (s *MemoryLimiterSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.limiter = NewMemoryLimiter(
		WithMemoryLimit(3),
		WithMemoryWindow(time.Minute),
		WithMemoryLimiterClock(func() time.Time { return s.now }),
	)
}

func (s *MemoryLimiterSuite) TestAllowsUpToLimit() {
	for i := 0; i < 3; i++ {
		res, err := s.limiter.Check(s.ctx, "10.0.0.1")
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(2-i, res.Remaining)
	}
}

func (s *MemoryLimiterSuite) TestRejectsBeyondLimit() {
	for i := 0; i < 3; i++ {
		_, err := s.limiter.Check(s.ctx, "10.0.0.1")
		s.Require().NoError(err)
	}

	res, err := s.limiter.Check(s.ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Zero(res.Remaining)
	s.Equal(60, res.RetryAfter)
}

func (s *MemoryLimiterSuite) TestKeysAreIndependent() {
	for i := 0; i < 4; i++ {
		_, err := s.limiter.Check(s.ctx, "10.0.0.1")
		s.Require().NoError(err)
	}

	res, err := s.limiter.Check(s.ctx, "10.0.0.2")
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func (s *MemoryLimiterSuite) TestWindowResets() {
	for i := 0; i < 4; i++ {
		_, err := s.limiter.Check(s.ctx, "10.0.0.1")
		s.Require().NoError(err)
	}

	s.now = s.now.Add(61 * time.Second)

	res, err := s.limiter.Check(s.ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.Equal(2, res.Remaining)
}

func (s *MemoryLimiterSuite) TestRejectionStillCounts() {
	for i := 0; i < 10; i++ {
		_, err := s.limiter.Check(s.ctx, "10.0.0.1")
		s.Require().NoError(err)
	}

	// Thirty seconds in, the window deadline is unchanged.
	s.now = s.now.Add(30 * time.Second)
	res, err := s.limiter.Check(s.ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Equal(30, res.RetryAfter)
}

type failingLimiter struct{}

func (failingLimiter) Check(context.Context, string) (*Result, error) {
	return nil, errors.New("store unreachable")
}

type MiddlewareSuite struct {
	suite.Suite
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) serve(m *Middleware, ip string) *httptest.ResponseRecorder {
	handler := m.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/token", nil)
	req = req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, "test-agent"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func (s *MiddlewareSuite) TestPassesWhenAllowed() {
	m := NewMiddleware(NewMemoryLimiter(WithMemoryLimit(2)), slog.Default())

	rec := s.serve(m, "10.0.0.1")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("2", rec.Header().Get("X-RateLimit-Limit"))
	s.Equal("1", rec.Header().Get("X-RateLimit-Remaining"))
}

func (s *MiddlewareSuite) TestRejectsWithRateLimitedEnvelope() {
	m := NewMiddleware(NewMemoryLimiter(WithMemoryLimit(1)), slog.Default())

	s.serve(m, "10.0.0.1")
	rec := s.serve(m, "10.0.0.1")

	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.NotEmpty(rec.Header().Get("Retry-After"))

	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("rate_limited", body["error"])
}

func (s *MiddlewareSuite) TestFailsOpenOnLimiterError() {
	m := NewMiddleware(failingLimiter{}, slog.Default())

	rec := s.serve(m, "10.0.0.1")
	s.Equal(http.StatusOK, rec.Code)
}
