// Package service implements the token lifecycle: issuance on login and
// registration, validation against signature + expiry + revocation,
// refresh, and revocation on logout. All issuance paths converge on the
// same token pair contract.
package service

import (
	"context"
	"log/slog"

	"authgate/internal/auth/device"
	"authgate/internal/auth/store"
	"authgate/internal/platform/metrics"
	"authgate/internal/token"
	"authgate/pkg/platform/audit"
	"authgate/pkg/requestcontext"
)

// AuditPublisher receives audit events from the service. audit.Publisher
// satisfies it; tests substitute their own.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service orchestrates the codec, the user repository, and the revocation
// list. It holds no mutable state of its own; the revocation list is the
// only shared resource and is passed in by handle.
type Service struct {
	users   store.UserStore
	trl     store.TokenRevocationList
	codec   *token.Codec
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditPublisher
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAuditPublisher attaches an audit event publisher.
func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.audit = p
	}
}

// NewService constructs the token service.
func NewService(
	users store.UserStore,
	trl store.TokenRevocationList,
	codec *token.Codec,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		users:  users,
		trl:    trl,
		codec:  codec,
		logger: logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) emitAudit(ctx context.Context, action audit.Action, subject string, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Emit(ctx, audit.Event{
		Action:  action,
		Subject: subject,
		Device:  device.ParseUserAgent(requestcontext.UserAgent(ctx)),
		IP:      requestcontext.ClientIP(ctx),
		Detail:  detail,
	})
}
