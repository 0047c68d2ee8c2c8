package service

import (
	"context"

	dErrors "authgate/pkg/domain-errors"
	"authgate/pkg/platform/audit"
)

// Logout places the token's jti on the revocation list until the token
// would have expired on its own. Logout is idempotent and deliberately
// lenient: a token that cannot be decoded carries no jti worth
// revoking, so the call still succeeds.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.codec.DecodeUnchecked(tokenString)
	if err != nil {
		s.logger.Debug("logout with undecodable token", "error", err)
		return nil
	}

	jti := claims.JTI()
	if jti == "" || claims.ExpiresAt == nil {
		return nil
	}

	if err := s.trl.Revoke(ctx, jti, claims.ExpiresAt.Time); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}

	if s.metrics != nil {
		s.metrics.TokensRevoked.Inc()
	}
	s.emitAudit(ctx, audit.ActionTokenRevoked, claims.SubjectID(), "")
	return nil
}
