package service

import (
	"context"

	"authgate/internal/auth/models"
	dErrors "authgate/pkg/domain-errors"
	"authgate/pkg/platform/audit"
)

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is returned unchanged: its lifetime is fixed at
// issuance and presenting it does not extend or rotate it.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
	}
	if !claims.IsRefresh() {
		// An access token presented as a refresh token is rejected the
		// same way as any other invalid one.
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
	}

	access, err := s.codec.IssueAccess(claims.SubjectID(), claims.Role)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}

	if s.metrics != nil {
		s.metrics.ObserveTokenIssued("access")
	}
	s.emitAudit(ctx, audit.ActionTokenRefreshed, claims.SubjectID(), "")

	return &models.TokenPair{AccessToken: access, TokenType: "bearer"}, nil
}
