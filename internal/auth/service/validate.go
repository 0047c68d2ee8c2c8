package service

import (
	"context"
	"errors"

	"authgate/internal/auth/models"
	dErrors "authgate/pkg/domain-errors"
	"authgate/pkg/platform/sentinel"
)

// errCredentials is the single outward-facing rejection for every
// validation failure: expired, malformed, revoked, unknown or inactive
// subject. Collapsing them prevents callers from probing which check a
// token failed.
func errCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "could not validate credentials")
}

// Validate resolves a presented access token to an identity. The token
// must carry a valid signature, be unexpired, not appear on the
// revocation list, and resolve to an active user.
func (s *Service) Validate(ctx context.Context, tokenString string) (models.Identity, error) {
	claims, err := s.codec.Decode(tokenString)
	if err != nil {
		return s.reject(), errCredentials()
	}

	revoked, err := s.trl.IsRevoked(ctx, claims.JTI())
	if err != nil {
		return models.Identity{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check revocation list")
	}
	if revoked {
		return s.reject(), errCredentials()
	}

	user, err := s.users.FindByEmail(ctx, claims.SubjectID())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return s.reject(), errCredentials()
		}
		return models.Identity{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	if !user.Active {
		return s.reject(), errCredentials()
	}

	// Role comes from the user record, not the token: a role change takes
	// effect on the next validation rather than the next issuance.
	return models.Identity{Subject: user.Email, Role: user.Role}, nil
}

func (s *Service) reject() models.Identity {
	if s.metrics != nil {
		s.metrics.ValidationFailures.Inc()
	}
	return models.Identity{}
}
