package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"authgate/internal/auth/models"
	"authgate/internal/auth/password"
	dErrors "authgate/pkg/domain-errors"
	"authgate/pkg/platform/audit"
	"authgate/pkg/platform/sentinel"
)

// Register creates a local account and logs it in. The email must be
// unused; role defaults to "user" when empty.
func (s *Service) Register(ctx context.Context, email, plaintext, role string) (*models.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if plaintext == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	if role == "" {
		role = models.RoleUser
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, dErrors.New(dErrors.CodeDuplicateEmail, "email already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email")
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Save(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeDuplicateEmail, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save user")
	}

	if s.metrics != nil {
		s.metrics.UsersCreated.Inc()
	}
	s.emitAudit(ctx, audit.ActionUserCreated, user.Email, "")

	return s.issuePair(user.Email, user.Role)
}

// Login authenticates a local password credential and issues a token
// pair. All failure causes collapse into one unauthorized error.
func (s *Service) Login(ctx context.Context, email, plaintext string) (*models.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.loginFailure(ctx, email, "unknown email")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if err := password.Verify(plaintext, user.PasswordHash); err != nil {
		return nil, s.loginFailure(ctx, email, "bad password")
	}
	if !user.Active {
		return nil, s.loginFailure(ctx, email, "inactive user")
	}

	if s.metrics != nil {
		s.metrics.ObserveLogin("success")
	}
	s.emitAudit(ctx, audit.ActionLoginSucceeded, user.Email, "")

	return s.issuePair(user.Email, user.Role)
}

// IssuePairFor issues a token pair for an already-authenticated identity.
// The provider callback uses this after the identity bridge has resolved
// a local user; it must converge on the same contract as password login.
func (s *Service) IssuePairFor(ctx context.Context, ident models.Identity) (*models.TokenPair, error) {
	s.emitAudit(ctx, audit.ActionLoginSucceeded, ident.Subject, "via provider")
	return s.issuePair(ident.Subject, ident.Role)
}

func (s *Service) loginFailure(ctx context.Context, email, reason string) error {
	if s.metrics != nil {
		s.metrics.ObserveLogin("failure")
	}
	s.emitAudit(ctx, audit.ActionLoginFailed, strings.ToLower(strings.TrimSpace(email)), reason)
	// The reason stays in the audit trail; the caller learns nothing.
	return dErrors.New(dErrors.CodeUnauthorized, "incorrect email or password")
}

// issuePair issues one access and one refresh token. The two tokens never
// share a jti, so each is independently revocable.
func (s *Service) issuePair(subject, role string) (*models.TokenPair, error) {
	access, err := s.codec.IssueAccess(subject, role)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}
	refresh, err := s.codec.IssueRefresh(subject, role)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue refresh token")
	}

	if s.metrics != nil {
		s.metrics.ObserveTokenIssued("access")
		s.metrics.ObserveTokenIssued("refresh")
	}

	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
