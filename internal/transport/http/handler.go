// Package httptransport is the thin HTTP layer over the token service and
// the identity bridge. Handlers decode requests, delegate, and translate
// errors; business rules live below.
package httptransport

import (
	"context"
	"log/slog"

	"authgate/internal/auth/models"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks

// AuthService is the token lifecycle surface the handlers depend on.
type AuthService interface {
	Register(ctx context.Context, email, password, role string) (*models.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, tokenString string) error
	Validate(ctx context.Context, tokenString string) (models.Identity, error)
	IssuePairFor(ctx context.Context, ident models.Identity) (*models.TokenPair, error)
}

// IdentityBridge runs the provider authorization-code flow.
type IdentityBridge interface {
	BeginAuthorization(name string) (string, error)
	CompleteAuthorization(ctx context.Context, name, code string) (models.Identity, error)
}

// Handler wires the auth endpoints to their services.
type Handler struct {
	auth   AuthService
	bridge IdentityBridge
	logger *slog.Logger
}

// NewHandler constructs the HTTP handler set.
func NewHandler(auth AuthService, bridge IdentityBridge, logger *slog.Logger) *Handler {
	return &Handler{
		auth:   auth,
		bridge: bridge,
		logger: logger,
	}
}
