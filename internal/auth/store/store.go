// Package store declares the persistence interfaces the auth service
// depends on. Implementations live in subpackages (memory for tests and
// development, postgres/redis for production).
package store

import (
	"context"
	"time"

	"authgate/internal/auth/models"
)

// UserStore is the user repository boundary. Lookups that miss return
// sentinel.ErrNotFound (possibly wrapped).
type UserStore interface {
	Save(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenRevocationList is the denylist consulted on every validation.
// Revoke is idempotent; entries expire on their own once the token they
// shadow would have expired anyway, so the list never needs sweeping.
type TokenRevocationList interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
