// Package models holds the auth domain entities shared by stores,
// services, and transport.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles are flat strings compared verbatim; there is no hierarchy.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a local account. Provider-created users get a random unusable
// password hash since they never authenticate with a local password.
type User struct {
	ID           uuid.UUID
	Email        string
	Role         string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

// Identity is what a validated token resolves to: just enough to make
// authorization decisions. Handlers never see the full User.
type Identity struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

// TokenPair is the response shape of every issuance path: password login,
// registration, and provider callback all converge on it.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}
