// Package audit defines the authentication audit trail. Domain logic
// emits transport-agnostic events; a worker drains them to a store so
// request handling never blocks on audit persistence.
package audit

import (
	"context"
	"time"
)

// Action names the audited operation. Values are stable strings stored
// verbatim; renames are breaking.
type Action string

const (
	ActionUserCreated    Action = "user_created"
	ActionLoginSucceeded Action = "login_succeeded"
	ActionLoginFailed    Action = "login_failed"
	ActionTokenRefreshed Action = "token_refreshed"
	ActionTokenRevoked   Action = "token_revoked"
	ActionProviderLogin  Action = "provider_login"
)

// Event captures one audited action. Keep it flat and transport-agnostic
// so stores can persist it without adapters.
type Event struct {
	ID        string
	Timestamp time.Time
	Action    Action
	// Subject is the user email the action concerns, when known.
	Subject string
	// Provider is set for provider_login events.
	Provider string
	// Device is a display name parsed from the User-Agent, when available.
	Device string
	// IP is the client address as seen by the server.
	IP string
	// Detail carries a short free-form note (e.g. failure reason class).
	Detail string
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}
