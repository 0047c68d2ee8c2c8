// Package postgres persists audit events in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"authgate/pkg/platform/audit"
)

// Store implements audit.Store on a relational table.
//
// Expected schema:
//
//	CREATE TABLE audit_events (
//	    id        UUID PRIMARY KEY,
//	    ts        TIMESTAMPTZ NOT NULL,
//	    action    TEXT NOT NULL,
//	    subject   TEXT NOT NULL DEFAULT '',
//	    provider  TEXT NOT NULL DEFAULT '',
//	    device    TEXT NOT NULL DEFAULT '',
//	    ip        TEXT NOT NULL DEFAULT '',
//	    detail    TEXT NOT NULL DEFAULT ''
//	);
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (id, ts, action, subject, provider, device, ip, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID, event.Timestamp, string(event.Action),
		event.Subject, event.Provider, event.Device, event.IP, event.Detail)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) ListBySubject(ctx context.Context, subject string) ([]audit.Event, error) {
	query := `
		SELECT id, ts, action, subject, provider, device, ip, detail
		FROM audit_events
		WHERE subject = $1
		ORDER BY ts
	`
	rows, err := s.db.QueryContext(ctx, query, subject)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []audit.Event
	for rows.Next() {
		var e audit.Event
		var action string
		if err := rows.Scan(&e.ID, &e.Timestamp, &action,
			&e.Subject, &e.Provider, &e.Device, &e.IP, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = audit.Action(action)
		out = append(out, e)
	}
	return out, rows.Err()
}
