package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"authgate/internal/auth/models"
	"authgate/pkg/platform/sentinel"
)

// PostgresUserStore persists users in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE users (
//	    id            UUID PRIMARY KEY,
//	    email         TEXT NOT NULL UNIQUE,
//	    role          TEXT NOT NULL,
//	    password_hash TEXT NOT NULL,
//	    active        BOOLEAN NOT NULL DEFAULT TRUE,
//	    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresUserStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// Save inserts the user. A duplicate email surfaces as sentinel.ErrConflict
// so the service can translate it without parsing driver errors.
func (s *PostgresUserStore) Save(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, email, role, password_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		u.ID, strings.ToLower(u.Email), u.Role, u.PasswordHash, u.Active, u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// FindByEmail returns the user for the email or sentinel.ErrNotFound.
func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, role, password_hash, active, created_at
		FROM users
		WHERE email = $1
	`
	var u models.User
	err := s.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan(
		&u.ID, &u.Email, &u.Role, &u.PasswordHash, &u.Active, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}
