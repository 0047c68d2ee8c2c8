// Package user provides UserStore implementations.
package user

import (
	"context"
	"strings"
	"sync"

	"authgate/internal/auth/models"
	"authgate/pkg/platform/sentinel"
)

// InMemoryUserStore keeps users in a map. Intended for tests and for
// development without a database; safe for concurrent use.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
}

// New constructs an empty in-memory user store.
func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		byEmail: make(map[string]*models.User),
	}
}

// Save inserts or replaces the user keyed by its normalized email.
func (s *InMemoryUserStore) Save(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *u
	s.byEmail[normalize(u.Email)] = &copied
	return nil
}

// FindByEmail returns the user for the email or sentinel.ErrNotFound.
func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[normalize(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
