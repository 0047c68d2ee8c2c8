package user

import (
	"context"
	"testing"

	"authgate/internal/auth/models"
	"authgate/pkg/platform/sentinel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = New()
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func (s *InMemoryUserStoreSuite) TestLookupBehavior() {
	s.Run("returns user by email when exists", func() {
		u := &models.User{
			ID:     uuid.New(),
			Email:  "jane.doe@example.com",
			Role:   models.RoleUser,
			Active: true,
		}
		s.Require().NoError(s.store.Save(context.Background(), u))

		found, err := s.store.FindByEmail(context.Background(), u.Email)
		s.Require().NoError(err)
		s.Equal(u, found)
	})

	s.Run("email lookup is case-insensitive", func() {
		u := &models.User{
			ID:     uuid.New(),
			Email:  "Mixed.Case@Example.com",
			Role:   models.RoleUser,
			Active: true,
		}
		s.Require().NoError(s.store.Save(context.Background(), u))

		found, err := s.store.FindByEmail(context.Background(), "mixed.case@example.com")
		s.Require().NoError(err)
		s.Equal(u.ID, found.ID)
	})

	s.Run("returns ErrNotFound when email does not exist", func() {
		_, err := s.store.FindByEmail(context.Background(), "missing@example.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned user is a copy, not shared state", func() {
		u := &models.User{
			ID:     uuid.New(),
			Email:  "copy@example.com",
			Role:   models.RoleUser,
			Active: true,
		}
		s.Require().NoError(s.store.Save(context.Background(), u))

		found, err := s.store.FindByEmail(context.Background(), u.Email)
		s.Require().NoError(err)
		found.Role = models.RoleAdmin

		again, err := s.store.FindByEmail(context.Background(), u.Email)
		s.Require().NoError(err)
		s.Equal(models.RoleUser, again.Role)
	})
}
