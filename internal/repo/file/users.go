package file

import (
	"context"
	"time"

	"github.com/avelazco/contactdeck/internal/domain/user"
	"github.com/google/uuid"
)

func (s *Store) CreateUser(ctx context.Context, email, passwordHash, name string) (user.User, error) {
	var out user.User

	err := s.observe("users.create", func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i := range s.users {
			if s.users[i].Email == email {
				return user.ErrEmailTaken
			}
		}

		now := time.Now().UTC()

		u := user.User{
			ID:           uuid.NewString(),
			Email:        email,
			PasswordHash: passwordHash,
			Name:         name,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		s.users = append(s.users, u)

		if err := s.persistLocked(); err != nil {
			s.users = s.users[:len(s.users)-1]
			return err
		}

		out = u
		return nil
	})

	return out, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var out user.User

	err := s.observe("users.get_by_email", func() error {
		s.mu.RLock()
		defer s.mu.RUnlock()

		for i := range s.users {
			if s.users[i].Email == email {
				out = s.users[i]
				return nil
			}
		}
		return user.ErrNotFound
	})

	return out, err
}

func (s *Store) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var out user.User

	err := s.observe("users.get_by_id", func() error {
		s.mu.RLock()
		defer s.mu.RUnlock()

		for i := range s.users {
			if s.users[i].ID == id {
				out = s.users[i]
				return nil
			}
		}
		return user.ErrNotFound
	})

	return out, err
}
