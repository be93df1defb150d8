package file

import (
	"context"

	"github.com/avelazco/contactdeck/internal/domain/profile"
)

func (s *Store) ListProfiles(ctx context.Context, ownerID string) ([]profile.Profile, error) {
	out := make([]profile.Profile, 0)

	err := s.observe("profiles.list", func() error {
		s.mu.RLock()
		defer s.mu.RUnlock()

		for i := range s.profiles {
			if s.profiles[i].OwnerID == ownerID {
				out = append(out, s.profiles[i])
			}
		}
		return nil
	})

	return out, err
}

func (s *Store) CreateProfile(ctx context.Context, ownerID string, req profile.CreateRequest) (profile.Profile, error) {
	var out profile.Profile

	err := s.observe("profiles.create", func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		p := profile.NewFromCreateRequest(ownerID, req)
		s.profiles = append(s.profiles, p)

		if err := s.persistLocked(); err != nil {
			s.profiles = s.profiles[:len(s.profiles)-1]
			return err
		}

		out = p
		return nil
	})

	return out, err
}

func (s *Store) UpdateProfile(ctx context.Context, ownerID, id string, patch profile.UpdateRequest) (profile.Profile, error) {
	var out profile.Profile

	err := s.observe("profiles.update", func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		idx := s.findProfileLocked(ownerID, id)

		if idx == -1 {
			return profile.ErrNotFound
		}

		prev := s.profiles[idx]
		next := prev
		next.Apply(patch)
		s.profiles[idx] = next

		if err := s.persistLocked(); err != nil {
			s.profiles[idx] = prev
			return err
		}

		out = next
		return nil
	})

	return out, err
}

func (s *Store) DeleteProfile(ctx context.Context, ownerID, id string) error {
	return s.observe("profiles.delete", func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		idx := s.findProfileLocked(ownerID, id)

		if idx == -1 {
			return profile.ErrNotFound
		}

		prev := s.profiles
		next := make([]profile.Profile, 0, len(prev)-1)
		next = append(next, prev[:idx]...)
		next = append(next, prev[idx+1:]...)
		s.profiles = next

		if err := s.persistLocked(); err != nil {
			s.profiles = prev
			return err
		}

		return nil
	})
}

func (s *Store) findProfileLocked(ownerID, id string) int {
	for i := range s.profiles {
		if s.profiles[i].ID == id && s.profiles[i].OwnerID == ownerID {
			return i
		}
	}
	return -1
}
