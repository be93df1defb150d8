package file

import (
	"context"

	"github.com/avelazco/contactdeck/internal/domain/collection"
)

func (s *Store) ListCollections(ctx context.Context, ownerID string) ([]collection.Collection, error) {
	out := make([]collection.Collection, 0)

	err := s.observe("collections.list", func() error {
		s.mu.RLock()
		defer s.mu.RUnlock()

		for i := range s.collections {
			if s.collections[i].OwnerID == ownerID {
				out = append(out, s.collections[i])
			}
		}
		return nil
	})

	return out, err
}

func (s *Store) CreateCollection(ctx context.Context, ownerID string, req collection.CreateRequest) (collection.Collection, error) {
	var out collection.Collection

	err := s.observe("collections.create", func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		c := collection.NewFromCreateRequest(ownerID, req)
		s.collections = append(s.collections, c)

		if err := s.persistLocked(); err != nil {
			s.collections = s.collections[:len(s.collections)-1]
			return err
		}

		out = c
		return nil
	})

	return out, err
}

func (s *Store) UpdateCollection(ctx context.Context, ownerID, id string, patch collection.UpdateRequest) (collection.Collection, error) {
	var out collection.Collection

	err := s.observe("collections.update", func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		idx := s.findCollectionLocked(ownerID, id)

		if idx == -1 {
			return collection.ErrNotFound
		}

		prev := s.collections[idx]
		next := prev
		next.Apply(patch)
		s.collections[idx] = next

		if err := s.persistLocked(); err != nil {
			s.collections[idx] = prev
			return err
		}

		out = next
		return nil
	})

	return out, err
}

func (s *Store) DeleteCollection(ctx context.Context, ownerID, id string) error {
	return s.observe("collections.delete", func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		idx := s.findCollectionLocked(ownerID, id)

		if idx == -1 {
			return collection.ErrNotFound
		}

		prev := s.collections
		next := make([]collection.Collection, 0, len(prev)-1)
		next = append(next, prev[:idx]...)
		next = append(next, prev[idx+1:]...)
		s.collections = next

		if err := s.persistLocked(); err != nil {
			s.collections = prev
			return err
		}

		return nil
	})
}

func (s *Store) findCollectionLocked(ownerID, id string) int {
	for i := range s.collections {
		if s.collections[i].ID == id && s.collections[i].OwnerID == ownerID {
			return i
		}
	}
	return -1
}
