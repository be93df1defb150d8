package file

import (
	"context"

	"github.com/avelazco/contactdeck/internal/domain/bookmark"
)

func (s *Store) ListBookmarks(ctx context.Context, ownerID string) ([]bookmark.Bookmark, error) {
	out := make([]bookmark.Bookmark, 0)

	err := s.observe("bookmarks.list", func() error {
		s.mu.RLock()
		defer s.mu.RUnlock()

		for i := range s.bookmarks {
			if s.bookmarks[i].OwnerID == ownerID {
				out = append(out, s.bookmarks[i])
			}
		}
		return nil
	})

	return out, err
}

func (s *Store) CreateBookmark(ctx context.Context, ownerID string, req bookmark.CreateRequest) (bookmark.Bookmark, error) {
	var out bookmark.Bookmark

	err := s.observe("bookmarks.create", func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		b := bookmark.NewFromCreateRequest(ownerID, req)
		s.bookmarks = append(s.bookmarks, b)

		if err := s.persistLocked(); err != nil {
			s.bookmarks = s.bookmarks[:len(s.bookmarks)-1]
			return err
		}

		out = b
		return nil
	})

	return out, err
}

func (s *Store) UpdateBookmark(ctx context.Context, ownerID, id string, patch bookmark.UpdateRequest) (bookmark.Bookmark, error) {
	var out bookmark.Bookmark

	err := s.observe("bookmarks.update", func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		idx := s.findBookmarkLocked(ownerID, id)

		if idx == -1 {
			return bookmark.ErrNotFound
		}

		prev := s.bookmarks[idx]
		next := prev
		next.Apply(patch)
		s.bookmarks[idx] = next

		if err := s.persistLocked(); err != nil {
			s.bookmarks[idx] = prev
			return err
		}

		out = next
		return nil
	})

	return out, err
}

func (s *Store) DeleteBookmark(ctx context.Context, ownerID, id string) error {
	return s.observe("bookmarks.delete", func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		idx := s.findBookmarkLocked(ownerID, id)

		if idx == -1 {
			return bookmark.ErrNotFound
		}

		prev := s.bookmarks
		next := make([]bookmark.Bookmark, 0, len(prev)-1)
		next = append(next, prev[:idx]...)
		next = append(next, prev[idx+1:]...)
		s.bookmarks = next

		if err := s.persistLocked(); err != nil {
			s.bookmarks = prev
			return err
		}

		return nil
	})
}

func (s *Store) findBookmarkLocked(ownerID, id string) int {
	for i := range s.bookmarks {
		if s.bookmarks[i].ID == id && s.bookmarks[i].OwnerID == ownerID {
			return i
		}
	}
	return -1
}
