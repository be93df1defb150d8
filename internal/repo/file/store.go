// Package file implements the entity store contract over in-memory
// collections backed by a single JSON snapshot file. Every mutating call
// rewrites the whole snapshot (temp file + rename) before returning, so a
// reply implies the state is on disk.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/avelazco/contactdeck/internal/domain/bookmark"
	"github.com/avelazco/contactdeck/internal/domain/collection"
	"github.com/avelazco/contactdeck/internal/domain/profile"
	"github.com/avelazco/contactdeck/internal/domain/user"
	"github.com/avelazco/contactdeck/internal/observability"
)

type Store struct {
	mu   sync.RWMutex
	path string
	prom *observability.Prom

	users       []user.User
	profiles    []profile.Profile
	collections []collection.Collection
	bookmarks   []bookmark.Bookmark
}

// snapshot is the on-disk layout: one JSON object, four named sequences.
type snapshot struct {
	Users       []userRecord            `json:"users"`
	Profiles    []profile.Profile       `json:"profiles"`
	Collections []collection.Collection `json:"collections"`
	Bookmarks   []bookmark.Bookmark     `json:"bookmarks"`
}

// userRecord exists because user.User hides its password hash from JSON;
// the snapshot has to keep it.
type userRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toRecord(u user.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRecord) toUser() user.User {
	return user.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Name:         r.Name,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Open loads an existing snapshot or starts fresh when the file is absent.
// An empty path keeps the store purely in memory (tests).
func Open(path string, prom *observability.Prom) (*Store, error) {
	s := &Store{path: path, prom: prom}

	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var snap snapshot

	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	for _, r := range snap.Users {
		s.users = append(s.users, r.toUser())
	}
	s.profiles = snap.Profiles
	s.collections = snap.Collections
	s.bookmarks = snap.Bookmarks

	return s, nil
}

// persistLocked writes the full snapshot. Callers hold the write lock.
// Temp file + rename keeps a crash from leaving a torn snapshot behind.
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}

	snap := snapshot{
		Users:       make([]userRecord, 0, len(s.users)),
		Profiles:    s.profiles,
		Collections: s.collections,
		Bookmarks:   s.bookmarks,
	}

	for _, u := range s.users {
		snap.Users = append(snap.Users, toRecord(u))
	}

	raw, err := json.Marshal(snap)

	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"

	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("swap snapshot: %w", err)
	}

	return nil
}

func (s *Store) observe(op string, fn func() error) error {
	if s.prom != nil {
		return s.prom.ObserveStore(op, fn)
	}
	return fn()
}
