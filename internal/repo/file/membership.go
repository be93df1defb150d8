package file

import (
	"context"

	"github.com/avelazco/contactdeck/internal/domain/collection"
	"github.com/avelazco/contactdeck/internal/domain/profile"
	"github.com/avelazco/contactdeck/internal/membership"
)

// ApplyMembership reconciles one profile's memberships across all of the
// owner's collections against the target set, as a single unit. The plan is
// built and applied under one write lock, so the snapshot it works from
// cannot drift mid-operation; a failed persist rolls the whole batch back.
func (s *Store) ApplyMembership(ctx context.Context, ownerID, profileID string, targetIDs []string) ([]collection.Collection, error) {
	var out []collection.Collection

	err := s.observe("collections.apply_membership", func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.findProfileLocked(ownerID, profileID) == -1 {
			return profile.ErrNotFound
		}

		owned := make([]collection.Collection, 0)
		for i := range s.collections {
			if s.collections[i].OwnerID == ownerID {
				owned = append(owned, s.collections[i])
			}
		}

		plan, err := membership.Build(owned, profileID, targetIDs)

		if err != nil {
			return err
		}

		out = make([]collection.Collection, 0, len(owned))

		if plan.Empty() {
			out = append(out, owned...)
			return nil
		}

		// apply on a copy-on-write view of the full collection slice,
		// then swap and persist as one unit
		prev := s.collections
		next := make([]collection.Collection, len(prev))
		copy(next, prev)

		for i := range next {
			if next[i].OwnerID != ownerID || !plan.Touches(next[i].ID) {
				continue
			}

			c := next[i]
			c.MemberIDs = append([]string{}, c.MemberIDs...)

			if contains(plan.Add, c.ID) {
				c.AddMember(profileID)
			} else {
				c.RemoveMember(profileID)
			}

			next[i] = c
		}

		s.collections = next

		if err := s.persistLocked(); err != nil {
			s.collections = prev
			return err
		}

		for i := range next {
			if next[i].OwnerID == ownerID {
				out = append(out, next[i])
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
