package membership

import (
	"errors"

	"github.com/avelazco/contactdeck/internal/domain/collection"
)

// ErrReconcileFailed is returned when a planned mutation could not be applied
// in full; nothing is persisted in that case.
var ErrReconcileFailed = errors.New("membership reconciliation failed")

// Plan is the minimal set of membership mutations needed to make one
// profile's collection memberships match a target set.
type Plan struct {
	// collection ids that must gain the profile
	Add []string
	// collection ids that must lose the profile
	Remove []string
}

func (p Plan) Empty() bool {
	return len(p.Add) == 0 && len(p.Remove) == 0
}

// Touches reports whether the plan mutates the given collection.
func (p Plan) Touches(collectionID string) bool {
	for _, id := range p.Add {
		if id == collectionID {
			return true
		}
	}
	for _, id := range p.Remove {
		if id == collectionID {
			return true
		}
	}
	return false
}

// Build diffs the profile's current memberships across all of the owner's
// collections against the target set. Collections already in the desired
// state produce no mutation. Every target id must name one of the given
// collections; an unknown id fails the whole plan with
// collection.ErrNotFound before anything is applied.
//
// The input snapshot must be taken once, at the start of the reconcile call.
func Build(current []collection.Collection, profileID string, targetIDs []string) (Plan, error) {
	known := make(map[string]*collection.Collection, len(current))
	for i := range current {
		known[current[i].ID] = &current[i]
	}

	target := make(map[string]struct{}, len(targetIDs))
	for _, id := range targetIDs {
		if _, ok := known[id]; !ok {
			return Plan{}, collection.ErrNotFound
		}
		target[id] = struct{}{}
	}

	var plan Plan

	for i := range current {
		c := &current[i]
		_, wanted := target[c.ID]
		isMember := c.HasMember(profileID)

		switch {
		case wanted && !isMember:
			plan.Add = append(plan.Add, c.ID)
		case !wanted && isMember:
			plan.Remove = append(plan.Remove, c.ID)
		}
	}

	return plan, nil
}
