package collection

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Collection is a named, user-owned set of profile memberships.
// MemberIDs keeps insertion order; duplicates are never stored.
type Collection struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MemberIDs   []string  `json:"memberIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("collection not found")

type CreateRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=120"`
	Description string   `json:"description" binding:"omitempty,max=2000"`
	MemberIDs   []string `json:"memberIds" binding:"omitempty,dive,uuid4"`
}

type UpdateRequest struct {
	Name        *string   `json:"name" binding:"omitempty,min=1,max=120"`
	Description *string   `json:"description" binding:"omitempty,max=2000"`
	MemberIDs   *[]string `json:"memberIds" binding:"omitempty,dive,uuid4"`
}

func NewFromCreateRequest(ownerID string, req CreateRequest) Collection {
	now := time.Now().UTC()

	members := dedupe(req.MemberIDs)

	return Collection{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		MemberIDs:   members,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (c *Collection) Apply(patch UpdateRequest) {
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.MemberIDs != nil {
		c.MemberIDs = dedupe(*patch.MemberIDs)
	}

	c.UpdatedAt = time.Now().UTC()
}

func (c *Collection) HasMember(profileID string) bool {
	for _, id := range c.MemberIDs {
		if id == profileID {
			return true
		}
	}
	return false
}

// AddMember appends the profile; no-op when already present.
func (c *Collection) AddMember(profileID string) {
	if c.HasMember(profileID) {
		return
	}
	c.MemberIDs = append(c.MemberIDs, profileID)
	c.UpdatedAt = time.Now().UTC()
}

// RemoveMember drops the profile, preserving the order of the rest.
// Always allocates so copies of a Collection never share a backing array.
func (c *Collection) RemoveMember(profileID string) {
	out := make([]string, 0, len(c.MemberIDs))
	for _, id := range c.MemberIDs {
		if id != profileID {
			out = append(out, id)
		}
	}
	c.MemberIDs = out
	c.UpdatedAt = time.Now().UTC()
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
