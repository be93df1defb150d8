package profile

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"userId"`
	Name         string    `json:"name"`
	Role         string    `json:"role,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Tags         []string  `json:"tags"`
	LinkedIn     string    `json:"linkedin,omitempty"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("profile not found")

type CreateRequest struct {
	Name         string   `json:"name" binding:"required,min=1,max=120"`
	Role         string   `json:"role" binding:"omitempty,max=120"`
	Organization string   `json:"organization" binding:"omitempty,max=120"`
	Bio          string   `json:"bio" binding:"omitempty,max=2000"`
	Tags         []string `json:"tags" binding:"omitempty,dive,max=60"`
	LinkedIn     string   `json:"linkedin" binding:"omitempty,max=300"`
	Email        string   `json:"email" binding:"omitempty,email"`
}

// UpdateRequest is a partial patch: nil fields keep the stored value,
// non-nil fields overwrite it.
type UpdateRequest struct {
	Name         *string   `json:"name" binding:"omitempty,min=1,max=120"`
	Role         *string   `json:"role" binding:"omitempty,max=120"`
	Organization *string   `json:"organization" binding:"omitempty,max=120"`
	Bio          *string   `json:"bio" binding:"omitempty,max=2000"`
	Tags         *[]string `json:"tags" binding:"omitempty,dive,max=60"`
	LinkedIn     *string   `json:"linkedin" binding:"omitempty,max=300"`
	Email        *string   `json:"email" binding:"omitempty,email"`
}

// NewFromCreateRequest builds a stored Profile from the incoming DTO.
func NewFromCreateRequest(ownerID string, req CreateRequest) Profile {
	now := time.Now().UTC()

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	return Profile{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Name:         req.Name,
		Role:         req.Role,
		Organization: req.Organization,
		Bio:          req.Bio,
		Tags:         tags,
		LinkedIn:     req.LinkedIn,
		Email:        req.Email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Apply merges the patch into the profile, shallow-field-wise.
func (p *Profile) Apply(patch UpdateRequest) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Role != nil {
		p.Role = *patch.Role
	}
	if patch.Organization != nil {
		p.Organization = *patch.Organization
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.Tags != nil {
		p.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.LinkedIn != nil {
		p.LinkedIn = *patch.LinkedIn
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}

	p.UpdatedAt = time.Now().UTC()
}
