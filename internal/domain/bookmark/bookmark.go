package bookmark

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Bookmark struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"userId"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("bookmark not found")

type CreateRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
	URL   string `json:"url" binding:"required,url"`
	Notes string `json:"notes" binding:"omitempty,max=2000"`
}

type UpdateRequest struct {
	Title *string `json:"title" binding:"omitempty,min=1,max=200"`
	URL   *string `json:"url" binding:"omitempty,url"`
	Notes *string `json:"notes" binding:"omitempty,max=2000"`
}

func NewFromCreateRequest(ownerID string, req CreateRequest) Bookmark {
	now := time.Now().UTC()

	return Bookmark{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     req.Title,
		URL:       req.URL,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *Bookmark) Apply(patch UpdateRequest) {
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.URL != nil {
		b.URL = *patch.URL
	}
	if patch.Notes != nil {
		b.Notes = *patch.Notes
	}

	b.UpdatedAt = time.Now().UTC()
}
