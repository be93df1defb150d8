package user

import (
	"errors"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicView is the shape returned by the auth endpoints.
type PublicView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u User) Public() PublicView {
	return PublicView{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}

var ErrNotFound = errors.New("user not found")

// ErrEmailTaken signals a register attempt with an email that already has an
// account. The match is a case-sensitive exact comparison.
var ErrEmailTaken = errors.New("email already registered")
