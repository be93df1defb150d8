package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/avelazco/contactdeck/internal/domain/user"
	"github.com/avelazco/contactdeck/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveStore(op, fn)
	}
	return fn()
}

func (r *UsersRepo) CreateUser(ctx context.Context, email, passwordHash, name string) (user.User, error) {
	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := r.observe("users.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			u.ID, u.Email, u.PasswordHash, u.Name, u.CreatedAt, u.UpdatedAt,
		)
		return e
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, email, password_hash, name, created_at, updated_at
			 FROM users
			 WHERE email = $1`,
			email,
		).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, email, password_hash, name, created_at, updated_at
			 FROM users
			 WHERE id = $1`,
			id,
		).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}
