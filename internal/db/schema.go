package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema provisions the four entity tables at startup. Idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id           TEXT PRIMARY KEY,
			owner_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name         TEXT NOT NULL,
			role         TEXT NOT NULL DEFAULT '',
			organization TEXT NOT NULL DEFAULT '',
			bio          TEXT NOT NULL DEFAULT '',
			tags         TEXT[] NOT NULL DEFAULT '{}',
			linkedin     TEXT NOT NULL DEFAULT '',
			email        TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS profiles_owner_idx ON profiles (owner_id, created_at, id)`,
		`CREATE TABLE IF NOT EXISTS collections (
			id          TEXT PRIMARY KEY,
			owner_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			member_ids  TEXT[] NOT NULL DEFAULT '{}',
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS collections_owner_idx ON collections (owner_id, created_at, id)`,
		`CREATE TABLE IF NOT EXISTS bookmarks (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title      TEXT NOT NULL,
			url        TEXT NOT NULL,
			notes      TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS bookmarks_owner_idx ON bookmarks (owner_id, created_at, id)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
