// Package postgres implements the entity store contract on pgx. Every
// multi-step mutation runs in a transaction with the touched rows locked.
package postgres

import (
	"github.com/avelazco/contactdeck/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the per-entity repos behind the single interface the
// HTTP layer consumes.
type Store struct {
	*UsersRepo
	*ProfilesRepo
	*CollectionsRepo
	*BookmarksRepo
}

func NewStore(pool *pgxpool.Pool, prom *observability.Prom) *Store {
	return &Store{
		UsersRepo:       NewUsersRepo(pool, prom),
		ProfilesRepo:    NewProfilesRepo(pool, prom),
		CollectionsRepo: NewCollectionsRepo(pool, prom),
		BookmarksRepo:   NewBookmarksRepo(pool, prom),
	}
}
