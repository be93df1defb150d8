package postgres

import (
	"context"
	"errors"

	"github.com/avelazco/contactdeck/internal/domain/collection"
	"github.com/avelazco/contactdeck/internal/domain/profile"
	"github.com/avelazco/contactdeck/internal/membership"
	"github.com/avelazco/contactdeck/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CollectionsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCollectionsRepo(pool *pgxpool.Pool, prom *observability.Prom) *CollectionsRepo {
	return &CollectionsRepo{pool: pool, prom: prom}
}

func (r *CollectionsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveStore(op, fn)
	}
	return fn()
}

const collectionColumns = `id, owner_id, name, description, member_ids, created_at, updated_at`

func scanCollection(row pgx.Row) (collection.Collection, error) {
	var c collection.Collection

	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.MemberIDs,
		&c.CreatedAt, &c.UpdatedAt,
	)

	return c, err
}

func (r *CollectionsRepo) ListCollections(ctx context.Context, ownerID string) (out []collection.Collection, err error) {
	var rows pgx.Rows

	err = r.observe("collections.list", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT `+collectionColumns+`
			 FROM collections
			 WHERE owner_id = $1
			 ORDER BY created_at ASC, id ASC`,
			ownerID,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	out = make([]collection.Collection, 0)

	for rows.Next() {
		c, e := scanCollection(rows)
		if e != nil {
			err = e
			return
		}
		out = append(out, c)
	}

	err = rows.Err()
	return
}

func (r *CollectionsRepo) CreateCollection(ctx context.Context, ownerID string, req collection.CreateRequest) (collection.Collection, error) {
	c := collection.NewFromCreateRequest(ownerID, req)

	err := r.observe("collections.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO collections (`+collectionColumns+`)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			c.ID, c.OwnerID, c.Name, c.Description, c.MemberIDs, c.CreatedAt, c.UpdatedAt,
		)
		return e
	})

	if err != nil {
		return collection.Collection{}, err
	}

	return c, nil
}

func (r *CollectionsRepo) UpdateCollection(ctx context.Context, ownerID, id string, patch collection.UpdateRequest) (out collection.Collection, err error) {
	err = r.observe("collections.update", func() error {
		tx, e := r.pool.BeginTx(ctx, pgx.TxOptions{})
		if e != nil {
			return e
		}

		defer func() { _ = tx.Rollback(ctx) }()

		c, e := scanCollection(tx.QueryRow(ctx,
			`SELECT `+collectionColumns+`
			 FROM collections
			 WHERE id = $1 AND owner_id = $2
			 FOR UPDATE`,
			id, ownerID,
		))

		if e != nil {
			if errors.Is(e, pgx.ErrNoRows) {
				return collection.ErrNotFound
			}
			return e
		}

		c.Apply(patch)

		_, e = tx.Exec(ctx,
			`UPDATE collections
			 SET name = $1, description = $2, member_ids = $3, updated_at = $4
			 WHERE id = $5 AND owner_id = $6`,
			c.Name, c.Description, c.MemberIDs, c.UpdatedAt, id, ownerID,
		)

		if e != nil {
			return e
		}

		if e := tx.Commit(ctx); e != nil {
			return e
		}

		out = c
		return nil
	})

	return
}

func (r *CollectionsRepo) DeleteCollection(ctx context.Context, ownerID, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("collections.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx,
			`DELETE FROM collections WHERE id = $1 AND owner_id = $2`,
			id, ownerID,
		)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return collection.ErrNotFound
	}

	return nil
}

// ApplyMembership reconciles one profile's memberships across all of the
// owner's collections in a single transaction: the owner's collection rows
// are locked, the plan is built from that locked snapshot, and every planned
// mutation must land or the whole batch rolls back.
func (r *CollectionsRepo) ApplyMembership(ctx context.Context, ownerID, profileID string, targetIDs []string) (out []collection.Collection, err error) {
	err = r.observe("collections.apply_membership", func() error {
		tx, e := r.pool.BeginTx(ctx, pgx.TxOptions{})
		if e != nil {
			return e
		}

		defer func() { _ = tx.Rollback(ctx) }()

		var exists bool
		e = tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1 AND owner_id = $2)`,
			profileID, ownerID,
		).Scan(&exists)

		if e != nil {
			return e
		}

		if !exists {
			return profile.ErrNotFound
		}

		rows, e := tx.Query(ctx,
			`SELECT `+collectionColumns+`
			 FROM collections
			 WHERE owner_id = $1
			 ORDER BY created_at ASC, id ASC
			 FOR UPDATE`,
			ownerID,
		)

		if e != nil {
			return e
		}

		owned := make([]collection.Collection, 0)

		for rows.Next() {
			c, scanErr := scanCollection(rows)
			if scanErr != nil {
				rows.Close()
				return scanErr
			}
			owned = append(owned, c)
		}
		rows.Close()

		if e := rows.Err(); e != nil {
			return e
		}

		plan, e := membership.Build(owned, profileID, targetIDs)

		if e != nil {
			return e
		}

		for i := range owned {
			c := &owned[i]

			if !plan.Touches(c.ID) {
				continue
			}

			if c.HasMember(profileID) {
				c.RemoveMember(profileID)
			} else {
				c.AddMember(profileID)
			}

			tag, updErr := tx.Exec(ctx,
				`UPDATE collections
				 SET member_ids = $1, updated_at = $2
				 WHERE id = $3 AND owner_id = $4`,
				c.MemberIDs, c.UpdatedAt, c.ID, ownerID,
			)

			if updErr != nil {
				return updErr
			}

			// a locked row cannot vanish, but keep the batch honest
			if tag.RowsAffected() == 0 {
				return membership.ErrReconcileFailed
			}
		}

		if !plan.Empty() {
			if e := tx.Commit(ctx); e != nil {
				return membership.ErrReconcileFailed
			}
		}

		out = owned
		return nil
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
