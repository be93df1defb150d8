package postgres

import (
	"context"
	"errors"

	"github.com/avelazco/contactdeck/internal/domain/profile"
	"github.com/avelazco/contactdeck/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfilesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewProfilesRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProfilesRepo {
	return &ProfilesRepo{pool: pool, prom: prom}
}

func (r *ProfilesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveStore(op, fn)
	}
	return fn()
}

const profileColumns = `id, owner_id, name, role, organization, bio, tags, linkedin, email, created_at, updated_at`

func scanProfile(row pgx.Row) (profile.Profile, error) {
	var p profile.Profile

	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Role, &p.Organization, &p.Bio,
		&p.Tags, &p.LinkedIn, &p.Email, &p.CreatedAt, &p.UpdatedAt,
	)

	return p, err
}

func (r *ProfilesRepo) ListProfiles(ctx context.Context, ownerID string) (out []profile.Profile, err error) {
	var rows pgx.Rows

	err = r.observe("profiles.list", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT `+profileColumns+`
			 FROM profiles
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

	out = make([]profile.Profile, 0)

	for rows.Next() {
		p, e := scanProfile(rows)
		if e != nil {
			err = e
			return
		}
		out = append(out, p)
	}

	err = rows.Err()
	return
}

func (r *ProfilesRepo) CreateProfile(ctx context.Context, ownerID string, req profile.CreateRequest) (profile.Profile, error) {
	p := profile.NewFromCreateRequest(ownerID, req)

	err := r.observe("profiles.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO profiles (`+profileColumns+`)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			p.ID, p.OwnerID, p.Name, p.Role, p.Organization, p.Bio,
			p.Tags, p.LinkedIn, p.Email, p.CreatedAt, p.UpdatedAt,
		)
		return e
	})

	if err != nil {
		return profile.Profile{}, err
	}

	return p, nil
}

// UpdateProfile does a read-modify-write under a row lock so the shallow
// merge never clobbers a concurrent patch.
func (r *ProfilesRepo) UpdateProfile(ctx context.Context, ownerID, id string, patch profile.UpdateRequest) (out profile.Profile, err error) {
	err = r.observe("profiles.update", func() error {
		tx, e := r.pool.BeginTx(ctx, pgx.TxOptions{})
		if e != nil {
			return e
		}

		defer func() { _ = tx.Rollback(ctx) }()

		p, e := scanProfile(tx.QueryRow(ctx,
			`SELECT `+profileColumns+`
			 FROM profiles
			 WHERE id = $1 AND owner_id = $2
			 FOR UPDATE`,
			id, ownerID,
		))

		if e != nil {
			if errors.Is(e, pgx.ErrNoRows) {
				return profile.ErrNotFound
			}
			return e
		}

		p.Apply(patch)

		_, e = tx.Exec(ctx,
			`UPDATE profiles
			 SET name = $1, role = $2, organization = $3, bio = $4, tags = $5,
			     linkedin = $6, email = $7, updated_at = $8
			 WHERE id = $9 AND owner_id = $10`,
			p.Name, p.Role, p.Organization, p.Bio, p.Tags,
			p.LinkedIn, p.Email, p.UpdatedAt, id, ownerID,
		)

		if e != nil {
			return e
		}

		if e := tx.Commit(ctx); e != nil {
			return e
		}

		out = p
		return nil
	})

	return
}

func (r *ProfilesRepo) DeleteProfile(ctx context.Context, ownerID, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("profiles.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx,
			`DELETE FROM profiles WHERE id = $1 AND owner_id = $2`,
			id, ownerID,
		)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}

	return nil
}
