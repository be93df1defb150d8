package postgres

import (
	"context"
	"errors"

	"github.com/avelazco/contactdeck/internal/domain/bookmark"
	"github.com/avelazco/contactdeck/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookmarksRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewBookmarksRepo(pool *pgxpool.Pool, prom *observability.Prom) *BookmarksRepo {
	return &BookmarksRepo{pool: pool, prom: prom}
}

func (r *BookmarksRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveStore(op, fn)
	}
	return fn()
}

const bookmarkColumns = `id, owner_id, title, url, notes, created_at, updated_at`

func scanBookmark(row pgx.Row) (bookmark.Bookmark, error) {
	var b bookmark.Bookmark

	err := row.Scan(&b.ID, &b.OwnerID, &b.Title, &b.URL, &b.Notes, &b.CreatedAt, &b.UpdatedAt)

	return b, err
}

func (r *BookmarksRepo) ListBookmarks(ctx context.Context, ownerID string) (out []bookmark.Bookmark, err error) {
	var rows pgx.Rows

	err = r.observe("bookmarks.list", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT `+bookmarkColumns+`
			 FROM bookmarks
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

	out = make([]bookmark.Bookmark, 0)

	for rows.Next() {
		b, e := scanBookmark(rows)
		if e != nil {
			err = e
			return
		}
		out = append(out, b)
	}

	err = rows.Err()
	return
}

func (r *BookmarksRepo) CreateBookmark(ctx context.Context, ownerID string, req bookmark.CreateRequest) (bookmark.Bookmark, error) {
	b := bookmark.NewFromCreateRequest(ownerID, req)

	err := r.observe("bookmarks.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO bookmarks (`+bookmarkColumns+`)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			b.ID, b.OwnerID, b.Title, b.URL, b.Notes, b.CreatedAt, b.UpdatedAt,
		)
		return e
	})

	if err != nil {
		return bookmark.Bookmark{}, err
	}

	return b, nil
}

func (r *BookmarksRepo) UpdateBookmark(ctx context.Context, ownerID, id string, patch bookmark.UpdateRequest) (out bookmark.Bookmark, err error) {
	err = r.observe("bookmarks.update", func() error {
		tx, e := r.pool.BeginTx(ctx, pgx.TxOptions{})
		if e != nil {
			return e
		}

		defer func() { _ = tx.Rollback(ctx) }()

		b, e := scanBookmark(tx.QueryRow(ctx,
			`SELECT `+bookmarkColumns+`
			 FROM bookmarks
			 WHERE id = $1 AND owner_id = $2
			 FOR UPDATE`,
			id, ownerID,
		))

		if e != nil {
			if errors.Is(e, pgx.ErrNoRows) {
				return bookmark.ErrNotFound
			}
			return e
		}

		b.Apply(patch)

		_, e = tx.Exec(ctx,
			`UPDATE bookmarks
			 SET title = $1, url = $2, notes = $3, updated_at = $4
			 WHERE id = $5 AND owner_id = $6`,
			b.Title, b.URL, b.Notes, b.UpdatedAt, id, ownerID,
		)

		if e != nil {
			return e
		}

		if e := tx.Commit(ctx); e != nil {
			return e
		}

		out = b
		return nil
	})

	return
}

func (r *BookmarksRepo) DeleteBookmark(ctx context.Context, ownerID, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("bookmarks.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx,
			`DELETE FROM bookmarks WHERE id = $1 AND owner_id = $2`,
			id, ownerID,
		)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return bookmark.ErrNotFound
	}

	return nil
}
