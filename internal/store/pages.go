// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/mllab/labsite/internal/model"
)

const pageColumns = `id, slug, title, content, published, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.Published,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreatePageParams holds the fields for CreatePage.
type CreatePageParams struct {
	Slug      string
	Title     string
	Content   sql.NullString
	Published bool
}

// CreatePage inserts a new page.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (model.Page, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO pages (slug, title, content, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+pageColumns,
		arg.Slug, arg.Title, arg.Content, arg.Published, now, now)
	return scanPage(row)
}

// GetPageByID fetches a page by primary key.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

// GetPageBySlug fetches a page by its unique slug.
func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug)
	return scanPage(row)
}

// ListPages returns all pages ordered by slug.
func (q *Queries) ListPages(ctx context.Context) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages ORDER BY slug ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// UpdatePageParams holds the fields for UpdatePage.
type UpdatePageParams struct {
	ID        int64
	Slug      string
	Title     string
	Content   sql.NullString
	Published bool
}

// UpdatePage replaces the mutable fields of a page.
func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE pages SET slug = ?, title = ?, content = ?, published = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+pageColumns,
		arg.Slug, arg.Title, arg.Content, arg.Published, time.Now().UTC(), arg.ID)
	return scanPage(row)
}

// DeletePage removes a page. Sections cascade.
func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
