// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/mllab/labsite/internal/model"
)

const publicationColumns = `id, title, authors, venue, year, url, pdf_url, category, position, published, created_at, updated_at`

// publicationOrder sorts newest year first, then manual order, then title so
// listings stay stable when positions collide.
const publicationOrder = ` ORDER BY year DESC, position ASC, title ASC`

func scanPublication(row interface{ Scan(...any) error }) (model.Publication, error) {
	var p model.Publication
	err := row.Scan(&p.ID, &p.Title, &p.Authors, &p.Venue, &p.Year, &p.URL,
		&p.PdfURL, &p.Category, &p.Position, &p.Published,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectPublications(rows *sql.Rows) ([]model.Publication, error) {
	defer rows.Close()
	var pubs []model.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, p)
	}
	return pubs, rows.Err()
}

// CreatePublicationParams holds the fields for CreatePublication.
type CreatePublicationParams struct {
	Title     string
	Authors   string
	Venue     string
	Year      int64
	URL       string
	PdfURL    string
	Category  string
	Position  int64
	Published bool
}

// CreatePublication inserts a new publication.
func (q *Queries) CreatePublication(ctx context.Context, arg CreatePublicationParams) (model.Publication, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO publications (title, authors, venue, year, url, pdf_url, category, position, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+publicationColumns,
		arg.Title, arg.Authors, arg.Venue, arg.Year, arg.URL, arg.PdfURL,
		arg.Category, arg.Position, arg.Published, now, now)
	return scanPublication(row)
}

// UpsertPublication inserts a publication or refreshes the existing row that
// shares the (title, authors, venue) key. The seeder relies on this to stay
// idempotent across restarts.
func (q *Queries) UpsertPublication(ctx context.Context, arg CreatePublicationParams) (model.Publication, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO publications (title, authors, venue, year, url, pdf_url, category, position, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (title, authors, venue) DO UPDATE SET
			year = excluded.year,
			url = excluded.url,
			pdf_url = excluded.pdf_url,
			category = excluded.category,
			position = excluded.position,
			published = excluded.published,
			updated_at = excluded.updated_at
		RETURNING `+publicationColumns,
		arg.Title, arg.Authors, arg.Venue, arg.Year, arg.URL, arg.PdfURL,
		arg.Category, arg.Position, arg.Published, now, now)
	return scanPublication(row)
}

// GetPublicationByID fetches a publication by primary key.
func (q *Queries) GetPublicationByID(ctx context.Context, id int64) (model.Publication, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+publicationColumns+` FROM publications WHERE id = ?`, id)
	return scanPublication(row)
}

// ListPublications returns all publications in display order.
func (q *Queries) ListPublications(ctx context.Context) ([]model.Publication, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+publicationColumns+` FROM publications`+publicationOrder)
	if err != nil {
		return nil, err
	}
	return collectPublications(rows)
}

// ListPublishedPublications returns published publications in display order.
func (q *Queries) ListPublishedPublications(ctx context.Context) ([]model.Publication, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+publicationColumns+` FROM publications WHERE published = 1`+publicationOrder)
	if err != nil {
		return nil, err
	}
	return collectPublications(rows)
}

// UpdatePublicationParams holds the fields for UpdatePublication.
type UpdatePublicationParams struct {
	ID        int64
	Title     string
	Authors   string
	Venue     string
	Year      int64
	URL       string
	PdfURL    string
	Category  string
	Position  int64
	Published bool
}

// UpdatePublication replaces the mutable fields of a publication.
func (q *Queries) UpdatePublication(ctx context.Context, arg UpdatePublicationParams) (model.Publication, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE publications SET title = ?, authors = ?, venue = ?, year = ?,
			url = ?, pdf_url = ?, category = ?, position = ?, published = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+publicationColumns,
		arg.Title, arg.Authors, arg.Venue, arg.Year, arg.URL, arg.PdfURL,
		arg.Category, arg.Position, arg.Published, time.Now().UTC(), arg.ID)
	return scanPublication(row)
}

// DeletePublication removes a publication.
func (q *Queries) DeletePublication(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM publications WHERE id = ?`, id)
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
