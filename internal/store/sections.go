// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/mllab/labsite/internal/model"
)

const sectionColumns = `id, page_id, title, content, layout, position, created_at, updated_at`

func scanSection(row interface{ Scan(...any) error }) (model.Section, error) {
	var s model.Section
	err := row.Scan(&s.ID, &s.PageID, &s.Title, &s.Content, &s.Layout,
		&s.Position, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreateSectionParams holds the fields for CreateSection.
type CreateSectionParams struct {
	PageID   int64
	Title    string
	Content  string
	Layout   string
	Position int64
}

// CreateSection inserts a new section under a page.
func (q *Queries) CreateSection(ctx context.Context, arg CreateSectionParams) (model.Section, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO sections (page_id, title, content, layout, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+sectionColumns,
		arg.PageID, arg.Title, arg.Content, arg.Layout, arg.Position, now, now)
	return scanSection(row)
}

// GetSectionByID fetches a section by primary key.
func (q *Queries) GetSectionByID(ctx context.Context, id int64) (model.Section, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE id = ?`, id)
	return scanSection(row)
}

// ListSectionsByPage returns a page's sections in display order. Position is
// a non-unique sort key so id breaks ties deterministically.
func (q *Queries) ListSectionsByPage(ctx context.Context, pageID int64) ([]model.Section, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE page_id = ? ORDER BY position ASC, id ASC`,
		pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// UpdateSectionParams holds the fields for UpdateSection.
type UpdateSectionParams struct {
	ID       int64
	Title    string
	Content  string
	Layout   string
	Position int64
}

// UpdateSection replaces the mutable fields of a section. The owning page
// never changes.
func (q *Queries) UpdateSection(ctx context.Context, arg UpdateSectionParams) (model.Section, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE sections SET title = ?, content = ?, layout = ?, position = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+sectionColumns,
		arg.Title, arg.Content, arg.Layout, arg.Position, time.Now().UTC(), arg.ID)
	return scanSection(row)
}

// DeleteSection removes a section.
func (q *Queries) DeleteSection(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id)
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
