// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/mllab/labsite/internal/model"
)

const galleryColumns = `id, title, description, image_url, category, position, published, created_at, updated_at`

func scanGalleryItem(row interface{ Scan(...any) error }) (model.GalleryItem, error) {
	var g model.GalleryItem
	err := row.Scan(&g.ID, &g.Title, &g.Description, &g.ImageURL, &g.Category,
		&g.Position, &g.Published, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func collectGalleryItems(rows *sql.Rows) ([]model.GalleryItem, error) {
	defer rows.Close()
	var items []model.GalleryItem
	for rows.Next() {
		g, err := scanGalleryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

// CreateGalleryItemParams holds the fields for CreateGalleryItem.
type CreateGalleryItemParams struct {
	Title       string
	Description string
	ImageURL    string
	Category    string
	Position    int64
	Published   bool
}

// CreateGalleryItem inserts a new gallery photo.
func (q *Queries) CreateGalleryItem(ctx context.Context, arg CreateGalleryItemParams) (model.GalleryItem, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO gallery_items (title, description, image_url, category, position, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+galleryColumns,
		arg.Title, arg.Description, arg.ImageURL, arg.Category, arg.Position,
		arg.Published, now, now)
	return scanGalleryItem(row)
}

// GetGalleryItemByID fetches a gallery item by primary key.
func (q *Queries) GetGalleryItemByID(ctx context.Context, id int64) (model.GalleryItem, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+galleryColumns+` FROM gallery_items WHERE id = ?`, id)
	return scanGalleryItem(row)
}

// ListGalleryItems returns all gallery items in display order.
func (q *Queries) ListGalleryItems(ctx context.Context) ([]model.GalleryItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+galleryColumns+` FROM gallery_items ORDER BY position ASC, title ASC`)
	if err != nil {
		return nil, err
	}
	return collectGalleryItems(rows)
}

// ListPublishedGalleryItems returns published gallery items in display order.
func (q *Queries) ListPublishedGalleryItems(ctx context.Context) ([]model.GalleryItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+galleryColumns+` FROM gallery_items WHERE published = 1 ORDER BY position ASC, title ASC`)
	if err != nil {
		return nil, err
	}
	return collectGalleryItems(rows)
}

// UpdateGalleryItemParams holds the fields for UpdateGalleryItem.
type UpdateGalleryItemParams struct {
	ID          int64
	Title       string
	Description string
	ImageURL    string
	Category    string
	Position    int64
	Published   bool
}

// UpdateGalleryItem replaces the mutable fields of a gallery item.
func (q *Queries) UpdateGalleryItem(ctx context.Context, arg UpdateGalleryItemParams) (model.GalleryItem, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE gallery_items SET title = ?, description = ?, image_url = ?, category = ?,
			position = ?, published = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+galleryColumns,
		arg.Title, arg.Description, arg.ImageURL, arg.Category, arg.Position,
		arg.Published, time.Now().UTC(), arg.ID)
	return scanGalleryItem(row)
}

// DeleteGalleryItem removes a gallery item.
func (q *Queries) DeleteGalleryItem(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM gallery_items WHERE id = ?`, id)
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
