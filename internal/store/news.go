// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/mllab/labsite/internal/model"
)

const newsItemColumns = `id, date, title, description, position, created_at, updated_at`

func scanNewsItem(row interface{ Scan(...any) error }) (model.NewsItem, error) {
	var n model.NewsItem
	err := row.Scan(&n.ID, &n.Date, &n.Title, &n.Description, &n.Position,
		&n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// CreateNewsItemParams holds the fields for CreateNewsItem.
type CreateNewsItemParams struct {
	Date        string
	Title       string
	Description string
	Position    int64
}

// CreateNewsItem inserts a new news item without links.
func (q *Queries) CreateNewsItem(ctx context.Context, arg CreateNewsItemParams) (model.NewsItem, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO news_items (date, title, description, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+newsItemColumns,
		arg.Date, arg.Title, arg.Description, arg.Position, now, now)
	return scanNewsItem(row)
}

// GetNewsItemByID fetches a news item by primary key, without links.
func (q *Queries) GetNewsItemByID(ctx context.Context, id int64) (model.NewsItem, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+newsItemColumns+` FROM news_items WHERE id = ?`, id)
	return scanNewsItem(row)
}

// ListNewsItems returns all news items in display order, without links.
func (q *Queries) ListNewsItems(ctx context.Context) ([]model.NewsItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+newsItemColumns+` FROM news_items ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.NewsItem
	for rows.Next() {
		n, err := scanNewsItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// UpdateNewsItemParams holds the fields for UpdateNewsItem.
type UpdateNewsItemParams struct {
	ID          int64
	Date        string
	Title       string
	Description string
	Position    int64
}

// UpdateNewsItem replaces the mutable fields of a news item.
func (q *Queries) UpdateNewsItem(ctx context.Context, arg UpdateNewsItemParams) (model.NewsItem, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE news_items SET date = ?, title = ?, description = ?, position = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+newsItemColumns,
		arg.Date, arg.Title, arg.Description, arg.Position, time.Now().UTC(), arg.ID)
	return scanNewsItem(row)
}

// DeleteNewsItem removes a news item. Links cascade.
func (q *Queries) DeleteNewsItem(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM news_items WHERE id = ?`, id)
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

// CreateNewsLink inserts a child link of a news item.
func (q *Queries) CreateNewsLink(ctx context.Context, newsItemID int64, text, url string) (model.NewsLink, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO news_links (news_item_id, text, url)
		VALUES (?, ?, ?)
		RETURNING id, news_item_id, text, url`,
		newsItemID, text, url)
	var l model.NewsLink
	err := row.Scan(&l.ID, &l.NewsItemID, &l.Text, &l.URL)
	return l, err
}

// DeleteNewsLinksByItem removes all links of a news item.
func (q *Queries) DeleteNewsLinksByItem(ctx context.Context, newsItemID int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM news_links WHERE news_item_id = ?`, newsItemID)
	return err
}

// ListNewsLinksByItem returns the links of one news item in insertion order.
func (q *Queries) ListNewsLinksByItem(ctx context.Context, newsItemID int64) ([]model.NewsLink, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, news_item_id, text, url FROM news_links WHERE news_item_id = ? ORDER BY id ASC`,
		newsItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []model.NewsLink
	for rows.Next() {
		var l model.NewsLink
		if err := rows.Scan(&l.ID, &l.NewsItemID, &l.Text, &l.URL); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// ListAllNewsLinks returns every link, for grouping under listed items.
func (q *Queries) ListAllNewsLinks(ctx context.Context) ([]model.NewsLink, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, news_item_id, text, url FROM news_links ORDER BY news_item_id ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []model.NewsLink
	for rows.Next() {
		var l model.NewsLink
		if err := rows.Scan(&l.ID, &l.NewsItemID, &l.Text, &l.URL); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// NewsLinkInput is a link payload used when replacing an item's link set.
type NewsLinkInput struct {
	Text string
	URL  string
}

// ReplaceNewsLinks swaps the full link set of a news item inside one
// transaction so readers never observe a partial set.
func (s *Store) ReplaceNewsLinks(ctx context.Context, newsItemID int64, links []NewsLinkInput) error {
	return s.ExecTx(ctx, func(q *Queries) error {
		if err := q.DeleteNewsLinksByItem(ctx, newsItemID); err != nil {
			return err
		}
		for _, l := range links {
			if _, err := q.CreateNewsLink(ctx, newsItemID, l.Text, l.URL); err != nil {
				return err
			}
		}
		return nil
	})
}
