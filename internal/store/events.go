// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/mllab/labsite/internal/model"
)

const eventColumns = `id, level, message, source, user_id, ip, url, metadata, created_at`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Level, &e.Message, &e.Source, &e.UserID,
		&e.IP, &e.URL, &e.Metadata, &e.CreatedAt)
	return e, err
}

// CreateEventParams holds the fields for CreateEvent.
type CreateEventParams struct {
	Level    string
	Message  string
	Source   string
	UserID   sql.NullInt64
	IP       string
	URL      string
	Metadata sql.NullString
}

// CreateEvent appends an audit log record.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO events (level, message, source, user_id, ip, url, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+eventColumns,
		arg.Level, arg.Message, arg.Source, arg.UserID, arg.IP, arg.URL,
		arg.Metadata, time.Now().UTC())
	return scanEvent(row)
}

// ListEvents returns the most recent audit records, newest first.
func (q *Queries) ListEvents(ctx context.Context, limit int64) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// PruneEvents deletes audit records older than the cutoff and returns how
// many were removed. The cron sweep calls this nightly.
func (q *Queries) PruneEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
