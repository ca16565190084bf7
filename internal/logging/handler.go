// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and ERROR
// records into the database-backed audit log.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/store"
)

// EventLogHandler wraps another slog.Handler and additionally persists
// records at or above its threshold as audit events.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewEventLogHandler wraps inner; WARN and above also land in the events
// table.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.persist(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithAttrs(attrs), queries: h.queries, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithGroup(name), queries: h.queries, level: h.level}
}

// persist writes one record as an audit event. A background context is used
// so the event survives request cancellation; failures are swallowed because
// logging must never take the request down with it.
func (h *EventLogHandler) persist(r slog.Record) {
	var (
		source = ""
		ip     = ""
		url    = ""
		userID sql.NullInt64
		extra  = map[string]string{}
	)

	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "source":
			source = a.Value.String()
		case "ip":
			ip = a.Value.String()
		case "url":
			url = a.Value.String()
		case "user_id":
			userID = sql.NullInt64{Int64: a.Value.Int64(), Valid: true}
		default:
			extra[a.Key] = a.Value.String()
		}
		return true
	})

	if source == "" {
		source = inferSource(r.Message)
	}

	var metadata sql.NullString
	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			metadata = sql.NullString{String: string(b), Valid: true}
		}
	}

	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:    eventLevel(r.Level),
		Message:  r.Message,
		Source:   source,
		UserID:   userID,
		IP:       ip,
		URL:      url,
		Metadata: metadata,
	})
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// inferSource guesses the event source from the message when no source
// attribute was given.
func inferSource(msg string) string {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "login") || strings.Contains(m, "logout") ||
		strings.Contains(m, "auth") || strings.Contains(m, "csrf"):
		return model.EventSourceAuth
	case strings.Contains(m, "upload") || strings.Contains(m, "file"):
		return model.EventSourceUpload
	default:
		return model.EventSourceSystem
	}
}
