// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event sources
const (
	EventSourceAuth   = "auth"
	EventSourceUpload = "upload"
	EventSourceSystem = "system"
)

// Event is an audit log record. Auth and upload handlers write them
// directly; the logging handler mirrors WARN+ slog records into them.
type Event struct {
	ID        int64          `json:"id"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Source    string         `json:"source"`
	UserID    sql.NullInt64  `json:"-"`
	IP        string         `json:"ip"`
	URL       string         `json:"url"`
	Metadata  sql.NullString `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
}
