// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"
)

// isUniqueViolation detects a SQLite UNIQUE constraint failure. Both the
// modernc and mattn drivers surface the constraint name in the message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func writeListError(w http.ResponseWriter, what string, err error) {
	slog.Error("listing "+what, "error", err)
	WriteError(w, http.StatusInternalServerError, "internal error")
}

func writeMutationError(w http.ResponseWriter, action string, err error) {
	slog.Error(action, "error", err)
	WriteError(w, http.StatusInternalServerError, "internal error")
}
