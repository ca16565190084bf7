// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mllab/labsite/internal/model"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

// eventResponse exposes the nullable columns in plain wire form.
type eventResponse struct {
	model.Event
	UserID   int64           `json:"user_id,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// AdminListEvents returns the most recent audit records, newest first.
// An optional ?limit parameter caps the page size.
func (h *Handler) AdminListEvents(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultEventLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > maxEventLimit {
			WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	events, err := h.store.ListEvents(r.Context(), limit)
	if err != nil {
		writeListError(w, "events", err)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp := eventResponse{Event: e, UserID: e.UserID.Int64}
		if e.Metadata.Valid && json.Valid([]byte(e.Metadata.String)) {
			resp.Metadata = json.RawMessage(e.Metadata.String)
		}
		out = append(out, resp)
	}
	WriteJSON(w, http.StatusOK, out)
}
