// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the JSON API: admin CRUD over site content,
// authentication, uploads, and the public read endpoints.
package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/mllab/labsite/internal/auth"
	"github.com/mllab/labsite/internal/cache"
	"github.com/mllab/labsite/internal/imaging"
	"github.com/mllab/labsite/internal/store"
	"github.com/mllab/labsite/internal/upload"
	"github.com/mllab/labsite/internal/validation"
)

// publicCacheTTL bounds staleness of cached public reads.
const publicCacheTTL = 5 * time.Minute

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	store     *store.Store
	issuer    *auth.TokenIssuer
	storage   *upload.Storage
	images    *imaging.Processor
	cache     cache.Cache
	sanitizer *bluemonday.Policy
}

// NewHandler creates the API handler.
func NewHandler(s *store.Store, issuer *auth.TokenIssuer, storage *upload.Storage, images *imaging.Processor, c cache.Cache) *Handler {
	return &Handler{
		store:     s,
		issuer:    issuer,
		storage:   storage,
		images:    images,
		cache:     c,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes the uniform error body.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, map[string]string{"error": message})
}

// decodeJSON parses a request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// parseIDParam extracts the {id} route parameter.
func parseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// decodeAndValidate combines body decoding and schema validation with the
// matching client responses. Returns false when a response was written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(r, dst); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := validation.Struct(dst); err != nil {
		if validation.IsValidationError(err) {
			WriteError(w, http.StatusBadRequest, err.Error())
		} else {
			slog.Error("validation failed", "error", err)
			WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return false
	}
	return true
}

// fetchByID loads an entity by the {id} route parameter, writing the error
// response on failure.
func fetchByID[T any](w http.ResponseWriter, r *http.Request, name string, fetch func(id int64) (T, error)) (T, bool) {
	var zero T

	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid "+name+" id")
		return zero, false
	}
	entity, err := fetch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteError(w, http.StatusNotFound, name+" not found")
		} else {
			slog.Error("fetching "+name, "error", err, "id", id)
			WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return zero, false
	}
	return entity, true
}

// deleteByID runs a delete for the {id} route parameter with the standard
// responses. A successful delete answers 204.
func deleteByID(w http.ResponseWriter, r *http.Request, name string, del func(id int64) error) bool {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid "+name+" id")
		return false
	}
	if err := del(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteError(w, http.StatusNotFound, name+" not found")
		} else {
			slog.Error("deleting "+name, "error", err, "id", id)
			WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return false
	}
	w.WriteHeader(http.StatusNoContent)
	return true
}

// invalidatePublic drops a cached public listing after a mutation.
func (h *Handler) invalidatePublic(r *http.Request, keys ...string) {
	for _, key := range keys {
		if err := h.cache.Delete(r.Context(), "public:"+key); err != nil {
			slog.Debug("cache invalidation failed", "key", key, "error", err)
		}
	}
}

// cachedPublicList serves a public listing through the cache.
func cachedPublicList[T any](h *Handler, w http.ResponseWriter, r *http.Request, key string, load func() ([]T, error)) {
	cacheKey := "public:" + key
	if cached, err := cache.GetJSON[[]T](r.Context(), h.cache, cacheKey); err == nil {
		WriteJSON(w, http.StatusOK, cached)
		return
	}

	items, err := load()
	if err != nil {
		slog.Error("listing "+key, "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []T{}
	}
	if err := cache.SetJSON(r.Context(), h.cache, cacheKey, items, publicCacheTTL); err != nil {
		slog.Debug("caching public list failed", "key", key, "error", err)
	}
	WriteJSON(w, http.StatusOK, items)
}
