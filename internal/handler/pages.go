// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/store"
	"github.com/mllab/labsite/internal/util"
)

type pageCreateRequest struct {
	Slug      string `json:"slug" validate:"omitempty,slug,max=100"`
	Title     string `json:"title" validate:"required,max=200"`
	Content   string `json:"content" validate:"omitempty,max=65535"`
	Published bool   `json:"published"`
}

type pageUpdateRequest struct {
	Slug      *string `json:"slug" validate:"omitempty,slug,max=100"`
	Title     *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content   *string `json:"content" validate:"omitempty,max=65535"`
	Published *bool   `json:"published"`
}

// pageResponse is the wire form of a page, optionally with its sections.
type pageResponse struct {
	model.Page
	Content  string          `json:"content"`
	Sections []model.Section `json:"sections,omitempty"`
}

func toPageResponse(p model.Page, sections []model.Section) pageResponse {
	return pageResponse{Page: p, Content: p.Content.String, Sections: sections}
}

// AdminListPages returns every page including drafts.
func (h *Handler) AdminListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.store.ListPages(r.Context())
	if err != nil {
		slog.Error("listing pages", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]pageResponse, 0, len(pages))
	for _, p := range pages {
		out = append(out, toPageResponse(p, nil))
	}
	WriteJSON(w, http.StatusOK, out)
}

// AdminGetPage returns one page with its sections.
func (h *Handler) AdminGetPage(w http.ResponseWriter, r *http.Request) {
	page, ok := fetchByID(w, r, "page", func(id int64) (model.Page, error) {
		return h.store.GetPageByID(r.Context(), id)
	})
	if !ok {
		return
	}

	sections, err := h.store.ListSectionsByPage(r.Context(), page.ID)
	if err != nil {
		slog.Error("listing page sections", "error", err, "page_id", page.ID)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	WriteJSON(w, http.StatusOK, toPageResponse(page, sections))
}

// CreatePage creates a page. A missing slug is derived from the title.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req pageCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(req.Title)
		if slug == "" {
			WriteError(w, http.StatusBadRequest, "slug: could not derive a slug from title")
			return
		}
	}

	page, err := h.store.CreatePage(r.Context(), store.CreatePageParams{
		Slug:      slug,
		Title:     req.Title,
		Content:   nullableString(h.sanitizer.Sanitize(req.Content)),
		Published: req.Published,
	})
	if err != nil {
		if isUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "a page with this slug already exists")
			return
		}
		slog.Error("creating page", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.invalidatePublic(r, "pages", "page:"+page.Slug)
	WriteJSON(w, http.StatusCreated, toPageResponse(page, nil))
}

// UpdatePage applies a partial update and returns the canonical record.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	page, ok := fetchByID(w, r, "page", func(id int64) (model.Page, error) {
		return h.store.GetPageByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req pageUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	oldSlug := page.Slug
	arg := store.UpdatePageParams{
		ID:        page.ID,
		Slug:      page.Slug,
		Title:     page.Title,
		Content:   page.Content,
		Published: page.Published,
	}
	if req.Slug != nil {
		arg.Slug = *req.Slug
	}
	if req.Title != nil {
		arg.Title = *req.Title
	}
	if req.Content != nil {
		arg.Content = nullableString(h.sanitizer.Sanitize(*req.Content))
	}
	if req.Published != nil {
		arg.Published = *req.Published
	}

	updated, err := h.store.UpdatePage(r.Context(), arg)
	if err != nil {
		if isUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "a page with this slug already exists")
			return
		}
		slog.Error("updating page", "error", err, "id", page.ID)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.invalidatePublic(r, "pages", "page:"+oldSlug, "page:"+updated.Slug)
	WriteJSON(w, http.StatusOK, toPageResponse(updated, nil))
}

// DeletePage removes a page and, through the schema, its sections.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageForDelete(w, r)
	if err != nil {
		return
	}
	if deleteByID(w, r, "page", func(id int64) error {
		return h.store.DeletePage(r.Context(), id)
	}) {
		h.invalidatePublic(r, "pages", "page:"+page.Slug)
	}
}

func (h *Handler) pageForDelete(w http.ResponseWriter, r *http.Request) (model.Page, error) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid page id")
		return model.Page{}, err
	}
	page, err := h.store.GetPageByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteError(w, http.StatusNotFound, "page not found")
		} else {
			slog.Error("fetching page", "error", err, "id", id)
			WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return model.Page{}, err
	}
	return page, nil
}

// PublicListPages returns published pages without their sections.
func (h *Handler) PublicListPages(w http.ResponseWriter, r *http.Request) {
	cachedPublicList(h, w, r, "pages", func() ([]pageResponse, error) {
		pages, err := h.store.ListPages(r.Context())
		if err != nil {
			return nil, err
		}
		out := make([]pageResponse, 0, len(pages))
		for _, p := range pages {
			if p.Published {
				out = append(out, toPageResponse(p, nil))
			}
		}
		return out, nil
	})
}

// PublicGetPage returns one published page with its sections, by slug.
func (h *Handler) PublicGetPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		WriteError(w, http.StatusBadRequest, "invalid page slug")
		return
	}

	page, err := h.store.GetPageBySlug(r.Context(), slug)
	if err != nil || !page.Published {
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			slog.Error("fetching page by slug", "error", err, "slug", slug)
			WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		// Drafts are indistinguishable from missing pages.
		WriteError(w, http.StatusNotFound, "page not found")
		return
	}

	sections, err := h.store.ListSectionsByPage(r.Context(), page.ID)
	if err != nil {
		slog.Error("listing page sections", "error", err, "page_id", page.ID)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	WriteJSON(w, http.StatusOK, toPageResponse(page, sections))
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
