// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/store"
)

type sectionCreateRequest struct {
	PageID   int64  `json:"page_id" validate:"required,gt=0"`
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"max=65535"`
	Layout   string `json:"layout" validate:"required,layout"`
	Position int64  `json:"order" validate:"gte=0"`
}

type sectionUpdateRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content  *string `json:"content" validate:"omitempty,max=65535"`
	Layout   *string `json:"layout" validate:"omitempty,layout"`
	Position *int64  `json:"order" validate:"omitempty,gte=0"`
}

// normalizeSectionContent validates content against the layout and returns
// the canonical stored form. HTML layouts are sanitized, grid content must
// parse as an item list, highlight text passes through.
func (h *Handler) normalizeSectionContent(layout, content string) (string, error) {
	sc, err := model.ParseSectionContent(layout, content)
	if err != nil {
		return "", err
	}
	if sc.HTML != "" {
		sc.HTML = h.sanitizer.Sanitize(sc.HTML)
	}
	return sc.Serialize()
}

// AdminListSections returns all sections of the page given by ?page_id, or
// of every page when the filter is absent.
func (h *Handler) AdminListSections(w http.ResponseWriter, r *http.Request) {
	pageIDStr := r.URL.Query().Get("page_id")
	if pageIDStr == "" {
		pages, err := h.store.ListPages(r.Context())
		if err != nil {
			slog.Error("listing pages", "error", err)
			WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		var all []model.Section
		for _, p := range pages {
			sections, err := h.store.ListSectionsByPage(r.Context(), p.ID)
			if err != nil {
				slog.Error("listing sections", "error", err, "page_id", p.ID)
				WriteError(w, http.StatusInternalServerError, "internal error")
				return
			}
			all = append(all, sections...)
		}
		if all == nil {
			all = []model.Section{}
		}
		WriteJSON(w, http.StatusOK, all)
		return
	}

	pageID, err := strconv.ParseInt(pageIDStr, 10, 64)
	if err != nil || pageID < 1 {
		WriteError(w, http.StatusBadRequest, "invalid page_id filter")
		return
	}
	page, err := h.store.GetPageByID(r.Context(), pageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteError(w, http.StatusNotFound, "page not found")
		} else {
			slog.Error("fetching page", "error", err, "id", pageID)
			WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	sections, err := h.store.ListSectionsByPage(r.Context(), page.ID)
	if err != nil {
		slog.Error("listing sections", "error", err, "page_id", page.ID)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if sections == nil {
		sections = []model.Section{}
	}
	WriteJSON(w, http.StatusOK, sections)
}

// AdminGetSection returns one section.
func (h *Handler) AdminGetSection(w http.ResponseWriter, r *http.Request) {
	section, ok := fetchByID(w, r, "section", func(id int64) (model.Section, error) {
		return h.store.GetSectionByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, section)
}

// CreateSection creates a section under an existing page.
func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req sectionCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	page, err := h.store.GetPageByID(r.Context(), req.PageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteError(w, http.StatusBadRequest, "page_id: page does not exist")
			return
		}
		slog.Error("fetching page", "error", err, "id", req.PageID)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	content, err := h.normalizeSectionContent(req.Layout, req.Content)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "content: "+err.Error())
		return
	}

	section, err := h.store.CreateSection(r.Context(), store.CreateSectionParams{
		PageID:   page.ID,
		Title:    req.Title,
		Content:  content,
		Layout:   req.Layout,
		Position: req.Position,
	})
	if err != nil {
		slog.Error("creating section", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.invalidatePublic(r, "pages", "page:"+page.Slug)
	WriteJSON(w, http.StatusCreated, section)
}

// UpdateSection applies a partial update. The owning page cannot change.
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	section, ok := fetchByID(w, r, "section", func(id int64) (model.Section, error) {
		return h.store.GetSectionByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req sectionUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	arg := store.UpdateSectionParams{
		ID:       section.ID,
		Title:    section.Title,
		Content:  section.Content,
		Layout:   section.Layout,
		Position: section.Position,
	}
	if req.Title != nil {
		arg.Title = *req.Title
	}
	if req.Layout != nil {
		arg.Layout = *req.Layout
	}
	if req.Position != nil {
		arg.Position = *req.Position
	}
	// A layout change re-interprets existing content, so the stored value is
	// normalized against the effective layout either way.
	effectiveContent := section.Content
	if req.Content != nil {
		effectiveContent = *req.Content
	}
	content, err := h.normalizeSectionContent(arg.Layout, effectiveContent)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "content: "+err.Error())
		return
	}
	arg.Content = content

	updated, err := h.store.UpdateSection(r.Context(), arg)
	if err != nil {
		slog.Error("updating section", "error", err, "id", section.ID)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.invalidateSectionPage(r, section.PageID)
	WriteJSON(w, http.StatusOK, updated)
}

// DeleteSection removes a section.
func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	section, ok := fetchByID(w, r, "section", func(id int64) (model.Section, error) {
		return h.store.GetSectionByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if err := h.store.DeleteSection(r.Context(), section.ID); err != nil {
		slog.Error("deleting section", "error", err, "id", section.ID)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.invalidateSectionPage(r, section.PageID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) invalidateSectionPage(r *http.Request, pageID int64) {
	page, err := h.store.GetPageByID(r.Context(), pageID)
	if err != nil {
		h.invalidatePublic(r, "pages")
		return
	}
	h.invalidatePublic(r, "pages", "page:"+page.Slug)
}
