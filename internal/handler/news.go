// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/store"
)

type newsLinkPayload struct {
	Text string `json:"text" validate:"required,max=200"`
	URL  string `json:"url" validate:"required,max=2048"`
}

type newsCreateRequest struct {
	Date        string            `json:"date" validate:"max=50"`
	Title       string            `json:"title" validate:"required,max=300"`
	Description string            `json:"description" validate:"max=2000"`
	Position    int64             `json:"order" validate:"gte=0"`
	Links       []newsLinkPayload `json:"links" validate:"omitempty,dive"`
}

type newsUpdateRequest struct {
	Date        *string            `json:"date" validate:"omitempty,max=50"`
	Title       *string            `json:"title" validate:"omitempty,min=1,max=300"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	Position    *int64             `json:"order" validate:"omitempty,gte=0"`
	Links       *[]newsLinkPayload `json:"links" validate:"omitempty,dive"`
}

// withLinks attaches an item's links, normalizing nil to an empty slice so
// the JSON is always an array.
func (h *Handler) withLinks(ctx context.Context, item model.NewsItem) (model.NewsItem, error) {
	links, err := h.store.ListNewsLinksByItem(ctx, item.ID)
	if err != nil {
		return item, err
	}
	if links == nil {
		links = []model.NewsLink{}
	}
	item.Links = links
	return item, nil
}

func (h *Handler) listNewsWithLinks(ctx context.Context) ([]model.NewsItem, error) {
	items, err := h.store.ListNewsItems(ctx)
	if err != nil {
		return nil, err
	}
	links, err := h.store.ListAllNewsLinks(ctx)
	if err != nil {
		return nil, err
	}

	byItem := make(map[int64][]model.NewsLink, len(items))
	for _, l := range links {
		byItem[l.NewsItemID] = append(byItem[l.NewsItemID], l)
	}
	for i := range items {
		if byItem[items[i].ID] == nil {
			items[i].Links = []model.NewsLink{}
		} else {
			items[i].Links = byItem[items[i].ID]
		}
	}
	return items, nil
}

// AdminListNews returns all news items with links.
func (h *Handler) AdminListNews(w http.ResponseWriter, r *http.Request) {
	items, err := h.listNewsWithLinks(r.Context())
	if err != nil {
		slog.Error("listing news", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []model.NewsItem{}
	}
	WriteJSON(w, http.StatusOK, items)
}

// AdminGetNews returns one news item with links.
func (h *Handler) AdminGetNews(w http.ResponseWriter, r *http.Request) {
	item, ok := fetchByID(w, r, "news item", func(id int64) (model.NewsItem, error) {
		return h.store.GetNewsItemByID(r.Context(), id)
	})
	if !ok {
		return
	}
	item, err := h.withLinks(r.Context(), item)
	if err != nil {
		slog.Error("listing news links", "error", err, "id", item.ID)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// CreateNews creates a news item together with its links.
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var req newsCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.store.CreateNewsItem(r.Context(), store.CreateNewsItemParams{
		Date:        req.Date,
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
	})
	if err != nil {
		slog.Error("creating news item", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if len(req.Links) > 0 {
		if err := h.store.ReplaceNewsLinks(r.Context(), item.ID, toLinkInputs(req.Links)); err != nil {
			slog.Error("creating news links", "error", err, "id", item.ID)
			WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	item, err = h.withLinks(r.Context(), item)
	if err != nil {
		slog.Error("listing news links", "error", err, "id", item.ID)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.invalidatePublic(r, "news")
	WriteJSON(w, http.StatusCreated, item)
}

// UpdateNews applies a partial update. When links are present in the
// payload the stored set is replaced wholesale inside one transaction.
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	item, ok := fetchByID(w, r, "news item", func(id int64) (model.NewsItem, error) {
		return h.store.GetNewsItemByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req newsUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	arg := store.UpdateNewsItemParams{
		ID:          item.ID,
		Date:        item.Date,
		Title:       item.Title,
		Description: item.Description,
		Position:    item.Position,
	}
	if req.Date != nil {
		arg.Date = *req.Date
	}
	if req.Title != nil {
		arg.Title = *req.Title
	}
	if req.Description != nil {
		arg.Description = *req.Description
	}
	if req.Position != nil {
		arg.Position = *req.Position
	}

	updated, err := h.store.UpdateNewsItem(r.Context(), arg)
	if err != nil {
		slog.Error("updating news item", "error", err, "id", item.ID)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if req.Links != nil {
		if err := h.store.ReplaceNewsLinks(r.Context(), updated.ID, toLinkInputs(*req.Links)); err != nil {
			slog.Error("replacing news links", "error", err, "id", updated.ID)
			WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	updated, err = h.withLinks(r.Context(), updated)
	if err != nil {
		slog.Error("listing news links", "error", err, "id", updated.ID)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.invalidatePublic(r, "news")
	WriteJSON(w, http.StatusOK, updated)
}

// DeleteNews removes a news item and its links.
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	if deleteByID(w, r, "news item", func(id int64) error {
		return h.store.DeleteNewsItem(r.Context(), id)
	}) {
		h.invalidatePublic(r, "news")
	}
}

// PublicListNews returns all news items with links for the home page.
func (h *Handler) PublicListNews(w http.ResponseWriter, r *http.Request) {
	cachedPublicList(h, w, r, "news", func() ([]model.NewsItem, error) {
		return h.listNewsWithLinks(r.Context())
	})
}

func toLinkInputs(payload []newsLinkPayload) []store.NewsLinkInput {
	links := make([]store.NewsLinkInput, len(payload))
	for i, l := range payload {
		links[i] = store.NewsLinkInput{Text: l.Text, URL: l.URL}
	}
	return links
}
