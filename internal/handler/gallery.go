// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/store"
)

type galleryCreateRequest struct {
	Title       string `json:"title" validate:"required,max=300"`
	Description string `json:"description" validate:"max=2000"`
	ImageURL    string `json:"imageUrl" validate:"required,max=2048"`
	Category    string `json:"category" validate:"max=100"`
	Position    int64  `json:"order" validate:"gte=0"`
	Published   bool   `json:"published"`
}

type galleryUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=300"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,min=1,max=2048"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	Position    *int64  `json:"order" validate:"omitempty,gte=0"`
	Published   *bool   `json:"published"`
}

// AdminListGallery returns every gallery item including unpublished ones.
func (h *Handler) AdminListGallery(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListGalleryItems(r.Context())
	if err != nil {
		writeListError(w, "gallery items", err)
		return
	}
	if items == nil {
		items = []model.GalleryItem{}
	}
	WriteJSON(w, http.StatusOK, items)
}

// AdminGetGalleryItem returns one gallery item.
func (h *Handler) AdminGetGalleryItem(w http.ResponseWriter, r *http.Request) {
	item, ok := fetchByID(w, r, "gallery item", func(id int64) (model.GalleryItem, error) {
		return h.store.GetGalleryItemByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// CreateGalleryItem creates a gallery item. Title must be unique.
func (h *Handler) CreateGalleryItem(w http.ResponseWriter, r *http.Request) {
	var req galleryCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.store.CreateGalleryItem(r.Context(), store.CreateGalleryItemParams{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Position:    req.Position,
		Published:   req.Published,
	})
	if err != nil {
		if isUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "a gallery item with this title already exists")
			return
		}
		writeMutationError(w, "creating gallery item", err)
		return
	}

	h.invalidatePublic(r, "gallery")
	WriteJSON(w, http.StatusCreated, item)
}

// UpdateGalleryItem applies a partial update.
func (h *Handler) UpdateGalleryItem(w http.ResponseWriter, r *http.Request) {
	item, ok := fetchByID(w, r, "gallery item", func(id int64) (model.GalleryItem, error) {
		return h.store.GetGalleryItemByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req galleryUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	arg := store.UpdateGalleryItemParams{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		ImageURL:    item.ImageURL,
		Category:    item.Category,
		Position:    item.Position,
		Published:   item.Published,
	}
	if req.Title != nil {
		arg.Title = *req.Title
	}
	if req.Description != nil {
		arg.Description = *req.Description
	}
	if req.ImageURL != nil {
		arg.ImageURL = *req.ImageURL
	}
	if req.Category != nil {
		arg.Category = *req.Category
	}
	if req.Position != nil {
		arg.Position = *req.Position
	}
	if req.Published != nil {
		arg.Published = *req.Published
	}

	updated, err := h.store.UpdateGalleryItem(r.Context(), arg)
	if err != nil {
		if isUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "a gallery item with this title already exists")
			return
		}
		writeMutationError(w, "updating gallery item", err)
		return
	}

	h.invalidatePublic(r, "gallery")
	WriteJSON(w, http.StatusOK, updated)
}

// DeleteGalleryItem removes a gallery item.
func (h *Handler) DeleteGalleryItem(w http.ResponseWriter, r *http.Request) {
	if deleteByID(w, r, "gallery item", func(id int64) error {
		return h.store.DeleteGalleryItem(r.Context(), id)
	}) {
		h.invalidatePublic(r, "gallery")
	}
}

// PublicListGallery returns published gallery items.
func (h *Handler) PublicListGallery(w http.ResponseWriter, r *http.Request) {
	cachedPublicList(h, w, r, "gallery", func() ([]model.GalleryItem, error) {
		return h.store.ListPublishedGalleryItems(r.Context())
	})
}
