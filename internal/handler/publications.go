// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/store"
)

type publicationCreateRequest struct {
	Title     string `json:"title" validate:"required,max=500"`
	Authors   string `json:"authors" validate:"required,max=1000"`
	Venue     string `json:"venue" validate:"required,max=300"`
	Year      int64  `json:"year" validate:"required,pubyear"`
	URL       string `json:"url" validate:"omitempty,url,max=2048"`
	PdfURL    string `json:"pdfUrl" validate:"omitempty,url,max=2048"`
	Category  string `json:"category" validate:"required,oneof=conference journal workshop"`
	Position  int64  `json:"order" validate:"gte=0"`
	Published bool   `json:"published"`
}

type publicationUpdateRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=1,max=500"`
	Authors   *string `json:"authors" validate:"omitempty,min=1,max=1000"`
	Venue     *string `json:"venue" validate:"omitempty,min=1,max=300"`
	Year      *int64  `json:"year" validate:"omitempty,pubyear"`
	URL       *string `json:"url" validate:"omitempty,url,max=2048"`
	PdfURL    *string `json:"pdfUrl" validate:"omitempty,url,max=2048"`
	Category  *string `json:"category" validate:"omitempty,oneof=conference journal workshop"`
	Position  *int64  `json:"order" validate:"omitempty,gte=0"`
	Published *bool   `json:"published"`
}

// AdminListPublications returns every publication including unpublished ones.
func (h *Handler) AdminListPublications(w http.ResponseWriter, r *http.Request) {
	pubs, err := h.store.ListPublications(r.Context())
	if err != nil {
		writeListError(w, "publications", err)
		return
	}
	if pubs == nil {
		pubs = []model.Publication{}
	}
	WriteJSON(w, http.StatusOK, pubs)
}

// AdminGetPublication returns one publication.
func (h *Handler) AdminGetPublication(w http.ResponseWriter, r *http.Request) {
	pub, ok := fetchByID(w, r, "publication", func(id int64) (model.Publication, error) {
		return h.store.GetPublicationByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, pub)
}

// CreatePublication creates a publication.
func (h *Handler) CreatePublication(w http.ResponseWriter, r *http.Request) {
	var req publicationCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pub, err := h.store.CreatePublication(r.Context(), store.CreatePublicationParams{
		Title:     req.Title,
		Authors:   req.Authors,
		Venue:     req.Venue,
		Year:      req.Year,
		URL:       req.URL,
		PdfURL:    req.PdfURL,
		Category:  req.Category,
		Position:  req.Position,
		Published: req.Published,
	})
	if err != nil {
		if isUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "this publication already exists")
			return
		}
		writeMutationError(w, "creating publication", err)
		return
	}

	h.invalidatePublic(r, "publications")
	WriteJSON(w, http.StatusCreated, pub)
}

// UpdatePublication applies a partial update.
func (h *Handler) UpdatePublication(w http.ResponseWriter, r *http.Request) {
	pub, ok := fetchByID(w, r, "publication", func(id int64) (model.Publication, error) {
		return h.store.GetPublicationByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req publicationUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	arg := store.UpdatePublicationParams{
		ID:        pub.ID,
		Title:     pub.Title,
		Authors:   pub.Authors,
		Venue:     pub.Venue,
		Year:      pub.Year,
		URL:       pub.URL,
		PdfURL:    pub.PdfURL,
		Category:  pub.Category,
		Position:  pub.Position,
		Published: pub.Published,
	}
	if req.Title != nil {
		arg.Title = *req.Title
	}
	if req.Authors != nil {
		arg.Authors = *req.Authors
	}
	if req.Venue != nil {
		arg.Venue = *req.Venue
	}
	if req.Year != nil {
		arg.Year = *req.Year
	}
	if req.URL != nil {
		arg.URL = *req.URL
	}
	if req.PdfURL != nil {
		arg.PdfURL = *req.PdfURL
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

	updated, err := h.store.UpdatePublication(r.Context(), arg)
	if err != nil {
		if isUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "this publication already exists")
			return
		}
		writeMutationError(w, "updating publication", err)
		return
	}

	h.invalidatePublic(r, "publications")
	WriteJSON(w, http.StatusOK, updated)
}

// DeletePublication removes a publication.
func (h *Handler) DeletePublication(w http.ResponseWriter, r *http.Request) {
	if deleteByID(w, r, "publication", func(id int64) error {
		return h.store.DeletePublication(r.Context(), id)
	}) {
		h.invalidatePublic(r, "publications")
	}
}

// PublicListPublications returns published papers, newest year first.
func (h *Handler) PublicListPublications(w http.ResponseWriter, r *http.Request) {
	cachedPublicList(h, w, r, "publications", func() ([]model.Publication, error) {
		return h.store.ListPublishedPublications(r.Context())
	})
}
