// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/store"
)

type personCreateRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Title     string `json:"title" validate:"max=200"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"max=50"`
	Website   string `json:"website" validate:"omitempty,url,max=2048"`
	Image     string `json:"image" validate:"max=2048"`
	Bio       string `json:"bio" validate:"max=5000"`
	Category  string `json:"category" validate:"required,oneof=faculty student alumni"`
	Position  int64  `json:"order" validate:"gte=0"`
	Published bool   `json:"published"`
}

type personUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Title     *string `json:"title" validate:"omitempty,max=200"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Website   *string `json:"website" validate:"omitempty,url,max=2048"`
	Image     *string `json:"image" validate:"omitempty,max=2048"`
	Bio       *string `json:"bio" validate:"omitempty,max=5000"`
	Category  *string `json:"category" validate:"omitempty,oneof=faculty student alumni"`
	Position  *int64  `json:"order" validate:"omitempty,gte=0"`
	Published *bool   `json:"published"`
}

// personResponse flattens the nullable email column to the "" convention
// the rest of the optional fields use.
type personResponse struct {
	model.Person
	Email string `json:"email"`
}

func toPersonResponse(p model.Person) personResponse {
	return personResponse{Person: p, Email: p.Email.String}
}

func toPersonResponses(people []model.Person) []personResponse {
	out := make([]personResponse, 0, len(people))
	for _, p := range people {
		out = append(out, toPersonResponse(p))
	}
	return out
}

// AdminListPeople returns every lab member including unpublished ones.
func (h *Handler) AdminListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.store.ListPeople(r.Context())
	if err != nil {
		writeListError(w, "people", err)
		return
	}
	WriteJSON(w, http.StatusOK, toPersonResponses(people))
}

// AdminGetPerson returns one lab member.
func (h *Handler) AdminGetPerson(w http.ResponseWriter, r *http.Request) {
	person, ok := fetchByID(w, r, "person", func(id int64) (model.Person, error) {
		return h.store.GetPersonByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, toPersonResponse(person))
}

// CreatePerson creates a lab member.
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req personCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	person, err := h.store.CreatePerson(r.Context(), store.CreatePersonParams{
		Name:      req.Name,
		Title:     req.Title,
		Email:     nullableString(req.Email),
		Phone:     req.Phone,
		Website:   req.Website,
		Image:     req.Image,
		Bio:       req.Bio,
		Category:  req.Category,
		Position:  req.Position,
		Published: req.Published,
	})
	if err != nil {
		if isUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "a person with this email already exists")
			return
		}
		writeMutationError(w, "creating person", err)
		return
	}

	h.invalidatePublic(r, "people")
	WriteJSON(w, http.StatusCreated, toPersonResponse(person))
}

// UpdatePerson applies a partial update and returns the canonical record.
func (h *Handler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	person, ok := fetchByID(w, r, "person", func(id int64) (model.Person, error) {
		return h.store.GetPersonByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req personUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	arg := store.UpdatePersonParams{
		ID:        person.ID,
		Name:      person.Name,
		Title:     person.Title,
		Email:     person.Email,
		Phone:     person.Phone,
		Website:   person.Website,
		Image:     person.Image,
		Bio:       person.Bio,
		Category:  person.Category,
		Position:  person.Position,
		Published: person.Published,
	}
	if req.Name != nil {
		arg.Name = *req.Name
	}
	if req.Title != nil {
		arg.Title = *req.Title
	}
	if req.Email != nil {
		arg.Email = nullableString(*req.Email)
	}
	if req.Phone != nil {
		arg.Phone = *req.Phone
	}
	if req.Website != nil {
		arg.Website = *req.Website
	}
	if req.Image != nil {
		arg.Image = *req.Image
	}
	if req.Bio != nil {
		arg.Bio = *req.Bio
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

	updated, err := h.store.UpdatePerson(r.Context(), arg)
	if err != nil {
		if isUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "a person with this email already exists")
			return
		}
		writeMutationError(w, "updating person", err)
		return
	}

	h.invalidatePublic(r, "people")
	WriteJSON(w, http.StatusOK, toPersonResponse(updated))
}

// DeletePerson removes a lab member.
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	if deleteByID(w, r, "person", func(id int64) error {
		return h.store.DeletePerson(r.Context(), id)
	}) {
		h.invalidatePublic(r, "people")
	}
}

// PublicListPeople returns published lab members.
func (h *Handler) PublicListPeople(w http.ResponseWriter, r *http.Request) {
	cachedPublicList(h, w, r, "people", func() ([]personResponse, error) {
		people, err := h.store.ListPublishedPeople(r.Context())
		if err != nil {
			return nil, err
		}
		return toPersonResponses(people), nil
	})
}
