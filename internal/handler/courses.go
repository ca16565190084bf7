// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/store"
)

type courseCreateRequest struct {
	Code        string `json:"code" validate:"required,max=50"`
	Title       string `json:"title" validate:"required,max=300"`
	Description string `json:"description" validate:"max=5000"`
	Semester    string `json:"semester" validate:"required,oneof=Spring Summer Fall Winter"`
	Year        int64  `json:"year" validate:"required,gte=2000,lte=2100"`
	Instructor  string `json:"instructor" validate:"max=200"`
	Credits     int64  `json:"credits" validate:"gte=0,lte=10"`
	Syllabus    string `json:"syllabus" validate:"omitempty,url,max=2048"`
	Position    int64  `json:"order" validate:"gte=0"`
	Published   bool   `json:"published"`
}

type courseUpdateRequest struct {
	Code        *string `json:"code" validate:"omitempty,min=1,max=50"`
	Title       *string `json:"title" validate:"omitempty,min=1,max=300"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Semester    *string `json:"semester" validate:"omitempty,oneof=Spring Summer Fall Winter"`
	Year        *int64  `json:"year" validate:"omitempty,gte=2000,lte=2100"`
	Instructor  *string `json:"instructor" validate:"omitempty,max=200"`
	Credits     *int64  `json:"credits" validate:"omitempty,gte=0,lte=10"`
	Syllabus    *string `json:"syllabus" validate:"omitempty,url,max=2048"`
	Position    *int64  `json:"order" validate:"omitempty,gte=0"`
	Published   *bool   `json:"published"`
}

// AdminListCourses returns every course including unpublished ones.
func (h *Handler) AdminListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.store.ListCourses(r.Context())
	if err != nil {
		writeListError(w, "courses", err)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}
	WriteJSON(w, http.StatusOK, courses)
}

// AdminGetCourse returns one course.
func (h *Handler) AdminGetCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := fetchByID(w, r, "course", func(id int64) (model.Course, error) {
		return h.store.GetCourseByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, course)
}

// CreateCourse creates a course. Code must be unique.
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	course, err := h.store.CreateCourse(r.Context(), store.CreateCourseParams{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Semester:    req.Semester,
		Year:        req.Year,
		Instructor:  req.Instructor,
		Credits:     req.Credits,
		Syllabus:    req.Syllabus,
		Position:    req.Position,
		Published:   req.Published,
	})
	if err != nil {
		if isUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "a course with this code already exists")
			return
		}
		writeMutationError(w, "creating course", err)
		return
	}

	h.invalidatePublic(r, "courses")
	WriteJSON(w, http.StatusCreated, course)
}

// UpdateCourse applies a partial update.
func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := fetchByID(w, r, "course", func(id int64) (model.Course, error) {
		return h.store.GetCourseByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req courseUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	arg := store.UpdateCourseParams{
		ID:          course.ID,
		Code:        course.Code,
		Title:       course.Title,
		Description: course.Description,
		Semester:    course.Semester,
		Year:        course.Year,
		Instructor:  course.Instructor,
		Credits:     course.Credits,
		Syllabus:    course.Syllabus,
		Position:    course.Position,
		Published:   course.Published,
	}
	if req.Code != nil {
		arg.Code = *req.Code
	}
	if req.Title != nil {
		arg.Title = *req.Title
	}
	if req.Description != nil {
		arg.Description = *req.Description
	}
	if req.Semester != nil {
		arg.Semester = *req.Semester
	}
	if req.Year != nil {
		arg.Year = *req.Year
	}
	if req.Instructor != nil {
		arg.Instructor = *req.Instructor
	}
	if req.Credits != nil {
		arg.Credits = *req.Credits
	}
	if req.Syllabus != nil {
		arg.Syllabus = *req.Syllabus
	}
	if req.Position != nil {
		arg.Position = *req.Position
	}
	if req.Published != nil {
		arg.Published = *req.Published
	}

	updated, err := h.store.UpdateCourse(r.Context(), arg)
	if err != nil {
		if isUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "a course with this code already exists")
			return
		}
		writeMutationError(w, "updating course", err)
		return
	}

	h.invalidatePublic(r, "courses")
	WriteJSON(w, http.StatusOK, updated)
}

// DeleteCourse removes a course.
func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	if deleteByID(w, r, "course", func(id int64) error {
		return h.store.DeleteCourse(r.Context(), id)
	}) {
		h.invalidatePublic(r, "courses")
	}
}

// PublicListCourses returns published courses.
func (h *Handler) PublicListCourses(w http.ResponseWriter, r *http.Request) {
	cachedPublicList(h, w, r, "courses", func() ([]model.Course, error) {
		return h.store.ListPublishedCourses(r.Context())
	})
}
