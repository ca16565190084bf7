// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Person categories
const (
	PersonFaculty = "faculty"
	PersonStudent = "student"
	PersonAlumni  = "alumni"
)

// PersonCategories lists all valid person categories.
var PersonCategories = []string{PersonFaculty, PersonStudent, PersonAlumni}

// Person is a lab member listed on the people page.
// Optional string fields use "" as absent to match the wire format the
// frontend expects; Email is nullable because it carries a UNIQUE index.
type Person struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Title     string         `json:"title"`
	Email     sql.NullString `json:"-"`
	Phone     string         `json:"phone"`
	Website   string         `json:"website"`
	Image     string         `json:"image"`
	Bio       string         `json:"bio"`
	Category  string         `json:"category"`
	Position  int64          `json:"order"`
	Published bool           `json:"published"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
