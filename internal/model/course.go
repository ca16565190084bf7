// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Course semesters
const (
	SemesterSpring = "Spring"
	SemesterSummer = "Summer"
	SemesterFall   = "Fall"
	SemesterWinter = "Winter"
)

// CourseSemesters lists all valid course semesters.
var CourseSemesters = []string{SemesterSpring, SemesterSummer, SemesterFall, SemesterWinter}

// Course year and credit bounds.
const (
	CourseYearMin    = 2000
	CourseYearMax    = 2100
	CourseCreditsMin = 0
	CourseCreditsMax = 10
)

// Course is a taught course on the courses page. Code is unique ("COSE474").
type Course struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Semester    string    `json:"semester"`
	Year        int64     `json:"year"`
	Instructor  string    `json:"instructor"`
	Credits     int64     `json:"credits"`
	Syllabus    string    `json:"syllabus"`
	Position    int64     `json:"order"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
