// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/mllab/labsite/internal/model"
)

const courseColumns = `id, code, title, description, semester, year, instructor, credits, syllabus, position, published, created_at, updated_at`

func scanCourse(row interface{ Scan(...any) error }) (model.Course, error) {
	var c model.Course
	err := row.Scan(&c.ID, &c.Code, &c.Title, &c.Description, &c.Semester,
		&c.Year, &c.Instructor, &c.Credits, &c.Syllabus, &c.Position,
		&c.Published, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func collectCourses(rows *sql.Rows) ([]model.Course, error) {
	defer rows.Close()
	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// CreateCourseParams holds the fields for CreateCourse.
type CreateCourseParams struct {
	Code        string
	Title       string
	Description string
	Semester    string
	Year        int64
	Instructor  string
	Credits     int64
	Syllabus    string
	Position    int64
	Published   bool
}

// CreateCourse inserts a new course.
func (q *Queries) CreateCourse(ctx context.Context, arg CreateCourseParams) (model.Course, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO courses (code, title, description, semester, year, instructor, credits, syllabus, position, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+courseColumns,
		arg.Code, arg.Title, arg.Description, arg.Semester, arg.Year,
		arg.Instructor, arg.Credits, arg.Syllabus, arg.Position, arg.Published, now, now)
	return scanCourse(row)
}

// GetCourseByID fetches a course by primary key.
func (q *Queries) GetCourseByID(ctx context.Context, id int64) (model.Course, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	return scanCourse(row)
}

// ListCourses returns all courses in display order.
func (q *Queries) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY position ASC, code ASC`)
	if err != nil {
		return nil, err
	}
	return collectCourses(rows)
}

// ListPublishedCourses returns published courses in display order.
func (q *Queries) ListPublishedCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE published = 1 ORDER BY position ASC, code ASC`)
	if err != nil {
		return nil, err
	}
	return collectCourses(rows)
}

// UpdateCourseParams holds the fields for UpdateCourse.
type UpdateCourseParams struct {
	ID          int64
	Code        string
	Title       string
	Description string
	Semester    string
	Year        int64
	Instructor  string
	Credits     int64
	Syllabus    string
	Position    int64
	Published   bool
}

// UpdateCourse replaces the mutable fields of a course.
func (q *Queries) UpdateCourse(ctx context.Context, arg UpdateCourseParams) (model.Course, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE courses SET code = ?, title = ?, description = ?, semester = ?,
			year = ?, instructor = ?, credits = ?, syllabus = ?, position = ?, published = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+courseColumns,
		arg.Code, arg.Title, arg.Description, arg.Semester, arg.Year,
		arg.Instructor, arg.Credits, arg.Syllabus, arg.Position, arg.Published,
		time.Now().UTC(), arg.ID)
	return scanCourse(row)
}

// DeleteCourse removes a course.
func (q *Queries) DeleteCourse(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
