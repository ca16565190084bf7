// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/mllab/labsite/internal/model"
)

const personColumns = `id, name, title, email, phone, website, image, bio, category, position, published, created_at, updated_at`

func scanPerson(row interface{ Scan(...any) error }) (model.Person, error) {
	var p model.Person
	err := row.Scan(&p.ID, &p.Name, &p.Title, &p.Email, &p.Phone, &p.Website,
		&p.Image, &p.Bio, &p.Category, &p.Position, &p.Published,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectPeople(rows *sql.Rows) ([]model.Person, error) {
	defer rows.Close()
	var people []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// CreatePersonParams holds the fields for CreatePerson.
type CreatePersonParams struct {
	Name      string
	Title     string
	Email     sql.NullString
	Phone     string
	Website   string
	Image     string
	Bio       string
	Category  string
	Position  int64
	Published bool
}

// CreatePerson inserts a new lab member.
func (q *Queries) CreatePerson(ctx context.Context, arg CreatePersonParams) (model.Person, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO people (name, title, email, phone, website, image, bio, category, position, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+personColumns,
		arg.Name, arg.Title, arg.Email, arg.Phone, arg.Website, arg.Image,
		arg.Bio, arg.Category, arg.Position, arg.Published, now, now)
	return scanPerson(row)
}

// GetPersonByID fetches a person by primary key.
func (q *Queries) GetPersonByID(ctx context.Context, id int64) (model.Person, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE id = ?`, id)
	return scanPerson(row)
}

// ListPeople returns all people in display order.
func (q *Queries) ListPeople(ctx context.Context) ([]model.Person, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM people ORDER BY position ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	return collectPeople(rows)
}

// ListPublishedPeople returns published people in display order.
func (q *Queries) ListPublishedPeople(ctx context.Context) ([]model.Person, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE published = 1 ORDER BY position ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	return collectPeople(rows)
}

// UpdatePersonParams holds the fields for UpdatePerson.
type UpdatePersonParams struct {
	ID        int64
	Name      string
	Title     string
	Email     sql.NullString
	Phone     string
	Website   string
	Image     string
	Bio       string
	Category  string
	Position  int64
	Published bool
}

// UpdatePerson replaces the mutable fields of a person.
func (q *Queries) UpdatePerson(ctx context.Context, arg UpdatePersonParams) (model.Person, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE people SET name = ?, title = ?, email = ?, phone = ?, website = ?,
			image = ?, bio = ?, category = ?, position = ?, published = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+personColumns,
		arg.Name, arg.Title, arg.Email, arg.Phone, arg.Website, arg.Image,
		arg.Bio, arg.Category, arg.Position, arg.Published, time.Now().UTC(), arg.ID)
	return scanPerson(row)
}

// DeletePerson removes a person.
func (q *Queries) DeletePerson(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM people WHERE id = ?`, id)
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
