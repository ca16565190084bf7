// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Publication categories
const (
	PubConference = "conference"
	PubJournal    = "journal"
	PubWorkshop   = "workshop"
)

// PublicationCategories lists all valid publication categories.
var PublicationCategories = []string{PubConference, PubJournal, PubWorkshop}

// Publication year bounds. The upper bound leaves room for in-press papers.
const (
	PublicationYearMin      = 1900
	PublicationYearHeadroom = 5
)

// Publication is a paper on the publications page. The (Title, Authors,
// Venue) triple is unique; the seeder upserts on that key.
type Publication struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Authors   string    `json:"authors"`
	Venue     string    `json:"venue"`
	Year      int64     `json:"year"`
	URL       string    `json:"url"`
	PdfURL    string    `json:"pdfUrl"`
	Category  string    `json:"category"`
	Position  int64     `json:"order"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
