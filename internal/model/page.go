// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Section layouts
const (
	LayoutFullWidth = "full-width"
	LayoutCentered  = "centered"
	LayoutHighlight = "highlight"
	LayoutGrid      = "grid"
)

// SectionLayouts lists all valid section layouts.
var SectionLayouts = []string{LayoutFullWidth, LayoutCentered, LayoutHighlight, LayoutGrid}

// IsValidLayout reports whether the given layout is one of the known values.
func IsValidLayout(layout string) bool {
	switch layout {
	case LayoutFullWidth, LayoutCentered, LayoutHighlight, LayoutGrid:
		return true
	}
	return false
}

// Page represents a top-level site page that owns an ordered list of sections.
type Page struct {
	ID        int64          `json:"id"`
	Slug      string         `json:"slug"`
	Title     string         `json:"title"`
	Content   sql.NullString `json:"-"`
	Published bool           `json:"published"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Section is a titled content block owned by a page. Its content is
// polymorphic on Layout: full-width and centered carry sanitized HTML,
// highlight carries plain text, grid carries a JSON item list.
type Section struct {
	ID        int64     `json:"id"`
	PageID    int64     `json:"page_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Layout    string    `json:"layout"`
	Position  int64     `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GridItem is one cell of a grid-layout section.
type GridItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	LinkURL     string `json:"linkUrl,omitempty"`
}

// SectionContent is the parsed form of Section.Content, tagged by layout.
// Exactly one of HTML, Text, or Items is meaningful for a given layout.
type SectionContent struct {
	Layout string
	HTML   string
	Text   string
	Items  []GridItem
}

// ParseSectionContent interprets a raw content string according to layout.
func ParseSectionContent(layout, raw string) (SectionContent, error) {
	if !IsValidLayout(layout) {
		return SectionContent{}, fmt.Errorf("unknown section layout %q", layout)
	}

	sc := SectionContent{Layout: layout}
	switch layout {
	case LayoutGrid:
		if raw == "" {
			return sc, nil
		}
		if err := json.Unmarshal([]byte(raw), &sc.Items); err != nil {
			return SectionContent{}, fmt.Errorf("parsing grid content: %w", err)
		}
	case LayoutHighlight:
		sc.Text = raw
	default:
		sc.HTML = raw
	}
	return sc, nil
}

// Serialize converts the parsed content back to its stored string form.
func (sc SectionContent) Serialize() (string, error) {
	switch sc.Layout {
	case LayoutGrid:
		if sc.Items == nil {
			return "", nil
		}
		b, err := json.Marshal(sc.Items)
		if err != nil {
			return "", fmt.Errorf("serializing grid content: %w", err)
		}
		return string(b), nil
	case LayoutHighlight:
		return sc.Text, nil
	default:
		return sc.HTML, nil
	}
}
