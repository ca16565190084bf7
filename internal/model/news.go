// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// NewsItem is a dated announcement shown on the home page. Date is a
// free-text display string ("Aug 2025"), not a parsed timestamp.
type NewsItem struct {
	ID          int64      `json:"id"`
	Date        string     `json:"date"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Position    int64      `json:"order"`
	Links       []NewsLink `json:"links"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewsLink is a child link of a news item. Links have no independent
// lifecycle: updates replace the whole set.
type NewsLink struct {
	ID         int64  `json:"id"`
	NewsItemID int64  `json:"news_item_id"`
	Text       string `json:"text"`
	URL        string `json:"url"`
}
