// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"fmt"
	"net/http"
	"testing"
)

type sectionBody struct {
	ID      int64  `json:"id"`
	PageID  int64  `json:"page_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Layout  string `json:"layout"`
}

func TestCreateSectionRejectsMissingPage(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.request(t, http.MethodPost, "/api/admin/sections", map[string]any{
		"page_id": 9999,
		"title":   "Orphan",
		"layout":  "full-width",
	}, cookie)
	wantStatus(t, resp, http.StatusBadRequest)
}

func TestCreateSectionRejectsUnknownLayout(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	page := createPage(t, env, cookie, map[string]any{"title": "Host"})

	resp := env.request(t, http.MethodPost, "/api/admin/sections", map[string]any{
		"page_id": page.ID,
		"title":   "Oddball",
		"layout":  "sidebar",
	}, cookie)
	wantStatus(t, resp, http.StatusBadRequest)
}

func TestSectionHTMLSanitized(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	page := createPage(t, env, cookie, map[string]any{"title": "Host"})

	resp := env.request(t, http.MethodPost, "/api/admin/sections", map[string]any{
		"page_id": page.ID,
		"title":   "Body",
		"layout":  "full-width",
		"content": `<p>ok</p><script>alert(1)</script>`,
	}, cookie)
	wantStatus(t, resp, http.StatusCreated)
	section := decodeBody[sectionBody](t, resp)
	if section.Content != "<p>ok</p>" {
		t.Errorf("content = %q, want the script stripped", section.Content)
	}
}

func TestGridSectionContentMustParse(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	page := createPage(t, env, cookie, map[string]any{"title": "Host"})

	resp := env.request(t, http.MethodPost, "/api/admin/sections", map[string]any{
		"page_id": page.ID,
		"title":   "Projects",
		"layout":  "grid",
		"content": "not json",
	}, cookie)
	wantStatus(t, resp, http.StatusBadRequest)

	resp = env.request(t, http.MethodPost, "/api/admin/sections", map[string]any{
		"page_id": page.ID,
		"title":   "Projects",
		"layout":  "grid",
		"content": `[{"title":"Vision","description":"CV research"}]`,
	}, cookie)
	wantStatus(t, resp, http.StatusCreated)
}

func TestSectionListFilterByPage(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	first := createPage(t, env, cookie, map[string]any{"title": "First"})
	second := createPage(t, env, cookie, map[string]any{"title": "Second"})

	for _, pageID := range []int64{first.ID, first.ID, second.ID} {
		resp := env.request(t, http.MethodPost, "/api/admin/sections", map[string]any{
			"page_id": pageID,
			"title":   "Block",
			"layout":  "highlight",
			"content": "We are hiring",
		}, cookie)
		wantStatus(t, resp, http.StatusCreated)
	}

	resp := env.request(t, http.MethodGet, fmt.Sprintf("/api/admin/sections?page_id=%d", first.ID), nil, cookie)
	wantStatus(t, resp, http.StatusOK)
	if got := decodeBody[[]sectionBody](t, resp); len(got) != 2 {
		t.Errorf("filtered sections = %d, want 2", len(got))
	}

	resp = env.request(t, http.MethodGet, "/api/admin/sections", nil, cookie)
	wantStatus(t, resp, http.StatusOK)
	if got := decodeBody[[]sectionBody](t, resp); len(got) != 3 {
		t.Errorf("all sections = %d, want 3", len(got))
	}
}
