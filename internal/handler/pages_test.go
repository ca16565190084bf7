// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"fmt"
	"net/http"
	"testing"
)

type pageBody struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

func createPage(t *testing.T, env *testEnv, cookie *http.Cookie, body map[string]any) pageBody {
	t.Helper()
	resp := env.request(t, http.MethodPost, "/api/admin/pages", body, cookie)
	wantStatus(t, resp, http.StatusCreated)
	return decodeBody[pageBody](t, resp)
}

func TestCreatePageDerivesSlug(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	page := createPage(t, env, cookie, map[string]any{"title": "Open Positions"})
	if page.Slug != "open-positions" {
		t.Errorf("slug = %q, want open-positions", page.Slug)
	}
}

func TestCreatePageSlugConflict(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	createPage(t, env, cookie, map[string]any{"title": "Research", "slug": "research"})
	resp := env.request(t, http.MethodPost, "/api/admin/pages", map[string]any{
		"title": "Other", "slug": "research",
	}, cookie)
	wantStatus(t, resp, http.StatusConflict)
}

func TestPageContentSanitized(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	page := createPage(t, env, cookie, map[string]any{
		"title":   "About",
		"content": `<p>hello</p><script>alert(1)</script>`,
	})
	if page.Content != "<p>hello</p>" {
		t.Errorf("content = %q, want the script stripped", page.Content)
	}
}

func TestPublishToggleIdempotent(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	page := createPage(t, env, cookie, map[string]any{"title": "Draft Page"})
	path := fmt.Sprintf("/api/admin/pages/%d", page.ID)

	for i := 0; i < 2; i++ {
		resp := env.request(t, http.MethodPut, path, map[string]any{"published": true}, cookie)
		wantStatus(t, resp, http.StatusOK)
		got := decodeBody[pageBody](t, resp)
		if !got.Published {
			t.Fatalf("pass %d: published = false, want true", i+1)
		}
	}
}

func TestPublicPageVisibility(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	createPage(t, env, cookie, map[string]any{"title": "Visible", "slug": "visible", "published": true})
	createPage(t, env, cookie, map[string]any{"title": "Hidden", "slug": "hidden"})

	resp := env.request(t, http.MethodGet, "/api/pages", nil, nil)
	wantStatus(t, resp, http.StatusOK)
	pages := decodeBody[[]pageBody](t, resp)
	if len(pages) != 1 || pages[0].Slug != "visible" {
		t.Errorf("public pages = %+v, want only the published one", pages)
	}

	// A draft answers exactly like a missing page.
	draft := env.request(t, http.MethodGet, "/api/pages/hidden", nil, nil)
	wantStatus(t, draft, http.StatusNotFound)
	missing := env.request(t, http.MethodGet, "/api/pages/no-such-page", nil, nil)
	wantStatus(t, missing, http.StatusNotFound)

	a := decodeBody[map[string]string](t, draft)
	b := decodeBody[map[string]string](t, missing)
	if a["error"] != b["error"] {
		t.Errorf("draft and missing answers differ: %q vs %q", a["error"], b["error"])
	}
}

func TestPublicListInvalidatedAfterMutation(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	createPage(t, env, cookie, map[string]any{"title": "First", "slug": "first", "published": true})

	// Prime the cache.
	resp := env.request(t, http.MethodGet, "/api/pages", nil, nil)
	wantStatus(t, resp, http.StatusOK)
	if got := len(decodeBody[[]pageBody](t, resp)); got != 1 {
		t.Fatalf("public pages = %d, want 1", got)
	}

	createPage(t, env, cookie, map[string]any{"title": "Second", "slug": "second", "published": true})

	resp = env.request(t, http.MethodGet, "/api/pages", nil, nil)
	wantStatus(t, resp, http.StatusOK)
	if got := len(decodeBody[[]pageBody](t, resp)); got != 2 {
		t.Errorf("public pages = %d after create, want 2", got)
	}
}

func TestDeletePageCascadesSections(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	page := createPage(t, env, cookie, map[string]any{"title": "Doomed", "slug": "doomed"})
	resp := env.request(t, http.MethodPost, "/api/admin/sections", map[string]any{
		"page_id": page.ID,
		"title":   "Body",
		"layout":  "full-width",
		"content": "<p>text</p>",
	}, cookie)
	wantStatus(t, resp, http.StatusCreated)

	del := env.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/pages/%d", page.ID), nil, cookie)
	wantStatus(t, del, http.StatusNoContent)

	sections := env.request(t, http.MethodGet, "/api/admin/sections", nil, cookie)
	wantStatus(t, sections, http.StatusOK)
	if got := decodeBody[[]map[string]any](t, sections); len(got) != 0 {
		t.Errorf("sections = %d after page delete, want 0", len(got))
	}
}
