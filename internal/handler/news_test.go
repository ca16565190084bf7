// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"fmt"
	"net/http"
	"testing"
)

type newsBody struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Links []struct {
		Text string `json:"text"`
		URL  string `json:"url"`
	} `json:"links"`
}

func TestNewsLinkReplacementIsExact(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.request(t, http.MethodPost, "/api/admin/news", map[string]any{
		"date":  "2026-08-01",
		"title": "Paper accepted",
		"links": []map[string]string{
			{"text": "arXiv", "url": "https://arxiv.org/abs/1"},
			{"text": "Code", "url": "https://example.com/code"},
		},
	}, cookie)
	wantStatus(t, resp, http.StatusCreated)
	item := decodeBody[newsBody](t, resp)
	if len(item.Links) != 2 {
		t.Fatalf("links = %d after create, want 2", len(item.Links))
	}

	resp = env.request(t, http.MethodPut, fmt.Sprintf("/api/admin/news/%d", item.ID), map[string]any{
		"links": []map[string]string{
			{"text": "Camera-ready", "url": "https://example.com/final"},
		},
	}, cookie)
	wantStatus(t, resp, http.StatusOK)
	updated := decodeBody[newsBody](t, resp)

	if len(updated.Links) != 1 {
		t.Fatalf("links = %d after replacement, want exactly 1", len(updated.Links))
	}
	if updated.Links[0].Text != "Camera-ready" {
		t.Errorf("link text = %q, want Camera-ready", updated.Links[0].Text)
	}
	if updated.Title != "Paper accepted" {
		t.Errorf("title = %q, update without title must keep it", updated.Title)
	}
}

func TestNewsUpdateWithoutLinksKeepsThem(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.request(t, http.MethodPost, "/api/admin/news", map[string]any{
		"title": "Talk announced",
		"links": []map[string]string{{"text": "Slides", "url": "https://example.com/slides"}},
	}, cookie)
	wantStatus(t, resp, http.StatusCreated)
	item := decodeBody[newsBody](t, resp)

	resp = env.request(t, http.MethodPut, fmt.Sprintf("/api/admin/news/%d", item.ID), map[string]any{
		"title": "Talk rescheduled",
	}, cookie)
	wantStatus(t, resp, http.StatusOK)
	updated := decodeBody[newsBody](t, resp)

	if len(updated.Links) != 1 {
		t.Errorf("links = %d, update without a links field must not touch them", len(updated.Links))
	}
}

func TestNewsLinksAlwaysAnArray(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.request(t, http.MethodPost, "/api/admin/news", map[string]any{
		"title": "No links here",
	}, cookie)
	wantStatus(t, resp, http.StatusCreated)
	item := decodeBody[newsBody](t, resp)
	if item.Links == nil {
		t.Error("links = null, want an empty array")
	}

	list := env.request(t, http.MethodGet, "/api/news", nil, nil)
	wantStatus(t, list, http.StatusOK)
	items := decodeBody[[]newsBody](t, list)
	if len(items) != 1 || items[0].Links == nil {
		t.Errorf("public news = %+v, want one item with an empty links array", items)
	}
}

func TestNewsLinkValidation(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.request(t, http.MethodPost, "/api/admin/news", map[string]any{
		"title": "Broken",
		"links": []map[string]string{{"text": "", "url": "https://example.com"}},
	}, cookie)
	wantStatus(t, resp, http.StatusBadRequest)
}
