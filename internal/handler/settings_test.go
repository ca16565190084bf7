// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"net/http"
	"testing"
)

type settingsBody struct {
	ID                    string `json:"id"`
	ShowNewsCarousel      bool   `json:"showNewsCarousel"`
	ShowRecruitmentBanner bool   `json:"showRecruitmentBanner"`
}

func TestSettingsLazyDefaults(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/settings", nil, nil)
	wantStatus(t, resp, http.StatusOK)
	got := decodeBody[settingsBody](t, resp)

	if got.ID != "default" || !got.ShowNewsCarousel || !got.ShowRecruitmentBanner {
		t.Errorf("first read = %+v, want the default toggles on", got)
	}
}

func TestSettingsPartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.request(t, http.MethodPut, "/api/admin/settings", map[string]any{
		"showNewsCarousel": false,
	}, cookie)
	wantStatus(t, resp, http.StatusOK)
	got := decodeBody[settingsBody](t, resp)

	if got.ShowNewsCarousel {
		t.Error("showNewsCarousel = true, want it switched off")
	}
	if !got.ShowRecruitmentBanner {
		t.Error("showRecruitmentBanner = false, untouched field must keep its value")
	}
}
