// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/mllab/labsite/internal/cache"
	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/store"
)

type settingsUpdateRequest struct {
	ShowNewsCarousel      *bool `json:"showNewsCarousel"`
	ShowRecruitmentBanner *bool `json:"showRecruitmentBanner"`
}

// GetSiteSettings returns the site-wide toggles, creating the row with
// defaults on first read. Used by both the public site and the console.
func (h *Handler) GetSiteSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSiteSettings(r.Context())
	if err != nil {
		writeMutationError(w, "loading site settings", err)
		return
	}
	WriteJSON(w, http.StatusOK, settings)
}

// UpdateSiteSettings applies a partial update to the singleton row.
func (h *Handler) UpdateSiteSettings(w http.ResponseWriter, r *http.Request) {
	current, err := h.store.GetSiteSettings(r.Context())
	if err != nil {
		writeMutationError(w, "loading site settings", err)
		return
	}

	var req settingsUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	arg := store.UpdateSiteSettingsParams{
		ShowNewsCarousel:      current.ShowNewsCarousel,
		ShowRecruitmentBanner: current.ShowRecruitmentBanner,
	}
	if req.ShowNewsCarousel != nil {
		arg.ShowNewsCarousel = *req.ShowNewsCarousel
	}
	if req.ShowRecruitmentBanner != nil {
		arg.ShowRecruitmentBanner = *req.ShowRecruitmentBanner
	}

	updated, err := h.store.UpdateSiteSettings(r.Context(), arg)
	if err != nil {
		writeMutationError(w, "updating site settings", err)
		return
	}

	h.invalidatePublic(r, "settings")
	WriteJSON(w, http.StatusOK, updated)
}

// PublicGetSiteSettings is the cached public view of the settings row.
func (h *Handler) PublicGetSiteSettings(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "public:settings"
	if cached, err := cache.GetJSON[model.SiteSettings](r.Context(), h.cache, cacheKey); err == nil {
		WriteJSON(w, http.StatusOK, cached)
		return
	}

	settings, err := h.store.GetSiteSettings(r.Context())
	if err != nil {
		writeMutationError(w, "loading site settings", err)
		return
	}
	if err := cache.SetJSON(r.Context(), h.cache, cacheKey, settings, publicCacheTTL); err != nil {
		slog.Debug("caching site settings failed", "error", err)
	}
	WriteJSON(w, http.StatusOK, settings)
}
