// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// SettingsID is the fixed primary key of the single site settings row.
const SettingsID = "default"

// SiteSettings is the singleton row of site-wide toggles. It is lazily
// created with defaults on first read.
type SiteSettings struct {
	ID                    string    `json:"id"`
	ShowNewsCarousel      bool      `json:"showNewsCarousel"`
	ShowRecruitmentBanner bool      `json:"showRecruitmentBanner"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// DefaultSiteSettings returns the settings row created on first read.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		ID:                    SettingsID,
		ShowNewsCarousel:      true,
		ShowRecruitmentBanner: true,
	}
}
