// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mllab/labsite/internal/model"
)

const settingsColumns = `id, show_news_carousel, show_recruitment_banner, updated_at`

func scanSettings(row interface{ Scan(...any) error }) (model.SiteSettings, error) {
	var s model.SiteSettings
	err := row.Scan(&s.ID, &s.ShowNewsCarousel, &s.ShowRecruitmentBanner, &s.UpdatedAt)
	return s, err
}

// GetSiteSettings returns the singleton settings row, creating it with
// defaults on first read.
func (q *Queries) GetSiteSettings(ctx context.Context) (model.SiteSettings, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM site_settings WHERE id = ?`, model.SettingsID)
	s, err := scanSettings(row)
	if errors.Is(err, sql.ErrNoRows) {
		return q.initSiteSettings(ctx)
	}
	return s, err
}

func (q *Queries) initSiteSettings(ctx context.Context) (model.SiteSettings, error) {
	def := model.DefaultSiteSettings()
	// A concurrent first read may have inserted the row already, so keep the
	// insert conflict-free and return whatever won.
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO site_settings (id, show_news_carousel, show_recruitment_banner, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET id = excluded.id
		RETURNING `+settingsColumns,
		def.ID, def.ShowNewsCarousel, def.ShowRecruitmentBanner, time.Now().UTC())
	return scanSettings(row)
}

// UpdateSiteSettingsParams holds the fields for UpdateSiteSettings.
type UpdateSiteSettingsParams struct {
	ShowNewsCarousel      bool
	ShowRecruitmentBanner bool
}

// UpdateSiteSettings writes the singleton settings row, creating it if the
// site has never been configured.
func (q *Queries) UpdateSiteSettings(ctx context.Context, arg UpdateSiteSettingsParams) (model.SiteSettings, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO site_settings (id, show_news_carousel, show_recruitment_banner, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			show_news_carousel = excluded.show_news_carousel,
			show_recruitment_banner = excluded.show_recruitment_banner,
			updated_at = excluded.updated_at
		RETURNING `+settingsColumns,
		model.SettingsID, arg.ShowNewsCarousel, arg.ShowRecruitmentBanner, time.Now().UTC())
	return scanSettings(row)
}
