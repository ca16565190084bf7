// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/mllab/labsite/internal/model"

	_ "modernc.org/sqlite"
)

// testStore opens a migrated in-memory database. In-memory SQLite lives per
// connection so the pool is pinned to one.
func testStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return NewStore(db)
}

func TestSeedIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := Seed(ctx, s); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(ctx, s); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	n, err := s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("counting users: %v", err)
	}
	if n != 1 {
		t.Errorf("users = %d, want 1", n)
	}

	pubs, err := s.ListPublications(ctx)
	if err != nil {
		t.Fatalf("listing publications: %v", err)
	}
	if len(pubs) != 2 {
		t.Errorf("publications = %d, want 2 after double seed", len(pubs))
	}

	u, err := s.GetUserByEmail(ctx, SeedAdminEmail)
	if err != nil {
		t.Fatalf("fetching admin: %v", err)
	}
	if !u.IsAdmin() {
		t.Errorf("seed user role = %q", u.Role)
	}
}

func TestPublicationOrdering(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, p := range []CreatePublicationParams{
		{Title: "B paper", Authors: "x", Venue: "V", Year: 2024, Published: true},
		{Title: "A paper", Authors: "x", Venue: "V", Year: 2024, Published: true},
		{Title: "Old paper", Authors: "x", Venue: "V", Year: 2023, Published: true},
		{Title: "New paper", Authors: "x", Venue: "V", Year: 2025, Published: true},
	} {
		if _, err := s.CreatePublication(ctx, p); err != nil {
			t.Fatalf("creating %q: %v", p.Title, err)
		}
	}

	pubs, err := s.ListPublishedPublications(ctx)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	got := make([]string, len(pubs))
	for i, p := range pubs {
		got[i] = p.Title
	}
	want := []string{"New paper", "A paper", "B paper", "Old paper"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestPublicationUpsertKeepsID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	arg := CreatePublicationParams{Title: "T", Authors: "A", Venue: "V", Year: 2024}
	first, err := s.UpsertPublication(ctx, arg)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	arg.Year = 2025
	second, err := s.UpsertPublication(ctx, arg)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a new row: %d != %d", second.ID, first.ID)
	}
	if second.Year != 2025 {
		t.Errorf("Year = %d, want 2025", second.Year)
	}
}

func TestReplaceNewsLinks(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	item, err := s.CreateNewsItem(ctx, CreateNewsItemParams{Title: "News"})
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}

	if err := s.ReplaceNewsLinks(ctx, item.ID, []NewsLinkInput{
		{Text: "a", URL: "https://a.example"},
		{Text: "b", URL: "https://b.example"},
	}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := s.ReplaceNewsLinks(ctx, item.ID, []NewsLinkInput{
		{Text: "c", URL: "https://c.example"},
	}); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	links, err := s.ListNewsLinksByItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("listing links: %v", err)
	}
	if len(links) != 1 || links[0].Text != "c" {
		t.Errorf("links = %+v, want single link c", links)
	}
}

func TestNewsLinksCascadeOnDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	item, err := s.CreateNewsItem(ctx, CreateNewsItemParams{Title: "Doomed"})
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}
	if err := s.ReplaceNewsLinks(ctx, item.ID, []NewsLinkInput{{Text: "x", URL: "https://x"}}); err != nil {
		t.Fatalf("adding links: %v", err)
	}
	if err := s.DeleteNewsItem(ctx, item.ID); err != nil {
		t.Fatalf("deleting item: %v", err)
	}

	links, err := s.ListAllNewsLinks(ctx)
	if err != nil {
		t.Fatalf("listing links: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("orphaned links remain: %+v", links)
	}
}

func TestSectionsCascadeOnPageDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	page, err := s.CreatePage(ctx, CreatePageParams{Slug: "tmp", Title: "Tmp"})
	if err != nil {
		t.Fatalf("creating page: %v", err)
	}
	sec, err := s.CreateSection(ctx, CreateSectionParams{
		PageID: page.ID, Title: "S", Layout: model.LayoutFullWidth,
	})
	if err != nil {
		t.Fatalf("creating section: %v", err)
	}
	if err := s.DeletePage(ctx, page.ID); err != nil {
		t.Fatalf("deleting page: %v", err)
	}
	if _, err := s.GetSectionByID(ctx, sec.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("section survived page delete: err = %v", err)
	}
}

func TestSectionOrderTieBreak(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	page, err := s.CreatePage(ctx, CreatePageParams{Slug: "p", Title: "P"})
	if err != nil {
		t.Fatalf("creating page: %v", err)
	}
	// Same position twice: insertion order must win.
	for _, title := range []string{"first", "second"} {
		if _, err := s.CreateSection(ctx, CreateSectionParams{
			PageID: page.ID, Title: title, Layout: model.LayoutFullWidth, Position: 5,
		}); err != nil {
			t.Fatalf("creating section %q: %v", title, err)
		}
	}

	secs, err := s.ListSectionsByPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("listing sections: %v", err)
	}
	if len(secs) != 2 || secs[0].Title != "first" || secs[1].Title != "second" {
		t.Errorf("tie break broken: %+v", secs)
	}
}

func TestSiteSettingsLazyInit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	got, err := s.GetSiteSettings(ctx)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if got.ID != model.SettingsID || !got.ShowNewsCarousel || !got.ShowRecruitmentBanner {
		t.Errorf("defaults = %+v", got)
	}

	updated, err := s.UpdateSiteSettings(ctx, UpdateSiteSettingsParams{
		ShowNewsCarousel:      false,
		ShowRecruitmentBanner: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ShowNewsCarousel {
		t.Error("ShowNewsCarousel not persisted")
	}

	again, err := s.GetSiteSettings(ctx)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if again.ShowNewsCarousel {
		t.Error("re-read lost the update")
	}
}

func TestDeleteMissingRowReportsNoRows(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.DeletePage(ctx, 9999); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("DeletePage err = %v, want sql.ErrNoRows", err)
	}
	if err := s.DeleteCourse(ctx, 9999); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("DeleteCourse err = %v, want sql.ErrNoRows", err)
	}
}

func TestPersonEmailUnique(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	email := sql.NullString{String: "dup@example.org", Valid: true}
	if _, err := s.CreatePerson(ctx, CreatePersonParams{Name: "A", Category: model.PersonStudent, Email: email}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := s.CreatePerson(ctx, CreatePersonParams{Name: "B", Category: model.PersonStudent, Email: email}); err == nil {
		t.Error("duplicate email accepted")
	}

	// NULL emails do not collide.
	for _, name := range []string{"C", "D"} {
		if _, err := s.CreatePerson(ctx, CreatePersonParams{Name: name, Category: model.PersonAlumni}); err != nil {
			t.Fatalf("creating %q without email: %v", name, err)
		}
	}
}

func TestPruneEvents(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.CreateEvent(ctx, CreateEventParams{
		Level: model.EventLevelInfo, Message: "recent", Source: model.EventSourceSystem,
	}); err != nil {
		t.Fatalf("creating event: %v", err)
	}

	removed, err := s.PruneEvents(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 0 {
		t.Errorf("pruned recent event: removed = %d", removed)
	}

	removed, err = s.PruneEvents(ctx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}
