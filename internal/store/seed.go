// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mllab/labsite/internal/auth"
	"github.com/mllab/labsite/internal/model"
)

// Seed credentials for the initial admin account. The password must be
// changed after the first login on any real deployment.
const (
	SeedAdminEmail    = "admin@mllab.korea.ac.kr"
	SeedAdminPassword = "admin123"
)

// Seed populates an empty database with the admin account and starter
// content. It is a no-op when a user already exists, except publications,
// which upsert on their (title, authors, venue) key and stay current.
func Seed(ctx context.Context, s *Store) error {
	n, err := s.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		return seedPublications(ctx, s.Queries)
	}

	slog.Info("seeding empty database")

	hash, err := auth.HashPassword(SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}
	if _, err := s.CreateUser(ctx, CreateUserParams{
		Email:        SeedAdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Name:         "Administrator",
	}); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	if err := seedPages(ctx, s); err != nil {
		return err
	}
	if err := seedNews(ctx, s); err != nil {
		return err
	}
	if err := seedPeople(ctx, s.Queries); err != nil {
		return err
	}
	if err := seedPublications(ctx, s.Queries); err != nil {
		return err
	}
	if err := seedCourses(ctx, s.Queries); err != nil {
		return err
	}
	if err := seedGallery(ctx, s.Queries); err != nil {
		return err
	}
	if _, err := s.GetSiteSettings(ctx); err != nil {
		return fmt.Errorf("initializing site settings: %w", err)
	}

	slog.Info("seed complete")
	return nil
}

func seedPages(ctx context.Context, s *Store) error {
	return s.ExecTx(ctx, func(q *Queries) error {
		home, err := q.CreatePage(ctx, CreatePageParams{
			Slug:      "home",
			Title:     "Machine Learning Lab",
			Published: true,
		})
		if err != nil {
			return fmt.Errorf("seeding home page: %w", err)
		}

		sections := []CreateSectionParams{
			{
				PageID:   home.ID,
				Title:    "Welcome",
				Content:  "<p>We study machine learning theory and its applications.</p>",
				Layout:   model.LayoutFullWidth,
				Position: 0,
			},
			{
				PageID:   home.ID,
				Title:    "We are recruiting",
				Content:  "Prospective graduate students are welcome to apply.",
				Layout:   model.LayoutHighlight,
				Position: 1,
			},
			{
				PageID: home.ID,
				Title:  "Research Areas",
				Content: `[{"title":"Deep Learning","description":"Representation learning and generative models","linkUrl":"/research"},` +
					`{"title":"Reinforcement Learning","description":"Sequential decision making","linkUrl":"/research"}]`,
				Layout:   model.LayoutGrid,
				Position: 2,
			},
		}
		for _, sec := range sections {
			if _, err := q.CreateSection(ctx, sec); err != nil {
				return fmt.Errorf("seeding section %q: %w", sec.Title, err)
			}
		}

		research, err := q.CreatePage(ctx, CreatePageParams{
			Slug:      "research",
			Title:     "Research",
			Published: true,
		})
		if err != nil {
			return fmt.Errorf("seeding research page: %w", err)
		}
		_, err = q.CreateSection(ctx, CreateSectionParams{
			PageID:  research.ID,
			Title:   "Overview",
			Content: "<p>Our group works on the foundations of learning systems.</p>",
			Layout:  model.LayoutCentered,
		})
		if err != nil {
			return fmt.Errorf("seeding research section: %w", err)
		}
		return nil
	})
}

func seedNews(ctx context.Context, s *Store) error {
	item, err := s.CreateNewsItem(ctx, CreateNewsItemParams{
		Date:        "Aug 2025",
		Title:       "Two papers accepted at NeurIPS 2025",
		Description: "Congratulations to everyone involved.",
	})
	if err != nil {
		return fmt.Errorf("seeding news: %w", err)
	}
	if err := s.ReplaceNewsLinks(ctx, item.ID, []NewsLinkInput{
		{Text: "Paper list", URL: "/publications"},
	}); err != nil {
		return fmt.Errorf("seeding news links: %w", err)
	}
	return nil
}

func seedPeople(ctx context.Context, q *Queries) error {
	people := []CreatePersonParams{
		{
			Name:      "Jane Doe",
			Title:     "Professor",
			Email:     sql.NullString{String: "jdoe@mllab.korea.ac.kr", Valid: true},
			Category:  model.PersonFaculty,
			Published: true,
		},
		{
			Name:      "Minsu Kim",
			Title:     "PhD Student",
			Category:  model.PersonStudent,
			Position:  1,
			Published: true,
		},
	}
	for _, p := range people {
		if _, err := q.CreatePerson(ctx, p); err != nil {
			return fmt.Errorf("seeding person %q: %w", p.Name, err)
		}
	}
	return nil
}

func seedPublications(ctx context.Context, q *Queries) error {
	pubs := []CreatePublicationParams{
		{
			Title:     "Scaling Laws for Sparse Expert Models",
			Authors:   "J. Doe, M. Kim",
			Venue:     "NeurIPS",
			Year:      2025,
			Category:  model.PubConference,
			Published: true,
		},
		{
			Title:     "A Survey of Curriculum Learning",
			Authors:   "M. Kim, J. Doe",
			Venue:     "JMLR",
			Year:      2024,
			Category:  model.PubJournal,
			Published: true,
		},
	}
	for _, p := range pubs {
		if _, err := q.UpsertPublication(ctx, p); err != nil {
			return fmt.Errorf("seeding publication %q: %w", p.Title, err)
		}
	}
	return nil
}

func seedCourses(ctx context.Context, q *Queries) error {
	_, err := q.CreateCourse(ctx, CreateCourseParams{
		Code:        "COSE474",
		Title:       "Deep Learning",
		Description: "Fundamentals of neural networks and modern architectures.",
		Semester:    model.SemesterFall,
		Year:        2025,
		Instructor:  "Jane Doe",
		Credits:     3,
		Published:   true,
	})
	if err != nil {
		return fmt.Errorf("seeding course: %w", err)
	}
	return nil
}

func seedGallery(ctx context.Context, q *Queries) error {
	_, err := q.CreateGalleryItem(ctx, CreateGalleryItemParams{
		Title:       "Lab retreat 2025",
		Description: "Summer retreat on Jeju Island.",
		Category:    "events",
		Published:   true,
	})
	if err != nil {
		return fmt.Errorf("seeding gallery: %w", err)
	}
	return nil
}
