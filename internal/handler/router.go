// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mllab/labsite/internal/middleware"
)

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	Handler  *Handler
	Auth     *middleware.Auth
	Limiter  *middleware.Limiter
	Smoother *middleware.Smoother

	UploadsDir    string
	IsDevelopment bool
}

// crudHandlers groups the five standard endpoints of a content collection.
type crudHandlers struct {
	List   http.HandlerFunc
	Get    http.HandlerFunc
	Create http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

func registerCRUD(r chi.Router, base string, h crudHandlers) {
	r.Get(base, h.List)
	r.Post(base, h.Create)
	r.Get(base+"/{id}", h.Get)
	r.Put(base+"/{id}", h.Update)
	r.Delete(base+"/{id}", h.Delete)
}

// NewRouter assembles the full route tree.
func NewRouter(deps RouterDeps) chi.Router {
	h := deps.Handler

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(deps.IsDevelopment)))

	r.Get("/health", h.Health)
	r.Get("/health/live", h.Health)
	r.Get("/health/ready", h.HealthReady)

	// Public content reads.
	r.Group(func(r chi.Router) {
		r.Use(deps.Limiter.Middleware(middleware.ProfilePublic))

		r.Get("/api/pages", h.PublicListPages)
		r.Get("/api/pages/{slug}", h.PublicGetPage)
		r.Get("/api/news", h.PublicListNews)
		r.Get("/api/people", h.PublicListPeople)
		r.Get("/api/publications", h.PublicListPublications)
		r.Get("/api/courses", h.PublicListCourses)
		r.Get("/api/gallery", h.PublicListGallery)
		r.Get("/api/settings", h.PublicGetSiteSettings)
	})

	// Authentication. Login gets the strictest limits, smoothed per IP so a
	// burst cannot exhaust the window instantly.
	r.Group(func(r chi.Router) {
		r.With(deps.Smoother.Middleware(), deps.Limiter.Middleware(middleware.ProfileLogin)).
			Post("/api/auth/login", h.Login)
		r.Post("/api/auth/logout", h.Logout)
		r.With(deps.Limiter.Middleware(middleware.ProfileAPI), deps.Auth.RequireAuth).
			Get("/api/auth/me", h.Me)
	})

	// Admin console.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(deps.Limiter.Middleware(middleware.ProfileAPI))
		r.Use(deps.Auth.RequireAuth)

		registerCRUD(r, "/pages", crudHandlers{
			List: h.AdminListPages, Get: h.AdminGetPage,
			Create: h.CreatePage, Update: h.UpdatePage, Delete: h.DeletePage,
		})
		registerCRUD(r, "/sections", crudHandlers{
			List: h.AdminListSections, Get: h.AdminGetSection,
			Create: h.CreateSection, Update: h.UpdateSection, Delete: h.DeleteSection,
		})
		registerCRUD(r, "/news", crudHandlers{
			List: h.AdminListNews, Get: h.AdminGetNews,
			Create: h.CreateNews, Update: h.UpdateNews, Delete: h.DeleteNews,
		})
		registerCRUD(r, "/people", crudHandlers{
			List: h.AdminListPeople, Get: h.AdminGetPerson,
			Create: h.CreatePerson, Update: h.UpdatePerson, Delete: h.DeletePerson,
		})
		registerCRUD(r, "/publications", crudHandlers{
			List: h.AdminListPublications, Get: h.AdminGetPublication,
			Create: h.CreatePublication, Update: h.UpdatePublication, Delete: h.DeletePublication,
		})
		registerCRUD(r, "/courses", crudHandlers{
			List: h.AdminListCourses, Get: h.AdminGetCourse,
			Create: h.CreateCourse, Update: h.UpdateCourse, Delete: h.DeleteCourse,
		})
		registerCRUD(r, "/gallery", crudHandlers{
			List: h.AdminListGallery, Get: h.AdminGetGalleryItem,
			Create: h.CreateGalleryItem, Update: h.UpdateGalleryItem, Delete: h.DeleteGalleryItem,
		})

		r.Get("/settings", h.GetSiteSettings)
		r.Put("/settings", h.UpdateSiteSettings)
		r.Get("/events", h.AdminListEvents)
	})

	// Uploads get their own tighter limits and a short deadline.
	r.Group(func(r chi.Router) {
		r.Use(deps.Limiter.Middleware(middleware.ProfileUpload))
		r.Use(deps.Auth.RequireAuth)
		r.Use(middleware.Timeout(10 * time.Second))

		r.Post("/api/upload", h.UploadImage)
		r.Post("/api/upload/image", h.UploadPersonImage)
	})

	// Stored files are immutable once written, so long-lived caching is safe.
	r.Group(func(r chi.Router) {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadsDir)))
		r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
			fs.ServeHTTP(w, req)
		})
	})

	return r
}
