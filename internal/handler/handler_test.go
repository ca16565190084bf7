// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mllab/labsite/internal/auth"
	"github.com/mllab/labsite/internal/cache"
	"github.com/mllab/labsite/internal/handler"
	"github.com/mllab/labsite/internal/imaging"
	"github.com/mllab/labsite/internal/middleware"
	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/store"
	"github.com/mllab/labsite/internal/upload"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testEmail    = "admin@example.edu"
	testPassword = "correct horse battery staple"

	// Any allowed origin in development mode.
	testOrigin = "http://localhost:3000"
)

type testEnv struct {
	store  *store.Store
	server *httptest.Server
}

// newTestEnv builds the full route tree over an in-memory database with one
// admin account.
func newTestEnv(t *testing.T) *testEnv {
	return newEnv(t, func(t *testing.T, st *store.Store) {
		hash, err := auth.HashPassword(testPassword)
		if err != nil {
			t.Fatalf("hashing test password: %v", err)
		}
		if _, err := st.CreateUser(context.Background(), store.CreateUserParams{
			Email:        testEmail,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
			Name:         "Test Admin",
		}); err != nil {
			t.Fatalf("creating test admin: %v", err)
		}
	})
}

// newSeededEnv builds the route tree over a database populated by the
// starter seed instead of the bare test admin.
func newSeededEnv(t *testing.T) *testEnv {
	return newEnv(t, func(t *testing.T, st *store.Store) {
		if err := store.Seed(context.Background(), st); err != nil {
			t.Fatalf("seeding test database: %v", err)
		}
	})
}

func newEnv(t *testing.T, populate func(*testing.T, *store.Store)) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	st := store.NewStore(db)
	populate(t, st)

	issuer, err := auth.NewTokenIssuer(testSecret, true)
	if err != nil {
		t.Fatalf("creating token issuer: %v", err)
	}

	uploadsDir := t.TempDir()
	storage, err := upload.NewStorage(uploadsDir)
	if err != nil {
		t.Fatalf("creating upload storage: %v", err)
	}

	c := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	h := handler.NewHandler(st, issuer, storage, imaging.NewProcessor(uploadsDir), c)
	r := handler.NewRouter(handler.RouterDeps{
		Handler:       h,
		Auth:          middleware.NewAuth(issuer, middleware.NewCSRFGuard(nil, true)),
		Limiter:       middleware.NewLimiter(nil),
		Smoother:      middleware.NewSmoother(1000, 1000),
		UploadsDir:    uploadsDir,
		IsDevelopment: true,
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{store: st, server: srv}
}

// request sends a JSON request. A non-nil cookie authenticates it; mutating
// requests carry the development origin so the CSRF guard passes.
func (e *testEnv) request(t *testing.T, method, path string, body any, cookie *http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Origin", testOrigin)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// login authenticates as the test admin and returns the session cookie.
func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    testEmail,
		"password": testPassword,
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	t.Fatal("login response carries no session cookie")
	return nil
}

// decodeBody unmarshals a response body into T.
func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return v
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d (body: %s)", resp.StatusCode, want, body)
	}
}
