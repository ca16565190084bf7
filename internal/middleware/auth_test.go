// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mllab/labsite/internal/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthMiddleware(t *testing.T) (*Auth, *auth.TokenIssuer) {
	t.Helper()
	issuer, err := auth.NewTokenIssuer(testSecret, true)
	if err != nil {
		t.Fatalf("NewTokenIssuer() error = %v", err)
	}
	guard := NewCSRFGuard([]string{"https://mllab.korea.ac.kr"}, false)
	return NewAuth(issuer, guard), issuer
}

func protectedEcho(t *testing.T, a *Auth) http.Handler {
	t.Helper()
	return a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok {
			t.Error("no user in context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(user.Email))
	}))
}

func TestRequireAuthNoCookie(t *testing.T) {
	a, _ := newAuthMiddleware(t)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil)
	rec := httptest.NewRecorder()
	protectedEcho(t, a).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Errorf("body = %q, want JSON error", rec.Body.String())
	}
}

func TestRequireAuthValidCookie(t *testing.T) {
	a, issuer := newAuthMiddleware(t)
	token, err := issuer.Issue(1, "admin@mllab.korea.ac.kr", "admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	protectedEcho(t, a).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "admin@mllab.korea.ac.kr" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRequireAuthGarbageToken(t *testing.T) {
	a, _ := newAuthMiddleware(t)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "not.a.jwt"})
	rec := httptest.NewRecorder()
	protectedEcho(t, a).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthCrossOriginMutation(t *testing.T) {
	a, issuer := newAuthMiddleware(t)
	token, err := issuer.Issue(1, "admin@mllab.korea.ac.kr", "admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Valid cookie, hostile origin: the CSRF check runs first and wins.
	req := httptest.NewRequest(http.MethodPost, "/api/admin/pages", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	protectedEcho(t, a).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	// The client only learns "forbidden", not which check failed.
	if strings.Contains(rec.Body.String(), "origin") {
		t.Errorf("body leaks failure detail: %q", rec.Body.String())
	}
}

func TestRequireAuthSameOriginMutation(t *testing.T) {
	a, issuer := newAuthMiddleware(t)
	token, err := issuer.Issue(1, "admin@mllab.korea.ac.kr", "admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/pages", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	req.Header.Set("Origin", "https://mllab.korea.ac.kr")
	rec := httptest.NewRecorder()
	protectedEcho(t, a).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
