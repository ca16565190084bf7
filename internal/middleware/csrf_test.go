// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newMutation(origin, referer string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/pages", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	return req
}

func TestCSRFGuardAllowsConfiguredOrigin(t *testing.T) {
	g := NewCSRFGuard([]string{"https://mllab.korea.ac.kr"}, false)

	if err := g.Verify(newMutation("https://mllab.korea.ac.kr", "")); err != nil {
		t.Errorf("configured origin rejected: %v", err)
	}
	// Case-insensitive host.
	if err := g.Verify(newMutation("https://MLLAB.korea.ac.kr", "")); err != nil {
		t.Errorf("case variant rejected: %v", err)
	}
}

func TestCSRFGuardRejectsForeignOrigin(t *testing.T) {
	g := NewCSRFGuard([]string{"https://mllab.korea.ac.kr"}, false)

	err := g.Verify(newMutation("https://evil.example", ""))
	if !errors.Is(err, ErrOriginNotAllowed) {
		t.Errorf("err = %v, want ErrOriginNotAllowed", err)
	}
}

func TestCSRFGuardRefererFallback(t *testing.T) {
	g := NewCSRFGuard([]string{"https://mllab.korea.ac.kr"}, false)

	// Referer carries a full path; only its origin matters.
	if err := g.Verify(newMutation("", "https://mllab.korea.ac.kr/admin/pages/3")); err != nil {
		t.Errorf("referer fallback failed: %v", err)
	}
	if err := g.Verify(newMutation("", "https://evil.example/form")); !errors.Is(err, ErrOriginNotAllowed) {
		t.Errorf("foreign referer: err = %v", err)
	}
}

func TestCSRFGuardRequiresHeader(t *testing.T) {
	g := NewCSRFGuard([]string{"https://mllab.korea.ac.kr"}, false)

	if err := g.Verify(newMutation("", "")); !errors.Is(err, ErrNoOrigin) {
		t.Errorf("err = %v, want ErrNoOrigin", err)
	}
}

func TestCSRFGuardSkipsSafeMethods(t *testing.T) {
	g := NewCSRFGuard(nil, false)
	req := httptest.NewRequest(http.MethodGet, "/api/pages", nil)
	if err := g.Verify(req); err != nil {
		t.Errorf("GET checked: %v", err)
	}
}

func TestCSRFGuardDevOrigins(t *testing.T) {
	g := NewCSRFGuard(nil, true)
	if err := g.Verify(newMutation("http://localhost:3000", "")); err != nil {
		t.Errorf("dev origin rejected: %v", err)
	}

	prod := NewCSRFGuard(nil, false)
	if err := prod.Verify(newMutation("http://localhost:3000", "")); err == nil {
		t.Error("dev origin allowed in production")
	}
}
