// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// CSRF failure causes. Logged internally; clients always see a generic 403.
var (
	ErrNoOrigin         = errors.New("neither Origin nor Referer header present")
	ErrOriginMalformed  = errors.New("origin could not be parsed")
	ErrOriginNotAllowed = errors.New("origin is not on the allow list")
)

// devOrigins are always trusted in development mode.
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:8080",
}

// CSRFGuard verifies that state-changing requests come from a trusted
// browser origin. Cookie-based sessions need this because browsers attach
// the cookie to cross-site requests.
type CSRFGuard struct {
	allowed map[string]struct{}
}

// NewCSRFGuard builds a guard trusting siteURLs. Development mode adds
// local origins.
func NewCSRFGuard(siteURLs []string, isDev bool) *CSRFGuard {
	g := &CSRFGuard{allowed: make(map[string]struct{})}
	for _, raw := range siteURLs {
		if origin, err := normalizeOrigin(raw); err == nil {
			g.allowed[origin] = struct{}{}
		}
	}
	if isDev {
		for _, origin := range devOrigins {
			g.allowed[origin] = struct{}{}
		}
	}
	return g
}

// Verify checks the request's origin against the allow list. Safe methods
// pass without inspection. Origin is authoritative when present; Referer is
// the fallback because some browsers omit Origin on same-origin requests.
func (g *CSRFGuard) Verify(r *http.Request) error {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return nil
	}

	source := r.Header.Get("Origin")
	if source == "" {
		source = r.Header.Get("Referer")
		if source == "" {
			return ErrNoOrigin
		}
	}

	origin, err := normalizeOrigin(source)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrOriginMalformed, source)
	}
	if _, ok := g.allowed[origin]; !ok {
		return fmt.Errorf("%w: %s", ErrOriginNotAllowed, origin)
	}
	return nil
}

// normalizeOrigin reduces a URL to scheme://host[:port] in lowercase.
func normalizeOrigin(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("missing scheme or host in %q", raw)
	}
	return strings.ToLower(u.Scheme + "://" + u.Host), nil
}
