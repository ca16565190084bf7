// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mllab/labsite/internal/auth"
	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/util"
)

// ContextKey is the type for request context keys set by this package.
type ContextKey string

// ContextKeyUser holds the authenticated *auth.AuthUser.
const ContextKeyUser ContextKey = "user"

// Auth guards the admin API. It verifies the session cookie and, for
// state-changing methods, the request origin.
type Auth struct {
	issuer *auth.TokenIssuer
	csrf   *CSRFGuard
}

// NewAuth creates the auth middleware.
func NewAuth(issuer *auth.TokenIssuer, csrf *CSRFGuard) *Auth {
	return &Auth{issuer: issuer, csrf: csrf}
}

// RequireAuth rejects requests without a valid session. Mutating methods
// are origin-checked before the cookie is even read, so a cross-site
// request with a valid cookie still fails.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			if err := a.csrf.Verify(r); err != nil {
				slog.Warn("cross-origin request blocked",
					"source", model.EventSourceAuth,
					"ip", util.ClientIP(r),
					"url", r.URL.Path,
					"reason", err.Error())
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
		}

		cookie, err := r.Cookie(auth.SessionCookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		user, ok := a.issuer.Verify(cookie.Value)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFrom returns the authenticated user stored by RequireAuth.
func UserFrom(ctx context.Context) (*auth.AuthUser, bool) {
	user, ok := ctx.Value(ContextKeyUser).(*auth.AuthUser)
	return user, ok
}
