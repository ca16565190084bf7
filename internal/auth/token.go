// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "auth-token"

// SessionLifetime is how long an issued session token stays valid.
const SessionLifetime = 30 * time.Minute

// minSecretLength mirrors config.MinSessionSecretLength; the issuer refuses
// to construct with anything weaker.
const minSecretLength = 32

// SessionClaims are the claims embedded in a session token.
type SessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthUser is the verified identity extracted from a session token.
type AuthUser struct {
	UserID int64
	Email  string
	Role   string
}

// TokenIssuer signs and verifies session tokens with a symmetric secret.
type TokenIssuer struct {
	secret   []byte
	secure   bool // Secure cookie flag (production)
	lifetime time.Duration
}

// NewTokenIssuer creates a TokenIssuer. It fails if the secret is too short
// so a misconfigured process cannot start issuing weak tokens.
func NewTokenIssuer(secret string, isDev bool) (*TokenIssuer, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes, got %d", minSecretLength, len(secret))
	}
	return &TokenIssuer{
		secret:   []byte(secret),
		secure:   !isDev,
		lifetime: SessionLifetime,
	}, nil
}

// Issue creates a signed session token for the given user.
func (ti *TokenIssuer) Issue(userID int64, email, role string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify checks a session token's signature and expiry.
// Any failure returns (nil, false); the reason is logged at debug level and
// never exposed to the caller.
func (ti *TokenIssuer) Verify(tokenString string) (*AuthUser, bool) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil || !token.Valid {
		slog.Debug("session token rejected", "error", err)
		return nil, false
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		slog.Debug("session token has unexpected claims type")
		return nil, false
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		slog.Debug("session token has malformed subject")
		return nil, false
	}

	return &AuthUser{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, true
}

// SessionCookie builds the Set-Cookie value delivering a session token.
func (ti *TokenIssuer) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ti.lifetime.Seconds()),
		HttpOnly: true,
		Secure:   ti.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds the Set-Cookie value that expires the session cookie.
// Path and flags must match SessionCookie exactly or some browsers keep the
// original cookie alive.
func (ti *TokenIssuer) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ti.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
