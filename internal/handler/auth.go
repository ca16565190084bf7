// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mllab/labsite/internal/auth"
	"github.com/mllab/labsite/internal/middleware"
	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/util"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Login verifies credentials and issues the session cookie. Invalid email
// and invalid password answer identically so accounts cannot be enumerated.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("looking up user", "error", err)
			WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		h.failLogin(w, r, req.Email)
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		slog.Error("checking password", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		h.failLogin(w, r, req.Email)
		return
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			_ = h.store.UpdateUserPassword(r.Context(), user.ID, newHash)
		}
	}

	token, err := h.issuer.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		slog.Error("issuing session token", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.store.TouchUserLogin(r.Context(), user.ID); err != nil {
		slog.Warn("recording login time", "error", err, "user_id", user.ID)
	}

	slog.Info("admin logged in",
		"source", model.EventSourceAuth,
		"user_id", user.ID,
		"ip", util.ClientIP(r))

	http.SetCookie(w, h.issuer.SessionCookie(token))
	WriteJSON(w, http.StatusOK, map[string]any{
		"user": userResponse{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role},
	})
}

func (h *Handler) failLogin(w http.ResponseWriter, r *http.Request, email string) {
	slog.Warn("login failed",
		"source", model.EventSourceAuth,
		"ip", util.ClientIP(r),
		"url", r.URL.Path,
		"email", email)
	WriteError(w, http.StatusUnauthorized, "invalid credentials")
}

// Logout clears the session cookie. The JWT itself stays valid until expiry
// so the lifetime is kept short.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.issuer.ClearCookie())
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the current admin account, refreshed from the database so the
// console sees up-to-date fields rather than stale token claims.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteError(w, http.StatusUnauthorized, "account no longer exists")
			return
		}
		slog.Error("loading current user", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user": userResponse{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role},
	})
}
