// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mllab/labsite/internal/util"
)

// Profile names a rate limit bucket class.
type Profile string

// Rate limit profiles.
const (
	ProfileLogin  Profile = "login"
	ProfileUpload Profile = "upload"
	ProfileAPI    Profile = "api"
	ProfilePublic Profile = "public"
)

// Limit is a fixed-window allowance.
type Limit struct {
	Requests int
	Window   time.Duration
}

// DefaultLimits returns the per-profile allowances.
func DefaultLimits() map[Profile]Limit {
	return map[Profile]Limit{
		ProfileLogin:  {Requests: 5, Window: 15 * time.Minute},
		ProfileUpload: {Requests: 10, Window: time.Minute},
		ProfileAPI:    {Requests: 100, Window: time.Minute},
		ProfilePublic: {Requests: 200, Window: time.Minute},
	}
}

// Result reports the outcome of one rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

type window struct {
	count int
	start time.Time
}

// Limiter is a fixed-window rate limiter keyed by profile and client
// identifier. It is in-process only; a multi-instance deployment needs a
// shared backend instead.
type Limiter struct {
	mu      sync.Mutex
	limits  map[Profile]Limit
	windows map[string]*window
}

// NewLimiter creates a limiter with the given allowances. Nil uses
// DefaultLimits.
func NewLimiter(limits map[Profile]Limit) *Limiter {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &Limiter{
		limits:  limits,
		windows: make(map[string]*window),
	}
}

// Check consumes one request from the identifier's window and reports
// whether it was within the allowance.
func (l *Limiter) Check(profile Profile, identifier string) Result {
	limit, ok := l.limits[profile]
	if !ok {
		return Result{Allowed: true}
	}

	key := string(profile) + ":" + identifier
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= limit.Window {
		w = &window{start: now}
		l.windows[key] = w
	}

	reset := w.start.Add(limit.Window)
	if w.count >= limit.Requests {
		return Result{Allowed: false, Remaining: 0, Reset: reset}
	}
	w.count++
	return Result{Allowed: true, Remaining: limit.Requests - w.count, Reset: reset}
}

// Sweep drops expired windows. The cron scheduler calls this every minute.
func (l *Limiter) Sweep() int {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, w := range l.windows {
		limit, ok := l.limits[Profile(profileOf(key))]
		if !ok || now.Sub(w.start) >= limit.Window {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

func profileOf(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}

// Middleware enforces the profile's allowance per client IP. Denials carry
// Retry-After and X-RateLimit-Remaining headers.
func (l *Limiter) Middleware(profile Profile) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := util.ClientIP(r)
			res := l.Check(profile, ip)

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			if !res.Allowed {
				retryAfter := int(time.Until(res.Reset).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				slog.Warn("rate limit exceeded",
					"source", "system",
					"profile", string(profile),
					"ip", ip,
					"url", r.URL.Path)
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
