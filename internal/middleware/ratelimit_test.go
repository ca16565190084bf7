// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterFixedWindow(t *testing.T) {
	l := NewLimiter(map[Profile]Limit{
		ProfileLogin: {Requests: 5, Window: 15 * time.Minute},
	})

	for i := 1; i <= 5; i++ {
		res := l.Check(ProfileLogin, "203.0.113.1")
		if !res.Allowed {
			t.Fatalf("attempt %d denied", i)
		}
		if res.Remaining != 5-i {
			t.Errorf("attempt %d: Remaining = %d, want %d", i, res.Remaining, 5-i)
		}
	}

	res := l.Check(ProfileLogin, "203.0.113.1")
	if res.Allowed {
		t.Error("sixth attempt allowed")
	}
	if res.Reset.Before(time.Now()) {
		t.Error("Reset is in the past")
	}

	// Another client is unaffected.
	if res := l.Check(ProfileLogin, "203.0.113.2"); !res.Allowed {
		t.Error("separate identifier shares the window")
	}
}

func TestLimiterWindowExpiry(t *testing.T) {
	l := NewLimiter(map[Profile]Limit{
		ProfileAPI: {Requests: 1, Window: 20 * time.Millisecond},
	})

	if res := l.Check(ProfileAPI, "x"); !res.Allowed {
		t.Fatal("first request denied")
	}
	if res := l.Check(ProfileAPI, "x"); res.Allowed {
		t.Fatal("second request in window allowed")
	}

	time.Sleep(25 * time.Millisecond)
	if res := l.Check(ProfileAPI, "x"); !res.Allowed {
		t.Error("request after window expiry denied")
	}
}

func TestLimiterUnknownProfile(t *testing.T) {
	l := NewLimiter(map[Profile]Limit{})
	if res := l.Check(Profile("nope"), "x"); !res.Allowed {
		t.Error("unknown profile should not limit")
	}
}

func TestLimiterSweep(t *testing.T) {
	l := NewLimiter(map[Profile]Limit{
		ProfileAPI: {Requests: 5, Window: 10 * time.Millisecond},
	})
	l.Check(ProfileAPI, "a")
	l.Check(ProfileAPI, "b")

	time.Sleep(15 * time.Millisecond)
	if removed := l.Sweep(); removed != 2 {
		t.Errorf("Sweep() = %d, want 2", removed)
	}
}

func TestLimiterMiddleware(t *testing.T) {
	l := NewLimiter(map[Profile]Limit{
		ProfileLogin: {Requests: 2, Window: time.Minute},
	})
	handler := l.Middleware(ProfileLogin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Real-IP", "198.51.100.7")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	do()
	do()
	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", rec.Header().Get("X-RateLimit-Remaining"))
	}
	if body := rec.Body.String(); body == "" || body[0] != '{' {
		t.Errorf("deny body is not JSON: %q", body)
	}
}

func TestSmootherBurst(t *testing.T) {
	s := NewSmoother(0.5, 3)
	allowed := 0
	for i := 0; i < 10; i++ {
		if s.Allow("10.0.0.1") {
			allowed++
		}
	}
	if allowed != 3 {
		t.Errorf("allowed = %d, want burst of 3", allowed)
	}
	if !s.Allow("10.0.0.2") {
		t.Error("fresh IP denied")
	}
}

func TestSmootherMiddleware(t *testing.T) {
	s := NewSmoother(0.5, 1)
	handler := s.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Real-IP", "198.51.100.9")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}
	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q, want 1", rec.Header().Get("Retry-After"))
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", rec.Header().Get("X-RateLimit-Remaining"))
	}
}
