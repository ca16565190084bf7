// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/mllab/labsite/internal/util"
)

// limiterCache is a per-key token bucket cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()
	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

func (lc *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
		return true
	}
	return false
}

// Smoother is a per-IP token bucket layered under the fixed-window login
// limit. The window stops brute force over minutes; the bucket stops a
// burst of requests landing in the same second.
type Smoother struct {
	cache *limiterCache[string]
}

// NewSmoother allows rps sustained requests per IP with the given burst.
func NewSmoother(rps float64, burst int) *Smoother {
	return &Smoother{cache: newLimiterCache[string](rps, burst)}
}

// Allow reports whether the IP may proceed right now.
func (s *Smoother) Allow(ip string) bool {
	return s.cache.get(ip).Allow()
}

// Prune resets the cache when it grows past maxSize entries.
func (s *Smoother) Prune(maxSize int) {
	if s.cache.clearIfExceeds(maxSize) {
		slog.Info("request smoother cache cleared", "max_size", maxSize)
	}
}

// Middleware rejects over-rate requests with a 429.
func (s *Smoother) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := util.ClientIP(r)
			if !s.Allow(ip) {
				// The bucket refills continuously, so a one second back-off
				// is the honest hint.
				w.Header().Set("Retry-After", "1")
				w.Header().Set("X-RateLimit-Remaining", "0")
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
