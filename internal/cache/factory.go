// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"time"
)

// New selects a backend: Redis when a URL is configured, otherwise an
// in-process memory cache.
func New(redisURL, prefix string, defaultTTL time.Duration) (Cache, error) {
	if redisURL != "" {
		c, err := NewRedisCache(redisURL, prefix, defaultTTL)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return c, nil
	}
	return NewMemoryCache(defaultTTL), nil
}
