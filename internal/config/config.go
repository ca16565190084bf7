// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"LABSITE_DB_PATH" envDefault:"./data/labsite.db"`
	SessionSecret string `env:"LABSITE_SESSION_SECRET,required"`
	ServerHost    string `env:"LABSITE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"LABSITE_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"LABSITE_ENV" envDefault:"development"`
	LogLevel      string `env:"LABSITE_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"LABSITE_UPLOADS_DIR" envDefault:"./uploads"`

	// SiteURLs is the comma-separated list of origins allowed to issue
	// state-changing requests (the deployed frontend plus any aliases).
	SiteURLs []string `env:"LABSITE_SITE_URLS" envSeparator:","`

	// Cache configuration
	RedisURL    string `env:"LABSITE_REDIS_URL"`
	CachePrefix string `env:"LABSITE_CACHE_PREFIX" envDefault:"labsite:"`
	CacheTTL    int    `env:"LABSITE_CACHE_TTL" envDefault:"300"`

	// Seeding configuration
	DoSeed bool `env:"LABSITE_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// The secret signs session tokens; 32 bytes keeps HMAC-SHA256 at full strength.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("LABSITE_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("LABSITE_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("LABSITE_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
