// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"strings"
	"testing"
)

const testSecret = "Abc123!xyz-long-enough-secret-key-42"

func TestLoad(t *testing.T) {
	t.Setenv("LABSITE_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.DoSeed {
		t.Error("DoSeed = true, want false by default")
	}
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("LABSITE_SESSION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with empty secret should fail")
	}
}

func TestLoadShortSecret(t *testing.T) {
	t.Setenv("LABSITE_SESSION_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() with short secret should fail")
	}
	if !strings.Contains(err.Error(), "at least") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadWeakSecret(t *testing.T) {
	t.Setenv("LABSITE_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with known weak secret should fail")
	}
}

func TestSiteURLs(t *testing.T) {
	t.Setenv("LABSITE_SESSION_SECRET", testSecret)
	t.Setenv("LABSITE_SITE_URLS", "https://mllab.korea.ac.kr,https://www.mllab.korea.ac.kr")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.SiteURLs) != 2 {
		t.Fatalf("SiteURLs = %v, want 2 entries", cfg.SiteURLs)
	}
	if cfg.SiteURLs[0] != "https://mllab.korea.ac.kr" {
		t.Errorf("SiteURLs[0] = %q", cfg.SiteURLs[0])
	}
}

func TestServerAddr(t *testing.T) {
	cfg := Config{ServerHost: "0.0.0.0", ServerPort: 9000}
	if got := cfg.ServerAddr(); got != "0.0.0.0:9000" {
		t.Errorf("ServerAddr() = %q", got)
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"abcdefghijklmnop", false},
		{"abcDEF123", true},
		{"abc123!@#", true},
		{"ABCDEF123456", false},
	}
	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
