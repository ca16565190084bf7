// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// labsite serves the research lab website API: public content reads, the
// authenticated admin console, and file uploads.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/mllab/labsite/internal/auth"
	"github.com/mllab/labsite/internal/cache"
	"github.com/mllab/labsite/internal/config"
	"github.com/mllab/labsite/internal/handler"
	"github.com/mllab/labsite/internal/imaging"
	"github.com/mllab/labsite/internal/logging"
	"github.com/mllab/labsite/internal/middleware"
	"github.com/mllab/labsite/internal/store"
	"github.com/mllab/labsite/internal/upload"
)

// Build-time values injected via -ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "labsite - research lab website backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LABSITE_SESSION_SECRET  Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LABSITE_DB_PATH         SQLite database path (default: ./data/labsite.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LABSITE_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LABSITE_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LABSITE_SITE_URLS       Comma-separated origins allowed to mutate (production)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LABSITE_UPLOADS_DIR     Upload storage directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LABSITE_REDIS_URL       Redis URL for shared caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LABSITE_DO_SEED         Seed starter content on an empty database\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("labsite %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade the logger so WARN and ERROR records also land in the events
	// table for the admin console.
	slog.SetDefault(slog.New(logging.NewEventLogHandler(textHandler, db)))
	slog.Info("event log integration enabled", "min_level", "warn")

	st := store.NewStore(db)
	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, st); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	issuer, err := auth.NewTokenIssuer(cfg.SessionSecret, cfg.IsDevelopment())
	if err != nil {
		return fmt.Errorf("initializing token issuer: %w", err)
	}

	storage, err := upload.NewStorage(cfg.UploadsDir)
	if err != nil {
		return fmt.Errorf("initializing upload storage: %w", err)
	}
	images := imaging.NewProcessor(cfg.UploadsDir)

	c, err := cache.New(cfg.RedisURL, cfg.CachePrefix, time.Duration(cfg.CacheTTL)*time.Second)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}

	csrfGuard := middleware.NewCSRFGuard(cfg.SiteURLs, cfg.IsDevelopment())
	authMW := middleware.NewAuth(issuer, csrfGuard)
	limiter := middleware.NewLimiter(nil)
	smoother := middleware.NewSmoother(1, 3)

	h := handler.NewHandler(st, issuer, storage, images, c)
	r := handler.NewRouter(handler.RouterDeps{
		Handler:       h,
		Auth:          authMW,
		Limiter:       limiter,
		Smoother:      smoother,
		UploadsDir:    cfg.UploadsDir,
		IsDevelopment: cfg.IsDevelopment(),
	})

	// Housekeeping: expired limiter windows every minute, audit log pruning
	// nightly.
	scheduler := cron.New()
	_, _ = scheduler.AddFunc("* * * * *", func() {
		if n := limiter.Sweep(); n > 0 {
			slog.Debug("swept rate limit windows", "count", n)
		}
		smoother.Prune(10000)
	})
	_, _ = scheduler.AddFunc("30 3 * * *", func() {
		n, err := st.PruneEvents(context.Background(), time.Now().AddDate(0, 0, -90))
		if err != nil {
			slog.Error("pruning events", "error", err)
			return
		}
		if n > 0 {
			slog.Info("pruned audit log", "removed", n)
		}
	})
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
