// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Loopdex HTTP API server.
//
// # Startup Sequence
//
//  1. Load configuration from the environment (and .env).
//  2. Initialize the structured logger.
//  3. Run PostgreSQL migrations (postgres driver only, idempotent).
//  4. Open storage and the lock backend, wire services.
//  5. Start the HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/loopdex/internal/api"
	"github.com/taibuivan/loopdex/internal/app"
	"github.com/taibuivan/loopdex/internal/platform/config"
	"github.com/taibuivan/loopdex/internal/platform/constants"
	"github.com/taibuivan/loopdex/internal/platform/logging"
	"github.com/taibuivan/loopdex/internal/platform/migration"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		slog.Error("startup_failure", slog.String("context", "load configuration"), slog.Any("error", err))
		os.Exit(1)
	}

	// ── 2. Logger ─────────────────────────────────────────────────────────
	log, logCloser := logging.New(logging.Options{
		Debug:      cfg.Debug,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	defer logCloser.Close()
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
	)

	// Misconfiguration should fail fast rather than hang.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Migrations ─────────────────────────────────────────────────────
	if cfg.StorageDriver == config.DriverPostgres {
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")
	}

	// ── 4. Catalog ────────────────────────────────────────────────────────
	catalog, err := app.New(startupCtx, cfg, log)
	must(log, err, "wire catalog")
	defer func() {
		log.Info("closing_storage")
		if cerr := catalog.Close(); cerr != nil {
			log.Error("storage_close_failed", slog.Any("error", cerr))
		}
	}()

	verifier, err := app.Verifier(cfg)
	must(log, err, "load token verifier")
	if verifier == nil {
		log.Warn("token_verifier_disabled", slog.String("reason", "JWT_PUBLIC_KEY_PATH is empty"))
	}

	// ── 5. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, verifier, catalog.Handlers())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		return
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// Only for startup wiring; after startup every error is returned and handled.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
