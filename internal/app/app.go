// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package app assembles the catalog from configuration.

It is shared by the API server and the admin CLI so both run the same
storage, locking and service graph. Nothing here is a global: every handle is
created by [New] and released by [App.Close].

# Storage

  - postgres: pgxpool with hand-written SQL; schema owned by golang-migrate.
  - sqlite: gorm over an embedded file; schema owned by AutoMigrate.

# Locking

With REDIS_URL set, per-item mutation locks live in Redis so several
instances serialise against each other. Otherwise an in-process keyed mutex
is used, which is only correct for a single instance.
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/loopdex/internal/api"
	"github.com/taibuivan/loopdex/internal/core/item"
	"github.com/taibuivan/loopdex/internal/core/search"
	"github.com/taibuivan/loopdex/internal/core/tag"
	"github.com/taibuivan/loopdex/internal/platform/config"
	"github.com/taibuivan/loopdex/internal/platform/constants"
	"github.com/taibuivan/loopdex/internal/platform/lock"
	"github.com/taibuivan/loopdex/internal/platform/middleware"
	pgstore "github.com/taibuivan/loopdex/internal/platform/postgres"
	redisstore "github.com/taibuivan/loopdex/internal/platform/redis"
	"github.com/taibuivan/loopdex/internal/platform/sec"
	"github.com/taibuivan/loopdex/internal/platform/sqlite"
)

// App holds the wired catalog services and the resources behind them.
type App struct {
	Tags   *tag.Service
	Items  *item.Service
	Search *search.Service

	// Checks feed the readiness probe.
	Checks []api.Check

	closers []func() error
	logger  *slog.Logger
}

// repositories is the storage half of the graph, built per driver.
type repositories struct {
	tags   tag.Repository
	items  item.Repository
	search search.Repository
}

/*
New opens storage and the lock backend and wires the services.

Parameters:
  - ctx: Bounds connection establishment only
  - cfg: *config.Config
  - logger: *slog.Logger

Returns:
  - *App: Ready to serve; call Close when done
  - error: Connection or schema failures
*/
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}

	repos, err := app.openStorage(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	locker, err := app.openLocker(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Tags = tag.NewService(repos.tags, logger)
	app.Items = item.NewService(repos.items, app.Tags, locker, logger)
	app.Search = search.NewService(repos.search, cfg.SafeOnly, logger)

	logger.Info("catalog_wired",
		slog.String("storage_driver", cfg.StorageDriver),
		slog.Bool("distributed_lock", cfg.RedisURL != ""),
		slog.Bool("safe_only", cfg.SafeOnly),
	)
	return app, nil
}

func (app *App) openStorage(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, app.logger)
		if err != nil {
			return repositories{}, err
		}
		app.closers = append(app.closers, func() error {
			pool.Close()
			return nil
		})
		app.Checks = append(app.Checks, api.Check{
			Name: config.DriverPostgres,
			Ping: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		})

		return repositories{
			tags:   tag.NewPostgresRepository(pool),
			items:  item.NewPostgresRepository(pool),
			search: search.NewPostgresRepository(pool),
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, sqlite.Options{Path: cfg.SQLitePath, Debug: cfg.Debug}, app.logger)
		if err != nil {
			return repositories{}, err
		}
		app.closers = append(app.closers, func() error { return sqlite.Close(db) })
		app.Checks = append(app.Checks, api.Check{
			Name: config.DriverSQLite,
			Ping: func(ctx context.Context) error { return sqlite.Ping(ctx, db) },
		})

		return repositories{
			tags:   tag.NewSQLiteRepository(db),
			items:  item.NewSQLiteRepository(db),
			search: search.NewSQLiteRepository(db),
		}, nil
	}

	return repositories{}, fmt.Errorf("app: unknown storage driver %q", cfg.StorageDriver)
}

func (app *App) openLocker(ctx context.Context, cfg *config.Config) (lock.Locker, error) {
	if cfg.RedisURL == "" {
		return lock.NewLocalLocker(constants.ItemLockWait), nil
	}

	client, err := redisstore.NewClient(ctx, cfg.RedisURL, app.logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, client.Close)
	app.Checks = append(app.Checks, api.Check{
		Name: "redis",
		Ping: func(ctx context.Context) error { return redisstore.Ping(ctx, client) },
	})

	return lock.NewRedisLocker(client, lock.RedisOptions{
		Prefix:        constants.RedisPrefixItemLock,
		TTL:           constants.ItemLockTTL,
		Wait:          constants.ItemLockWait,
		RetryInterval: constants.ItemLockRetryInterval,
	}, app.logger), nil
}

// Close releases resources in reverse order of acquisition.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}

// Handlers builds the HTTP handler set for [api.NewServer].
func (app *App) Handlers() api.Handlers {
	liveness, readiness := api.NewHealthHandlers(app.Checks, app.logger)
	return api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Search:    search.NewHandler(app.Search),
		Item:      item.NewHandler(app.Items),
		Tag:       tag.NewHandler(app.Tags),
	}
}

// Verifier loads the access-token verifier. Without a configured public key
// it returns a nil interface and the API runs anonymously.
func Verifier(cfg *config.Config) (middleware.TokenVerifier, error) {
	if cfg.JWTPubKeyPath == "" {
		return nil, nil
	}

	verifier, err := sec.LoadTokenVerifier(cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return nil, err
	}
	return verifier, nil
}
