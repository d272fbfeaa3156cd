// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sqlite opens the embedded catalog database.

Single-instance deployments (a bot on a small VPS, local development) can run
Loopdex without PostgreSQL by setting STORAGE_DRIVER=sqlite. The store is gorm
over the pure-Go glebarez/sqlite driver, so the binary stays CGO-free.

Tests use [OpenMemory] to get an isolated, fully migrated database per test.
*/
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options configures [Open].
type Options struct {
	// Path is the database file. ":memory:" opens a private in-memory database.
	Path string
	// Debug logs every SQL statement.
	Debug bool
}

// busyTimeoutMS lets a second writer wait instead of failing with SQLITE_BUSY.
const busyTimeoutMS = 5000

// Open connects to the database file and migrates the catalog schema.
//
// # Parameters
//   - ctx: Context for the initial ping and migration.
//   - options: File location and logging.
//   - log: Structured logger for lifecycle events.
func Open(ctx context.Context, options Options, log *slog.Logger) (*gorm.DB, error) {
	if options.Path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	logLevel := logger.Silent
	if options.Debug {
		logLevel = logger.Info
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", options.Path, busyTimeoutMS)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to get database instance: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory database
	// only lives as long as its connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite: failed to enable foreign keys: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info("sqlite_database_opened", slog.String("path", options.Path))
	return db, nil
}

// OpenMemory opens a private, migrated in-memory database.
func OpenMemory(ctx context.Context) (*gorm.DB, error) {
	return Open(ctx, Options{Path: ":memory:"}, slog.New(slog.DiscardHandler))
}

// Migrate creates or updates the catalog tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sqlite: failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
