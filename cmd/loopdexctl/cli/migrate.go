// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/loopdex/internal/platform/config"
	"github.com/taibuivan/loopdex/internal/platform/migration"
)

func newMigrateCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "PostgreSQL schema migrations",
		Long: `Apply, roll back or inspect the PostgreSQL catalog schema.

The embedded SQLite store migrates itself on open and has nothing to do here.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			if s.cfg.StorageDriver != config.DriverPostgres {
				return fmt.Errorf("migrate: STORAGE_DRIVER is %q, migrations only apply to %q", s.cfg.StorageDriver, config.DriverPostgres)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migration.RunUp(s.cfg.DatabaseURL, s.cfg.MigrationPath, s.logger)
		},
	})

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return migration.RunDown(s.cfg.DatabaseURL, s.cfg.MigrationPath, steps, s.logger)
		},
	}
	down.Flags().Int("steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := migration.CurrentStatus(s.cfg.DatabaseURL, s.cfg.MigrationPath, s.logger)
			if err != nil {
				return err
			}
			return s.print(status)
		},
	})

	return cmd
}
