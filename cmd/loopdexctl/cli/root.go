// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/loopdex/internal/app"
	"github.com/taibuivan/loopdex/internal/platform/config"
	"github.com/taibuivan/loopdex/internal/platform/constants"
	"github.com/taibuivan/loopdex/internal/platform/logging"
	"github.com/taibuivan/loopdex/internal/platform/sec"
)

// operator is the identity every CLI mutation runs as.
var operator = sec.Actor{ID: constants.AppName + "ctl", Role: sec.RoleAdmin}

// session carries what PersistentPreRunE loads for the subcommands.
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
	out       io.Writer
}

// NewRootCommand builds the loopdexctl command tree.
func NewRootCommand() *cobra.Command {
	s := &session{}
	var debug bool

	cmd := &cobra.Command{
		Use:           "loopdexctl",
		Short:         "Loopdex catalog administration",
		Long:          "Operate on the Loopdex catalog directly: migrations, searches, tag curation and item moderation.",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.init(cmd, debug)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if s.logCloser != nil {
				return s.logCloser.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level (to stderr)")
	cmd.Version = constants.AppVersion

	cmd.AddCommand(newMigrateCommand(s))
	cmd.AddCommand(newSearchCommand(s))
	cmd.AddCommand(newTagCommand(s))
	cmd.AddCommand(newItemCommand(s))

	return cmd
}

func (s *session) init(cmd *cobra.Command, debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.out = cmd.OutOrStdout()
	s.logger, s.logCloser = logging.New(logging.Options{
		Debug:      debug || cfg.Debug,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Output:     os.Stderr,
	})
	return nil
}

// withCatalog opens the catalog for one command and always closes it.
func (s *session) withCatalog(ctx context.Context, run func(catalog *app.App) error) error {
	catalog, err := app.New(ctx, s.cfg, s.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := catalog.Close(); cerr != nil {
			s.logger.Error("storage_close_failed", slog.Any("error", cerr))
		}
	}()

	return run(catalog)
}

// print writes v as indented JSON.
func (s *session) print(v any) error {
	encoder := json.NewEncoder(s.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
