// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logging builds the process-wide structured logger.
//
// Records are JSON encoded by [log/slog] and written to stdout unless another
// output is given (the admin CLI keeps stdout for results). When a
// log file is configured, the same records are also appended to a size-rotated
// file managed by lumberjack.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/taibuivan/loopdex/internal/platform/constants"
)

// Options controls logger construction.
type Options struct {
	Debug      bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Output replaces stdout as the primary sink.
	Output io.Writer
}

// New returns a JSON logger tagged with the application name, and a closer
// that flushes the rotating file (a no-op without one).
func New(opts Options) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var writer io.Writer = os.Stdout
	if opts.Output != nil {
		writer = opts.Output
	}
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		writer = io.MultiWriter(writer, rotating)
		closer = rotating
	}

	logger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level}))
	return logger.With(slog.String("app", constants.AppName)), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
