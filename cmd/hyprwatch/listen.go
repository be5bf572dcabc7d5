// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/hyprwatch/lib/clock"
	"github.com/bureau-foundation/hyprwatch/lib/config"
	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
	"github.com/bureau-foundation/hyprwatch/lib/hyprsocket"
)

func runListen(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var connection connectionFlags
	var outputs outputFlags

	flagSet := pflag.NewFlagSet("hyprwatch listen", pflag.ContinueOnError)
	connection.AddFlags(flagSet)
	outputs.AddFlags(flagSet, true)
	if err := parseFlags(flagSet, args, stderr, "hyprwatch [listen] [flags]"); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return usageError("unexpected argument: %s", flagSet.Arg(0))
	}

	cfg, err := loadConfig(connection.configPath, func(cfg *config.Config) {
		connection.apply(flagSet, cfg)
		outputs.apply(flagSet, cfg)
	})
	if err != nil {
		return err
	}
	logger, err := newLogger(stderr, cfg)
	if err != nil {
		return err
	}

	return listen(ctx, cfg, clock.Real(), logger, stdout)
}

// listen runs the full pipeline against the live socket until the
// stream ends or ctx is cancelled. Cancellation is a clean exit.
func listen(ctx context.Context, cfg *config.Config, c clock.Clock, logger *slog.Logger, stdout io.Writer) error {
	p, err := openPipeline(pipelineOptions{
		cfg:       cfg,
		stdout:    stdout,
		logger:    logger,
		clock:     c,
		logEvents: true,
	})
	if err != nil {
		return err
	}
	defer p.Close()

	initial, maximum, err := cfg.Reconnect.Backoff()
	if err != nil {
		return err
	}
	s := &supervisor{
		resolve: socketResolver(cfg),
		options: hyprsocket.Options{
			Interpreter: hyprevent.NewInterpreter(logger),
			Sink:        p.sink,
			Clock:       c,
			Logger:      logger,
		},
		reconnect:      cfg.Reconnect.Enabled,
		initialBackoff: initial,
		maxBackoff:     maximum,
		clock:          c,
		logger:         logger,
		onConnect: func(string) {
			// State from a previous compositor session is stale.
			p.tracker.Reset()
		},
	}

	err = s.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down")
		return nil
	}
	return err
}
