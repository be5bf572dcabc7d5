// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/hyprwatch/lib/clock"
	"github.com/bureau-foundation/hyprwatch/lib/config"
	"github.com/bureau-foundation/hyprwatch/lib/eventsink"
	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
	"github.com/bureau-foundation/hyprwatch/lib/hyprsocket"
	"github.com/bureau-foundation/hyprwatch/lib/hyprstate"
	"github.com/bureau-foundation/hyprwatch/lib/logging"
	"github.com/bureau-foundation/hyprwatch/lib/statusview"
)

const viewBuffer = 256

func runView(ctx context.Context, args []string, stderr io.Writer) error {
	var connection connectionFlags
	var logOutput string

	flagSet := pflag.NewFlagSet("hyprwatch view", pflag.ContinueOnError)
	connection.AddFlags(flagSet)
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to FILE (the terminal is taken by the viewer)")
	if err := parseFlags(flagSet, args, stderr, "hyprwatch view [flags]"); err != nil {
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
	})
	if err != nil {
		return err
	}

	// Anything written to the terminal would corrupt the display.
	logger := slog.New(slog.DiscardHandler)
	if logOutput != "" {
		file, err := os.OpenFile(logOutput, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log output: %w", err)
		}
		defer file.Close()
		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logger = logging.New(file, level, logging.FormatJSON)
	}

	resolve := socketResolver(cfg)
	path, err := resolve()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tracker := hyprstate.NewTracker()
	channel := eventsink.NewChannel(viewBuffer)
	initial, maximum, err := cfg.Reconnect.Backoff()
	if err != nil {
		return err
	}
	s := &supervisor{
		resolve: resolve,
		options: hyprsocket.Options{
			Interpreter: hyprevent.NewInterpreter(logger),
			Sink:        eventsink.NewMulti(tracker, channel),
			Logger:      logger,
		},
		reconnect:      cfg.Reconnect.Enabled,
		initialBackoff: initial,
		maxBackoff:     maximum,
		clock:          clock.Real(),
		logger:         logger,
		onConnect:      func(string) { tracker.Reset() },
	}

	supervised := make(chan error, 1)
	go func() {
		err := s.Run(ctx)
		channel.Close()
		supervised <- err
	}()

	model := statusview.NewModel(statusview.Options{
		Items:   channel.C(),
		Tracker: tracker,
		Title:   path,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()

	cancel()
	streamErr := <-supervised
	if errors.Is(streamErr, context.Canceled) {
		streamErr = nil
	}
	// Killed means ctx was cancelled, normally by a signal.
	if errors.Is(runErr, tea.ErrProgramKilled) {
		runErr = nil
	}
	return errors.Join(runErr, streamErr)
}
