// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/hyprwatch/lib/clock"
	"github.com/bureau-foundation/hyprwatch/lib/config"
	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
	"github.com/bureau-foundation/hyprwatch/lib/recording"
)

func runReplay(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var outputs outputFlags
	var configPath, logLevel, logFormat string
	var speed float64
	var printState bool

	flagSet := pflag.NewFlagSet("hyprwatch replay", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "configuration file (.yaml, .yml or .toml)")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	flagSet.StringVar(&logFormat, "log-format", "", "auto, text or json")
	outputs.AddFlags(flagSet, false)
	flagSet.Float64Var(&speed, "speed", 0, "pace relative to the recorded timing (1 = real time, 0 = as fast as possible)")
	flagSet.BoolVar(&printState, "state", false, "print the final state snapshot as JSON to stdout")
	if err := parseFlags(flagSet, args, stderr, "hyprwatch replay FILE [flags]"); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		return usageError("replay takes exactly one recording file")
	}
	if speed < 0 {
		return usageError("--speed must not be negative")
	}

	cfg, err := loadConfig(configPath, func(cfg *config.Config) {
		if flagSet.Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if flagSet.Changed("log-format") {
			cfg.Log.Format = logFormat
		}
		// A replay never records or serves, whatever the file says.
		cfg.Output.Record = ""
		cfg.WebSocket.Addr = ""
		cfg.Output.JSONL = ""
		cfg.Automation.Rules = ""
		outputs.apply(flagSet, cfg)
	})
	if err != nil {
		return err
	}
	logger, err := newLogger(stderr, cfg)
	if err != nil {
		return err
	}

	reader, err := recording.OpenFile(flagSet.Arg(0))
	if err != nil {
		return err
	}
	defer reader.Close()

	header := reader.Header()
	logger.Info("replaying",
		"path", flagSet.Arg(0),
		"session", header.Session,
		"signature", header.Signature,
		"started_at", header.StartedAt,
		"compression", header.Compression,
	)

	p, err := openPipeline(pipelineOptions{
		cfg:       cfg,
		stdout:    stdout,
		logger:    logger,
		clock:     clock.Real(),
		logEvents: true,
	})
	if err != nil {
		return err
	}

	stats, replayErr := recording.Replay(ctx, reader, recording.ReplayOptions{
		Interpreter: hyprevent.NewInterpreter(logger),
		Sink:        p.sink,
		Speed:       speed,
		Logger:      logger,
	})
	closeErr := p.Close()

	logger.Info("replay finished",
		"records", stats.Records,
		"events", stats.Events,
		"failures", stats.Failures,
	)
	if p.engine != nil {
		engineStats := p.engine.Stats()
		logger.Info("automation summary", "fired", engineStats.Fired, "failed", engineStats.Failed)
	}

	if printState {
		data, err := json.MarshalIndent(p.tracker.Snapshot(), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		fmt.Fprintf(stdout, "%s\n", data)
	}
	if errors.Is(replayErr, context.Canceled) {
		replayErr = nil
	}
	return errors.Join(replayErr, closeErr)
}
