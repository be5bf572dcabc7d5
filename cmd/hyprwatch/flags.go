// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/hyprwatch/lib/config"
	"github.com/bureau-foundation/hyprwatch/lib/hyprsocket"
	"github.com/bureau-foundation/hyprwatch/lib/logging"
	"github.com/bureau-foundation/hyprwatch/lib/process"
)

// connectionFlags are shared by listen and view.
type connectionFlags struct {
	configPath string
	signature  string
	runtimeDir string
	socketPath string
	logLevel   string
	logFormat  string
	reconnect  bool
}

func (flags *connectionFlags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&flags.configPath, "config", "", "configuration file (.yaml, .yml or .toml)")
	flagSet.StringVar(&flags.signature, "signature", "", "Hyprland instance signature (default: $HYPRLAND_INSTANCE_SIGNATURE)")
	flagSet.StringVar(&flags.runtimeDir, "runtime-dir", "", "runtime directory (default: $XDG_RUNTIME_DIR)")
	flagSet.StringVar(&flags.socketPath, "socket", "", "event socket path, overriding --signature and --runtime-dir")
	flagSet.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")
	flagSet.StringVar(&flags.logFormat, "log-format", "", "auto, text or json")
	flagSet.BoolVar(&flags.reconnect, "reconnect", false, "reconnect with backoff when the compositor closes the socket")
}

// apply overrides configuration values with the flags the user set.
func (flags *connectionFlags) apply(flagSet *pflag.FlagSet, cfg *config.Config) {
	if flagSet.Changed("signature") {
		cfg.Socket.Signature = flags.signature
	}
	if flagSet.Changed("runtime-dir") {
		cfg.Socket.RuntimeDir = flags.runtimeDir
	}
	if flagSet.Changed("socket") {
		cfg.Socket.Path = flags.socketPath
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if flagSet.Changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
	if flagSet.Changed("reconnect") {
		cfg.Reconnect.Enabled = flags.reconnect
	}
}

// outputFlags select the sinks. listen has all of them; replay has
// the ones that make sense offline.
type outputFlags struct {
	jsonl       string
	record      string
	compression string
	rules       string
	websocket   string
}

func (flags *outputFlags) AddFlags(flagSet *pflag.FlagSet, live bool) {
	flagSet.StringVar(&flags.jsonl, "jsonl", "", `append JSON Lines records to FILE, or "-" for stdout`)
	flagSet.StringVar(&flags.rules, "rules", "", "automation rules file (JSONC)")
	if !live {
		return
	}
	flagSet.StringVar(&flags.record, "record", "", "record the raw stream to FILE")
	flagSet.StringVar(&flags.compression, "compression", "", "recording compression: none, lz4 or zstd")
	flagSet.StringVar(&flags.websocket, "websocket", "", "serve /ws and /state on ADDR")
}

func (flags *outputFlags) apply(flagSet *pflag.FlagSet, cfg *config.Config) {
	if flagSet.Changed("jsonl") {
		cfg.Output.JSONL = flags.jsonl
	}
	if flagSet.Changed("record") {
		cfg.Output.Record = flags.record
	}
	if flagSet.Changed("compression") {
		cfg.Output.Compression = flags.compression
	}
	if flagSet.Changed("rules") {
		cfg.Automation.Rules = flags.rules
	}
	if flagSet.Changed("websocket") {
		cfg.WebSocket.Addr = flags.websocket
	}
}

// parseFlags parses args, printing help on --help. It returns
// pflag.ErrHelp when help was printed, which callers treat as success.
func parseFlags(flagSet *pflag.FlagSet, args []string, stderr io.Writer, usage string) error {
	flagSet.SetOutput(io.Discard)
	flagSet.BoolP("help", "h", false, "show help")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printCommandHelp(flagSet, stderr, usage)
			return pflag.ErrHelp
		}
		return process.Usage(err)
	}
	if help, _ := flagSet.GetBool("help"); help {
		printCommandHelp(flagSet, stderr, usage)
		return pflag.ErrHelp
	}
	return nil
}

func printCommandHelp(flagSet *pflag.FlagSet, w io.Writer, usage string) {
	fmt.Fprintf(w, "Usage:\n  %s\n\nFlags:\n", usage)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}

// loadConfig reads the configuration file (--config, then
// $HYPRWATCH_CONFIG, then defaults) and applies apply before
// validating.
func loadConfig(path string, apply func(*config.Config)) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	return logging.Parse(w, cfg.Log.Level, cfg.Log.Format)
}

// socketResolver returns a function yielding the event socket path.
// It is called again before every reconnect, since the socket only
// exists while the compositor runs.
func socketResolver(cfg *config.Config) func() (string, error) {
	if cfg.Socket.Path != "" {
		path := cfg.Socket.Path
		return func() (string, error) { return path, nil }
	}
	locator := hyprsocket.Locator{RuntimeDir: cfg.Socket.RuntimeDir, Signature: cfg.Socket.Signature}
	return locator.Resolve
}

func usageError(format string, args ...any) error {
	return process.Usage(fmt.Errorf(format, args...))
}
