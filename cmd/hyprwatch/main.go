// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// hyprwatch follows a Hyprland compositor's event socket and turns each
// notification line into a typed event.
//
// Subcommands:
//
//	listen   stream events to the log, JSON Lines, a recording,
//	         automation rules and websocket clients (default)
//	view     interactive terminal viewer with a live state panel
//	replay   feed a recording through the same pipeline
//	state    print the snapshot served by a running listener
//	catalog  list the event kinds and their fields
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/hyprwatch/lib/config"
	"github.com/bureau-foundation/hyprwatch/lib/process"
	"github.com/bureau-foundation/hyprwatch/lib/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		process.Fatal(err)
	}
}

// run dispatches to a subcommand. A missing subcommand, or one that
// starts with a dash, means listen.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "--version" {
		version.Print(stdout, "hyprwatch")
		return nil
	}

	command := "listen"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	switch command {
	case "listen":
		return runListen(ctx, args, stdout, stderr)
	case "view":
		return runView(ctx, args, stderr)
	case "replay":
		return runReplay(ctx, args, stdout, stderr)
	case "state":
		return runState(ctx, args, stdout, stderr)
	case "catalog":
		return runCatalog(args, stdout, stderr)
	case "help":
		printHelp(stderr)
		return nil
	default:
		printHelp(stderr)
		return process.Usage(fmt.Errorf("unknown command %q", command))
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `hyprwatch: typed event stream for the Hyprland compositor.

Connects to $XDG_RUNTIME_DIR/hypr/$HYPRLAND_INSTANCE_SIGNATURE/.socket2.sock,
decodes every notification line and hands the result to the configured
outputs. Malformed lines are reported and never stop the stream.

Usage:
  hyprwatch [listen] [flags]       stream events (default)
  hyprwatch view [flags]           interactive viewer
  hyprwatch replay FILE [flags]    replay a recording
  hyprwatch state [ADDR]           print a running listener's snapshot
  hyprwatch catalog [--json]       list event kinds
  hyprwatch --version

Examples:
  # Log every event as JSON
  hyprwatch --log-format json

  # Record a session and serve it to status bars
  hyprwatch --record session.hwr --websocket 127.0.0.1:7878 --reconnect

  # Run automation rules against a recording
  hyprwatch replay session.hwr --rules rules.jsonc

Configuration is read from --config or $%s (YAML or TOML).
Flags override file values. Run "hyprwatch <command> --help" for flags.
`, config.EnvConfig)
}
