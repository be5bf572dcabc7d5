// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/hyprwatch/lib/config"
	"github.com/bureau-foundation/hyprwatch/lib/hyprstate"
	"github.com/bureau-foundation/hyprwatch/lib/netutil"
	"github.com/bureau-foundation/hyprwatch/lib/version"
)

const stateTimeout = 5 * time.Second

func runState(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var configPath string
	flagSet := pflag.NewFlagSet("hyprwatch state", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "configuration file supplying websocket.addr")
	if err := parseFlags(flagSet, args, stderr, "hyprwatch state [ADDR] [flags]"); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 1 {
		return usageError("unexpected argument: %s", flagSet.Arg(1))
	}

	addr := flagSet.Arg(0)
	if addr == "" {
		cfg, err := loadConfig(configPath, func(*config.Config) {})
		if err != nil {
			return err
		}
		addr = cfg.WebSocket.Addr
	}
	if addr == "" {
		return usageError("no address: pass ADDR or set websocket.addr in the configuration")
	}

	snapshot, err := fetchState(ctx, http.DefaultClient, addr)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	fmt.Fprintf(stdout, "%s\n", data)
	return nil
}

// fetchState asks a running listener for its current snapshot. addr is
// host:port or a full http URL.
func fetchState(ctx context.Context, client *http.Client, addr string) (hyprstate.Snapshot, error) {
	url := strings.TrimSuffix(addr, "/")
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	url += "/state"

	ctx, cancel := context.WithTimeout(ctx, stateTimeout)
	defer cancel()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return hyprstate.Snapshot{}, fmt.Errorf("building request: %w", err)
	}
	request.Header.Set("User-Agent", version.UserAgent())
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return hyprstate.Snapshot{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return hyprstate.Snapshot{}, fmt.Errorf("fetching %s: %s: %s", url, response.Status, strings.TrimSpace(netutil.ErrorBody(response.Body)))
	}
	var snapshot hyprstate.Snapshot
	if err := netutil.DecodeResponse(response.Body, &snapshot); err != nil {
		return hyprstate.Snapshot{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	return snapshot, nil
}
