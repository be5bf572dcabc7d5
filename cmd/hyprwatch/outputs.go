// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/bureau-foundation/hyprwatch/lib/automation"
	"github.com/bureau-foundation/hyprwatch/lib/broadcast"
	"github.com/bureau-foundation/hyprwatch/lib/clock"
	"github.com/bureau-foundation/hyprwatch/lib/config"
	"github.com/bureau-foundation/hyprwatch/lib/eventsink"
	"github.com/bureau-foundation/hyprwatch/lib/hyprstate"
	"github.com/bureau-foundation/hyprwatch/lib/recording"
)

const shutdownTimeout = 5 * time.Second

// pipeline is the sink chain behind a listener or a replay, with
// everything that must be released when it is done.
type pipeline struct {
	tracker *hyprstate.Tracker
	sink    *eventsink.Multi

	recorder *recording.Recorder
	engine   *automation.Engine
	hub      *broadcast.Hub

	// addr is the websocket server's bound address.
	addr net.Addr

	closers []func() error
}

// pipelineOptions selects what openPipeline builds.
type pipelineOptions struct {
	cfg    *config.Config
	stdout io.Writer
	logger *slog.Logger
	clock  clock.Clock

	// extra sinks are appended after the tracker and before outputs.
	extra []eventsink.Sink

	// logEvents adds the structured log sink.
	logEvents bool
}

// openPipeline builds the sink chain in delivery order: tracker, log,
// extra sinks, JSON Lines, recorder, websocket hub, automation. On
// error everything opened so far is closed.
func openPipeline(options pipelineOptions) (_ *pipeline, err error) {
	cfg := options.cfg
	p := &pipeline{tracker: hyprstate.NewTracker()}
	defer func() {
		if err != nil {
			p.Close()
		}
	}()

	sinks := []eventsink.Sink{p.tracker}
	if options.logEvents {
		sinks = append(sinks, eventsink.NewLog(options.logger))
	}
	sinks = append(sinks, options.extra...)

	if cfg.Output.JSONL != "" {
		sink, err := p.openJSONL(cfg.Output.JSONL, options.stdout)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}

	if cfg.Output.Record != "" {
		compression, err := recording.ParseCompressionTag(cfg.Output.Compression)
		if err != nil {
			return nil, err
		}
		p.recorder, err = recording.Create(cfg.Output.Record, recording.Options{
			Compression: compression,
			Signature:   cfg.Socket.Signature,
			Clock:       options.clock,
		})
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, p.recorder.Close)
		sinks = append(sinks, p.recorder)
		options.logger.Info("recording",
			"path", cfg.Output.Record,
			"session", p.recorder.Header().Session,
			"compression", compression,
		)
	}

	if cfg.WebSocket.Addr != "" {
		if err := p.serveWebSocket(cfg.WebSocket.Addr, options); err != nil {
			return nil, err
		}
		sinks = append(sinks, p.hub)
	}

	if cfg.Automation.Rules != "" {
		rules, err := automation.ReadFile(cfg.Automation.Rules)
		if err != nil {
			return nil, err
		}
		p.engine, err = automation.NewEngine(rules, automation.Options{Logger: options.logger})
		if err != nil {
			return nil, err
		}
		// Commands can be slow; they must not hold up the stream.
		async := eventsink.NewAsync(p.engine,
			eventsink.WithLogger(options.logger),
			eventsink.WithClock(options.clock),
		)
		p.closers = append(p.closers, async.Close)
		engine := p.engine
		sinks = append(sinks, eventsink.Filter(async, func(delivery eventsink.Delivery) bool {
			return len(engine.Matching(delivery.Event)) > 0
		}))
		options.logger.Info("automation rules loaded", "path", cfg.Automation.Rules, "rules", p.engine.Rules())
	}

	p.sink = eventsink.NewMulti(sinks...)
	return p, nil
}

func (p *pipeline) openJSONL(path string, stdout io.Writer) (eventsink.Sink, error) {
	if path == "-" {
		return eventsink.NewJSONLines(stdout), nil
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening JSON Lines output: %w", err)
	}
	p.closers = append(p.closers, file.Close)
	return eventsink.NewJSONLines(file), nil
}

// serveWebSocket binds addr and serves the hub on it. Binding happens
// here so that an address in use fails startup.
func (p *pipeline) serveWebSocket(addr string, options pipelineOptions) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("websocket listen on %s: %w", addr, err)
	}
	p.addr = listener.Addr()
	p.hub = broadcast.NewHub(broadcast.Options{
		Tracker: p.tracker,
		Clock:   options.clock,
		Logger:  options.logger,
	})
	server := &http.Server{
		Handler:           p.hub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			options.logger.Error("websocket server failed", "error", err)
		}
	}()
	options.logger.Info("websocket server listening", "addr", p.addr.String())

	p.closers = append(p.closers, p.hub.Close, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(ctx)
	})
	return nil
}

// Close releases outputs in reverse order of opening.
func (p *pipeline) Close() error {
	var errs []error
	for _, closer := range slices.Backward(p.closers) {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}
