// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/bureau-foundation/hyprwatch/lib/clock"
	"github.com/bureau-foundation/hyprwatch/lib/hyprsocket"
)

// supervisor runs listeners against the event socket, reconnecting
// with exponential backoff when reconnect is set.
type supervisor struct {
	resolve func() (string, error)
	options hyprsocket.Options

	reconnect      bool
	initialBackoff time.Duration
	maxBackoff     time.Duration

	clock  clock.Clock
	logger *slog.Logger

	// onConnect runs after each successful dial, before any line is
	// delivered.
	onConnect func(path string)
}

// Run connects and streams until the connection ends. Without
// reconnect it returns the first connection's result: nil when the
// compositor closed the socket. With reconnect it only returns when
// ctx is cancelled.
func (s *supervisor) Run(ctx context.Context) error {
	backoff := s.initialBackoff
	for {
		streamed, err := s.connectOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !s.reconnect {
			return err
		}

		if streamed {
			backoff = s.initialBackoff
		}
		if err != nil {
			s.logger.Warn("event stream failed, reconnecting", "error", err, "backoff", backoff)
		} else {
			s.logger.Info("event stream closed, reconnecting", "backoff", backoff)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(backoff):
		}
		backoff = min(backoff*2, s.maxBackoff)
	}
}

// connectOnce runs one connection to completion and reports whether it
// carried any lines.
func (s *supervisor) connectOnce(ctx context.Context) (bool, error) {
	path, err := s.resolve()
	if err != nil {
		return false, err
	}
	listener, err := hyprsocket.Dial(ctx, path, s.options)
	if err != nil {
		return false, err
	}
	if s.onConnect != nil {
		s.onConnect(path)
	}
	err = listener.Run(ctx)
	return listener.Stats().Lines > 0, err
}
