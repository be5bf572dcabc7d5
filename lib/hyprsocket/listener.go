// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprsocket

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"strings"
	"sync/atomic"

	"github.com/bureau-foundation/hyprwatch/lib/clock"
	"github.com/bureau-foundation/hyprwatch/lib/eventsink"
	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
	"github.com/bureau-foundation/hyprwatch/lib/netutil"
)

// State is a listener's position in its lifecycle.
type State int32

const (
	StateConnecting State = iota
	StateStreaming
	StateClosed
)

func (state State) String() string {
	switch state {
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// Options configures a Listener. Every field is optional.
type Options struct {
	// Interpreter decodes lines. Default: hyprevent.NewInterpreter(Logger).
	Interpreter *hyprevent.Interpreter

	// Sink receives every decoded event and decode failure.
	// Default: eventsink.NewLog(Logger).
	Sink eventsink.Sink

	// Clock stamps Delivery.ReceivedAt. Default: clock.Real().
	Clock clock.Clock

	// Logger receives lifecycle messages. Default: slog.Default().
	Logger *slog.Logger
}

func (options Options) withDefaults() Options {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Interpreter == nil {
		options.Interpreter = hyprevent.NewInterpreter(options.Logger)
	}
	if options.Sink == nil {
		options.Sink = eventsink.NewLog(options.Logger)
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	return options
}

// Stats counts what a listener has processed.
type Stats struct {
	Lines    uint64
	Events   uint64
	Failures uint64
}

// Listener reads one connection's notification stream. A Listener is
// run at most once.
type Listener struct {
	conn        net.Conn
	path        string
	interpreter *hyprevent.Interpreter
	sink        eventsink.Sink
	clock       clock.Clock
	logger      *slog.Logger

	state    atomic.Int32
	lines    atomic.Uint64
	events   atomic.Uint64
	failures atomic.Uint64
}

// Dial connects to the event socket at path. The returned listener is
// in StateConnecting until Run is called.
func Dial(ctx context.Context, path string, options Options) (*Listener, error) {
	options = options.withDefaults()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, &ConnectionError{Op: "dial", Path: path, Err: err}
	}

	listener := NewListener(conn, options)
	listener.path = path
	listener.logPeer()
	return listener, nil
}

// NewListener wraps an already-open connection. The listener takes
// ownership of conn and closes it when Run returns.
func NewListener(conn net.Conn, options Options) *Listener {
	options = options.withDefaults()
	listener := &Listener{
		conn:        conn,
		interpreter: options.Interpreter,
		sink:        options.Sink,
		clock:       options.Clock,
		logger:      options.Logger,
	}
	if address := conn.RemoteAddr(); address != nil {
		listener.path = address.String()
	}
	return listener
}

// State returns the listener's current lifecycle state.
func (listener *Listener) State() State {
	return State(listener.state.Load())
}

// Stats returns a snapshot of the counters. Safe to call from any
// goroutine while Run is in progress.
func (listener *Listener) Stats() Stats {
	return Stats{
		Lines:    listener.lines.Load(),
		Events:   listener.events.Load(),
		Failures: listener.failures.Load(),
	}
}

// Path returns the socket path the listener is connected to, if known.
func (listener *Listener) Path() string {
	return listener.path
}

// Run streams lines until the peer closes the connection (nil), ctx is
// cancelled (ctx.Err()), or a read fails (*ConnectionError). Malformed
// lines are reported to the sink and never end the loop. Empty lines
// are counted and skipped.
func (listener *Listener) Run(ctx context.Context) error {
	if !listener.state.CompareAndSwap(int32(StateConnecting), int32(StateStreaming)) {
		return ErrAlreadyRun
	}
	defer listener.state.Store(int32(StateClosed))
	defer listener.conn.Close()

	// Closing the connection unblocks the pending read.
	stop := context.AfterFunc(ctx, func() {
		listener.conn.Close()
	})
	defer stop()

	listener.logger.Info("event stream connected", "path", listener.path)

	reader := bufio.NewReader(listener.conn)
	for {
		line, readErr := reader.ReadString('\n')
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if line != "" {
			listener.handle(ctx, strings.TrimSuffix(line, "\n"))
		}

		if readErr == nil {
			continue
		}
		if netutil.IsExpectedCloseError(readErr) {
			listener.logger.Info("event stream ended",
				"path", listener.path,
				"lines", listener.lines.Load(),
			)
			return nil
		}
		return &ConnectionError{Op: "read", Path: listener.path, Err: readErr}
	}
}

// handle decodes one line and forwards the outcome to the sink.
func (listener *Listener) handle(ctx context.Context, line string) {
	sequence := listener.lines.Add(1)
	if line == "" {
		return
	}
	receivedAt := listener.clock.Now()

	event, err := listener.interpreter.Interpret(line)
	if err != nil {
		listener.failures.Add(1)
		failure := eventsink.Failure{Sequence: sequence, ReceivedAt: receivedAt, Line: line, Err: err}
		if sinkErr := listener.sink.HandleFailure(ctx, failure); sinkErr != nil {
			listener.logger.Warn("sink rejected decode failure", "sequence", sequence, "error", sinkErr)
		}
		return
	}

	listener.events.Add(1)
	delivery := eventsink.Delivery{Sequence: sequence, ReceivedAt: receivedAt, Line: line, Event: event}
	if sinkErr := listener.sink.HandleEvent(ctx, delivery); sinkErr != nil {
		listener.logger.Warn("sink rejected event",
			"sequence", sequence,
			"kind", string(event.Kind()),
			"error", sinkErr,
		)
	}
}

// logPeer logs the process on the other end of the socket once.
func (listener *Listener) logPeer() {
	peer, err := lookupPeer(listener.conn)
	if err != nil {
		listener.logger.Debug("peer credentials unavailable", "path", listener.path, "error", err)
		return
	}
	listener.logger.Info("connected to compositor",
		"path", listener.path,
		"pid", peer.PID,
		"uid", peer.UID,
		"process", peer.Name,
	)
}

// Close releases a listener that will not be run. Run on a closed
// listener returns ErrAlreadyRun.
func (listener *Listener) Close() error {
	listener.state.Store(int32(StateClosed))
	return listener.conn.Close()
}
