// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprsocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/bureau-foundation/hyprwatch/lib/clock"
	"github.com/bureau-foundation/hyprwatch/lib/eventsink"
	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
	"github.com/bureau-foundation/hyprwatch/lib/testutil"
)

const testTimeout = 5 * time.Second

// serveSocket listens on a unix socket in a fresh directory and hands
// the first accepted connection to the returned channel.
func serveSocket(t *testing.T) (string, <-chan net.Conn) {
	t.Helper()
	path := filepath.Join(testutil.SocketDir(t), ".socket2.sock")
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()
	return path, accepted
}

func TestListenerEndToEnd(t *testing.T) {
	path, accepted := serveSocket(t)
	logger, _ := testutil.CaptureLogger()
	sink := eventsink.NewChannel(64)
	fake := clock.Fake(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))

	listener, err := Dial(context.Background(), path, Options{Sink: sink, Clock: fake, Logger: logger})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if listener.State() != StateConnecting {
		t.Errorf("State after Dial = %v, want connecting", listener.State())
	}
	task := listener.Start(context.Background())
	server := testutil.RequireReceive(t, accepted, testTimeout, "accepting connection")

	lines := []string{
		"workspacev2>>3,main",
		"garbage",
		"openwindow>>0x123,1,firefox,Example Title",
		"movewindow>>addressonly",
		"fullscreen>>1",
		"workspacev2>>x,main",
		"futuretag>>1,2",
		"configreloaded>>",
	}
	wantEvents := []hyprevent.Event{
		hyprevent.WorkspaceV2{ID: 3, Name: "main"},
		hyprevent.OpenWindow{Address: "0x123", Workspace: "1", Class: "firefox", Title: "Example Title"},
		hyprevent.Fullscreen{Entered: true},
		hyprevent.Unknown{Tag: "futuretag", Payload: "1,2"},
		hyprevent.ConfigReloaded{},
	}
	wantFailures := []uint64{2, 4, 6}

	if _, err := io.WriteString(server, strings.Join(lines, "\n")+"\n"); err != nil {
		t.Fatalf("writing lines: %v", err)
	}

	var events []eventsink.Delivery
	var failures []eventsink.Failure
	for _, item := range testutil.RequireReceiveN(t, sink.C(), len(lines), testTimeout, "waiting for items") {
		switch {
		case item.Delivery != nil:
			events = append(events, *item.Delivery)
		case item.Failure != nil:
			failures = append(failures, *item.Failure)
		}
	}

	if listener.State() != StateStreaming {
		t.Errorf("State while connected = %v, want streaming", listener.State())
	}
	select {
	case <-task.Done():
		t.Fatalf("listener stopped after malformed lines: %v", task.Wait())
	default:
	}

	if len(events) != len(wantEvents) {
		t.Fatalf("got %d events, want %d", len(events), len(wantEvents))
	}
	for index, delivery := range events {
		if delivery.Event != wantEvents[index] {
			t.Errorf("event %d = %#v, want %#v", index, delivery.Event, wantEvents[index])
		}
		if !delivery.ReceivedAt.Equal(fake.Now()) {
			t.Errorf("event %d ReceivedAt = %v, want %v", index, delivery.ReceivedAt, fake.Now())
		}
	}
	if events[0].Sequence != 1 || events[0].Line != lines[0] {
		t.Errorf("first delivery = %+v, want sequence 1 line %q", events[0], lines[0])
	}

	if len(failures) != len(wantFailures) {
		t.Fatalf("got %d failures, want %d", len(failures), len(wantFailures))
	}
	for index, failure := range failures {
		if failure.Sequence != wantFailures[index] {
			t.Errorf("failure %d sequence = %d, want %d", index, failure.Sequence, wantFailures[index])
		}
		if failure.Line != lines[failure.Sequence-1] {
			t.Errorf("failure %d line = %q, want %q", index, failure.Line, lines[failure.Sequence-1])
		}
		if !errors.Is(failure.Err, hyprevent.ErrDecode) {
			t.Errorf("failure %d error %v is not ErrDecode", index, failure.Err)
		}
	}

	server.Close()
	if err := task.Wait(); err != nil {
		t.Errorf("Run after peer close = %v, want nil", err)
	}
	if listener.State() != StateClosed {
		t.Errorf("State after close = %v, want closed", listener.State())
	}

	stats := listener.Stats()
	want := Stats{Lines: uint64(len(lines)), Events: uint64(len(wantEvents)), Failures: uint64(len(wantFailures))}
	if stats != want {
		t.Errorf("Stats = %+v, want %+v", stats, want)
	}
}

func TestListenerFinalUnterminatedLine(t *testing.T) {
	client, server := net.Pipe()
	sink := eventsink.NewChannel(8)
	listener := NewListener(client, Options{Sink: sink, Logger: discardLogger()})
	task := listener.Start(context.Background())

	go func() {
		io.WriteString(server, "workspace>>1\n\nsubmap>>resize")
		server.Close()
	}()

	if err := task.Wait(); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}
	sink.Close()

	var got []eventsink.Item
	for item := range sink.C() {
		got = append(got, item)
	}
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	if got[1].Delivery == nil || got[1].Delivery.Event != (hyprevent.Submap{Name: "resize"}) {
		t.Errorf("last item = %+v, want submap resize", got[1])
	}
	// The empty line still counts toward the sequence.
	if got[1].Sequence() != 3 {
		t.Errorf("last sequence = %d, want 3", got[1].Sequence())
	}
	if stats := listener.Stats(); stats.Lines != 3 || stats.Events != 2 {
		t.Errorf("Stats = %+v, want 3 lines 2 events", stats)
	}
}

func TestListenerCancellation(t *testing.T) {
	path, accepted := serveSocket(t)
	listener, err := Dial(context.Background(), path, Options{Sink: eventsink.Discard, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	task := listener.Start(ctx)
	server := testutil.RequireReceive(t, accepted, testTimeout, "accepting connection")
	defer server.Close()

	cancel()
	testutil.RequireClosed(t, task.Done(), testTimeout, "listener did not stop after cancel")
	if err := task.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("Run after cancel = %v, want context.Canceled", err)
	}
	if listener.State() != StateClosed {
		t.Errorf("State = %v, want closed", listener.State())
	}
}

func TestTaskStop(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	listener := NewListener(client, Options{Sink: eventsink.Discard, Logger: discardLogger()})

	task := listener.Start(context.Background())
	if err := task.Stop(); !errors.Is(err, context.Canceled) {
		t.Errorf("Stop = %v, want context.Canceled", err)
	}
	if task.Listener() != listener {
		t.Error("Task.Listener returned a different listener")
	}
}

func TestDialMissingSocket(t *testing.T) {
	path := filepath.Join(testutil.SocketDir(t), "missing.sock")
	_, err := Dial(context.Background(), path, Options{Logger: discardLogger()})

	var connectionErr *ConnectionError
	if !errors.As(err, &connectionErr) {
		t.Fatalf("Dial error = %v, want *ConnectionError", err)
	}
	if connectionErr.Op != "dial" || connectionErr.Path != path {
		t.Errorf("ConnectionError = %+v, want op dial path %s", connectionErr, path)
	}
	if connectionErr.Unwrap() == nil {
		t.Error("ConnectionError does not wrap the dial error")
	}
}

// failingConn returns a fixed error from Read after its data runs out.
type failingConn struct {
	net.Conn
	data string
	err  error
}

func (conn *failingConn) Read(buffer []byte) (int, error) {
	if conn.data == "" {
		return 0, conn.err
	}
	n := copy(buffer, conn.data)
	conn.data = conn.data[n:]
	return n, nil
}

func (conn *failingConn) Close() error         { return nil }
func (conn *failingConn) RemoteAddr() net.Addr { return nil }

func TestListenerReadError(t *testing.T) {
	readErr := errors.New("connection reset by gremlins")
	sink := eventsink.NewChannel(4)
	listener := NewListener(&failingConn{data: "workspace>>2\n", err: readErr}, Options{Sink: sink, Logger: discardLogger()})

	err := listener.Run(context.Background())
	var connectionErr *ConnectionError
	if !errors.As(err, &connectionErr) {
		t.Fatalf("Run = %v, want *ConnectionError", err)
	}
	if connectionErr.Op != "read" || !errors.Is(err, readErr) {
		t.Errorf("ConnectionError = %+v, want op read wrapping %v", connectionErr, readErr)
	}

	item := testutil.RequireReceive(t, sink.C(), testTimeout, "line before the error")
	if item.Delivery == nil || item.Delivery.Event != (hyprevent.Workspace{Name: "2"}) {
		t.Errorf("item = %+v, want workspace 2", item)
	}
}

func TestListenerResetEndsCleanly(t *testing.T) {
	reset := &net.OpError{Op: "read", Net: "unix", Err: os.NewSyscallError("read", syscall.ECONNRESET)}
	listener := NewListener(&failingConn{data: "submap>>resize\n", err: reset}, Options{Sink: eventsink.Discard, Logger: discardLogger()})
	if err := listener.Run(context.Background()); err != nil {
		t.Errorf("Run after connection reset = %v, want nil", err)
	}
	if stats := listener.Stats(); stats.Events != 1 {
		t.Errorf("Stats = %+v, want 1 event", stats)
	}
}

func TestListenerRunTwice(t *testing.T) {
	listener := NewListener(&failingConn{err: io.EOF}, Options{Sink: eventsink.Discard, Logger: discardLogger()})
	if err := listener.Run(context.Background()); err != nil {
		t.Fatalf("first Run = %v", err)
	}
	if err := listener.Run(context.Background()); !errors.Is(err, ErrAlreadyRun) {
		t.Errorf("second Run = %v, want ErrAlreadyRun", err)
	}
}

func TestListenerSinkErrorDoesNotStop(t *testing.T) {
	logger, capture := testutil.CaptureLogger()
	calls := 0
	sink := eventsink.Funcs{
		OnEvent: func(context.Context, eventsink.Delivery) error {
			calls++
			return fmt.Errorf("sink %d failed", calls)
		},
	}
	listener := NewListener(&failingConn{data: "workspace>>1\nworkspace>>2\n", err: io.EOF}, Options{Sink: sink, Logger: logger})

	if err := listener.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if calls != 2 {
		t.Errorf("sink called %d times, want 2", calls)
	}
	if records := capture.WithMessage(t, "sink rejected event"); len(records) != 2 {
		t.Errorf("got %d sink warnings, want 2", len(records))
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{
		StateConnecting: "connecting",
		StateStreaming:  "streaming",
		StateClosed:     "closed",
		State(42):       "invalid",
	} {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
