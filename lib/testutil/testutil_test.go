// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

// recorder captures Fatalf instead of stopping the test. Fatalf panics
// so that helpers do not continue past the failure, as with
// testing.T's runtime.Goexit.
type recorder struct {
	message string
}

type fatalPanic struct{}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.message = fmt.Sprintf(format, args...)
	panic(fatalPanic{})
}

func capture(fn func(r *recorder)) (message string) {
	r := &recorder{}
	defer func() {
		if recovered := recover(); recovered != nil {
			if _, ok := recovered.(fatalPanic); !ok {
				panic(recovered)
			}
		}
		message = r.message
	}()
	fn(r)
	return r.message
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}

	message := capture(func(r *recorder) { RequireReceive(r, ch, 10*time.Millisecond, "waiting for %s", "item") })
	if !strings.HasPrefix(message, "waiting for item: nothing received") {
		t.Errorf("timeout message = %q", message)
	}

	close(ch)
	message = capture(func(r *recorder) { RequireReceive(r, ch, time.Second) })
	if message != "channel wait: channel closed" {
		t.Errorf("closed message = %q", message)
	}
}

func TestRequireReceiveN(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "a"
	ch <- "b"
	got := RequireReceiveN(t, ch, 2, time.Second)
	if strings.Join(got, "") != "ab" {
		t.Errorf("RequireReceiveN = %v, want [a b]", got)
	}

	ch <- "c"
	message := capture(func(r *recorder) { RequireReceiveN(r, ch, 2, 10*time.Millisecond, "pair") })
	if !strings.HasPrefix(message, "pair: received 1 of 2 values") {
		t.Errorf("message = %q", message)
	}
}

func TestRequireSendAndClosed(t *testing.T) {
	ch := make(chan int)
	message := capture(func(r *recorder) { RequireSend(r, ch, 1, 10*time.Millisecond, "send") })
	if !strings.HasPrefix(message, "send: send blocked") {
		t.Errorf("send message = %q", message)
	}

	done := make(chan struct{})
	message = capture(func(r *recorder) { RequireClosed(r, done, 10*time.Millisecond, "done") })
	if !strings.HasPrefix(message, "done: not closed") {
		t.Errorf("closed message = %q", message)
	}
	close(done)
	RequireClosed(t, done, time.Second)
}

func TestSocketDir(t *testing.T) {
	directory := SocketDir(t)
	if !strings.HasPrefix(directory, "/tmp/") {
		t.Errorf("SocketDir = %q, want a path under /tmp", directory)
	}
	if info, err := os.Stat(directory); err != nil || !info.IsDir() {
		t.Errorf("SocketDir not created: %v", err)
	}
}

func TestCaptureLogger(t *testing.T) {
	logger, logs := CaptureLogger()
	logger.Debug("first", "n", 1)
	logger.With(slog.String("component", "test")).Warn("second")
	logger.Warn("second")

	if records := logs.Records(t); len(records) != 3 {
		t.Fatalf("Records = %d, want 3", len(records))
	}
	matched := logs.WithMessage(t, "second")
	if len(matched) != 2 || matched[0]["component"] != "test" {
		t.Errorf("WithMessage = %v", matched)
	}
}
