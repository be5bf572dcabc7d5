// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// Fataler is the part of testing.TB the channel helpers need.
type Fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive returns the next value from ch, failing the test if
// none arrives within timeout or ch is closed first.
//
//	item := testutil.RequireReceive(t, sink.C(), 5*time.Second, "waiting for item")
func RequireReceive[T any](t Fataler, ch <-chan T, timeout time.Duration, msgAndArgs ...any) T {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("%s: channel closed", describe(msgAndArgs))
		}
		return value
	case <-timer.C:
		t.Fatalf("%s: nothing received within %v", describe(msgAndArgs), timeout)
	}
	panic("unreachable")
}

// RequireReceiveN collects n values from ch, sharing one timeout
// across all of them.
func RequireReceiveN[T any](t Fataler, ch <-chan T, n int, timeout time.Duration, msgAndArgs ...any) []T {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	values := make([]T, 0, n)
	for len(values) < n {
		select {
		case value, ok := <-ch:
			if !ok {
				t.Fatalf("%s: channel closed after %d of %d values", describe(msgAndArgs), len(values), n)
			}
			values = append(values, value)
		case <-timer.C:
			t.Fatalf("%s: received %d of %d values within %v", describe(msgAndArgs), len(values), n, timeout)
		}
	}
	return values
}

// RequireSend sends value on ch, failing the test if the send does not
// complete within timeout.
func RequireSend[T any](t Fataler, ch chan<- T, value T, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ch <- value:
	case <-timer.C:
		t.Fatalf("%s: send blocked for %v", describe(msgAndArgs), timeout)
	}
}

// RequireClosed waits for ch to be closed (or to yield a value),
// failing the test after timeout. Use it for done channels.
func RequireClosed(t Fataler, ch <-chan struct{}, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
	case <-timer.C:
		t.Fatalf("%s: not closed within %v", describe(msgAndArgs), timeout)
	}
}

// describe renders the optional message: nothing, a plain value, or a
// format string with arguments.
func describe(msgAndArgs []any) string {
	switch len(msgAndArgs) {
	case 0:
		return "channel wait"
	case 1:
		return fmt.Sprint(msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}
