// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hyprsocket connects to Hyprland's event socket and drives the
// ingestion loop.
//
// A [Listener] owns one connection and moves through three states:
// Connecting, Streaming, Closed. [Dial] opens the socket (a failure is
// a [ConnectionError] with Op "dial" and is never retried here);
// [Listener.Run] reads newline-terminated lines one at a time, decodes
// each with a hyprevent.Interpreter, and hands the result to an
// eventsink.Sink. A line that fails to decode is reported to the sink
// and the loop continues; only transport failures end the stream.
//
// Run returns nil when the compositor closes the socket, the context's
// error when the context is cancelled (the connection is closed to
// unblock the pending read), and a [ConnectionError] with Op "read" on
// any other I/O error. [Listener.Start] runs the loop in its own
// goroutine and returns a [Task] for waiting on or stopping it.
//
// Reconnecting after a dropped connection is the caller's concern.
//
// [Locator] derives the socket path from explicit values (runtime
// directory and instance signature). Nothing in this package reads the
// environment.
package hyprsocket
