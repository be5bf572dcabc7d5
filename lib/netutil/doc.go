// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides small network and HTTP I/O helpers.
//
// [IsExpectedCloseError] classifies errors that end a connection
// normally: the compositor restarting, or the socket being closed
// during shutdown. The listener treats these as a clean end of stream
// rather than a connection failure.
//
// The HTTP response helpers bound body reads at [MaxResponseSize] so a
// misbehaving server cannot exhaust memory. They serve the state
// endpoint client, not streaming responses.
package netutil
