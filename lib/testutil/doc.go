// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [SocketDir] creates a temporary directory in /tmp for unix domain
// sockets, which have a 108-byte path limit that t.TempDir() paths can
// exceed.
//
// [RequireReceive], [RequireReceiveN], [RequireSend] and [RequireClosed]
// bound channel operations with a wall-clock timeout. They are the only
// place in the test suite where real time is used; everything else
// runs on lib/clock's fake.
//
// [CaptureLogger] returns a JSON slog logger whose output can be parsed
// back into records, for tests that assert on what was logged.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
