// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Components that stamp events, back off between reconnects, or run
// periodic work take a [Clock] instead of calling the time package.
// Production code passes Real(). Tests pass Fake(), which stands still
// until Advance is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go supervisor.Run(ctx)     // registers a backoff timer
//	c.WaitForTimers(1)         // wait until it has
//	c.Advance(2 * time.Second) // fire it
//
// WaitForTimers closes the race between a goroutine registering a
// timer and the test advancing past it.
package clock
