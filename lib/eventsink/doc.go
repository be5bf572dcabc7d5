// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package eventsink defines the consumer side of the event stream.
//
// A listener hands every line it reads to a [Sink]: decoded events
// arrive as a [Delivery] through HandleEvent, and lines that failed to
// decode arrive as a [Failure] through HandleFailure. Both carry the
// 1-based line sequence on the connection, the receive time, and the
// raw line. Sinks are called synchronously from the reading goroutine
// in line order, so a slow sink slows ingestion; wrap it in [Async]
// when that matters.
//
// The package provides the generic building blocks:
//
//   - [Log] writes structured log records.
//   - [JSONLines] writes one JSON [Record] per line.
//   - [Multi] fans out to several sinks.
//   - [Filter] and [Kinds] drop events before they reach a sink.
//   - [Async] decouples a sink behind a buffered channel.
//   - [Channel] exposes the stream as a Go channel.
//   - [Funcs] adapts plain functions.
//
// Sinks that hold resources implement io.Closer; [Close] closes any
// sink that does.
package eventsink
