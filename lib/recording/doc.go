// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package recording captures the raw event stream to a file and plays
// it back.
//
// A recording is a CBOR [Header] written uncompressed, followed by a
// stream compressed with the header's [CompressionTag] that holds a
// CBOR sequence of [Entry] items. Every entry but the last carries one
// [Record] (sequence, receive time, raw line). The last carries a
// [Trailer] with the record count and a BLAKE3-256 digest over every
// line followed by "\n", so a reader can tell a complete recording
// from a truncated or altered one.
//
// Lines are stored exactly as read from the socket, including lines
// that failed to decode, so replaying a recording through a newer
// decoder reproduces what a live listener would have seen.
//
//	recorder, err := recording.Create(path, recording.Options{Compression: recording.CompressionZstd})
//	// ... use recorder as an eventsink.Sink ...
//	err = recorder.Close()
//
//	reader, err := recording.OpenFile(path)
//	stats, err := recording.Replay(ctx, reader, recording.ReplayOptions{Sink: sink})
package recording
