// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package recording

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	// Magic identifies a recording file.
	Magic = "hyprwatch-recording"

	// Version is the format version this package writes and reads.
	Version = 1
)

var (
	// ErrNotRecording is returned when a file does not start with a
	// recording header.
	ErrNotRecording = errors.New("not a hyprwatch recording")

	// ErrTruncated is returned when the stream ends without a trailer.
	ErrTruncated = errors.New("recording truncated: no trailer")

	// ErrDigestMismatch is returned when the trailer's count or digest
	// does not match the records read.
	ErrDigestMismatch = errors.New("recording digest mismatch")
)

// Header is the uncompressed first item of a recording.
type Header struct {
	Magic       string         `cbor:"magic"`
	Version     int            `cbor:"version"`
	Session     uuid.UUID      `cbor:"session"`
	Signature   string         `cbor:"signature,omitempty"`
	StartedAt   time.Time      `cbor:"started_at"`
	Compression CompressionTag `cbor:"compression"`
}

// Record is one raw line as it was read from the socket.
type Record struct {
	Sequence   uint64    `cbor:"sequence"`
	ReceivedAt time.Time `cbor:"received_at"`
	Line       string    `cbor:"line"`
}

// Trailer closes a recording.
type Trailer struct {
	Records uint64    `cbor:"records"`
	Digest  []byte    `cbor:"digest"`
	EndedAt time.Time `cbor:"ended_at"`
}

// Entry holds exactly one of Record or Trailer.
type Entry struct {
	Record  *Record  `cbor:"record,omitempty"`
	Trailer *Trailer `cbor:"trailer,omitempty"`
}
