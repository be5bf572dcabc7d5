// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package recording

import (
	"context"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/hyprwatch/lib/clock"
	"github.com/bureau-foundation/hyprwatch/lib/codec"
	"github.com/bureau-foundation/hyprwatch/lib/eventsink"
)

// Options configures a Recorder.
type Options struct {
	Compression CompressionTag

	// Signature is the compositor instance being recorded, stored in
	// the header for reference.
	Signature string

	// Session identifies the recording. Zero means a new random UUID.
	Session uuid.UUID

	// Clock stamps StartedAt and EndedAt. Default: clock.Real().
	Clock clock.Clock
}

// Recorder appends raw lines to a recording. It is an eventsink.Sink:
// both decoded events and decode failures are recorded, since both are
// lines from the socket. Safe for concurrent use.
type Recorder struct {
	mu         sync.Mutex
	header     Header
	file       io.Closer
	compressed io.WriteCloser
	encoder    *codec.Encoder
	digest     hash.Hash
	records    uint64
	clock      clock.Clock
	closed     bool
}

// Create creates (or truncates) the file at path and starts a
// recording in it. Close finishes the recording and closes the file.
func Create(path string, options Options) (*Recorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating recording: %w", err)
	}
	recorder, err := NewRecorder(file, options)
	if err != nil {
		file.Close()
		return nil, err
	}
	recorder.file = file
	return recorder, nil
}

// NewRecorder writes a header to w and returns a Recorder appending to
// it. Close finishes the recording but does not close w.
func NewRecorder(w io.Writer, options Options) (*Recorder, error) {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Session == uuid.Nil {
		session, err := uuid.NewRandom()
		if err != nil {
			return nil, fmt.Errorf("generating session id: %w", err)
		}
		options.Session = session
	}

	header := Header{
		Magic:       Magic,
		Version:     Version,
		Session:     options.Session,
		Signature:   options.Signature,
		StartedAt:   options.Clock.Now().UTC(),
		Compression: options.Compression,
	}
	if err := codec.NewEncoder(w).Encode(header); err != nil {
		return nil, fmt.Errorf("writing recording header: %w", err)
	}

	compressed, err := compressor(w, options.Compression)
	if err != nil {
		return nil, err
	}
	return &Recorder{
		header:     header,
		compressed: compressed,
		encoder:    codec.NewEncoder(compressed),
		digest:     blake3.New(),
		clock:      options.Clock,
	}, nil
}

// Header returns the header written at the start of the recording.
func (recorder *Recorder) Header() Header {
	return recorder.header
}

// Write appends one record.
func (recorder *Recorder) Write(record Record) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if recorder.closed {
		return eventsink.ErrClosed
	}
	if err := recorder.encoder.Encode(Entry{Record: &record}); err != nil {
		return fmt.Errorf("writing record %d: %w", record.Sequence, err)
	}
	recorder.digest.Write([]byte(record.Line))
	recorder.digest.Write([]byte{'\n'})
	recorder.records++
	return nil
}

func (recorder *Recorder) HandleEvent(_ context.Context, delivery eventsink.Delivery) error {
	return recorder.Write(Record{Sequence: delivery.Sequence, ReceivedAt: delivery.ReceivedAt, Line: delivery.Line})
}

func (recorder *Recorder) HandleFailure(_ context.Context, failure eventsink.Failure) error {
	return recorder.Write(Record{Sequence: failure.Sequence, ReceivedAt: failure.ReceivedAt, Line: failure.Line})
}

// Records returns how many records have been written.
func (recorder *Recorder) Records() uint64 {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return recorder.records
}

// Close writes the trailer, flushes the compressed stream and, for
// recorders made by Create, closes the file. Calling Close again is a
// no-op.
func (recorder *Recorder) Close() error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if recorder.closed {
		return nil
	}
	recorder.closed = true

	trailer := Trailer{
		Records: recorder.records,
		Digest:  recorder.digest.Sum(nil),
		EndedAt: recorder.clock.Now().UTC(),
	}
	var errs []error
	if err := recorder.encoder.Encode(Entry{Trailer: &trailer}); err != nil {
		errs = append(errs, fmt.Errorf("writing trailer: %w", err))
	}
	if err := recorder.compressed.Close(); err != nil {
		errs = append(errs, fmt.Errorf("flushing %s stream: %w", recorder.header.Compression, err))
	}
	if recorder.file != nil {
		if err := recorder.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing recording: %w", err))
		}
	}
	return errors.Join(errs...)
}
