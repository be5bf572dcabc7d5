// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventsink

import (
	"context"
	"io"
	"time"

	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
)

// Delivery is one successfully decoded line.
type Delivery struct {
	// Sequence is the 1-based line number on the connection.
	Sequence   uint64
	ReceivedAt time.Time
	Line       string
	Event      hyprevent.Event
}

// Failure is one line that could not be decoded. Err satisfies
// errors.Is(Err, hyprevent.ErrDecode).
type Failure struct {
	Sequence   uint64
	ReceivedAt time.Time
	Line       string
	Err        error
}

// Sink consumes the listener's output. An error returned from either
// method is reported by the caller and does not stop the stream.
type Sink interface {
	HandleEvent(ctx context.Context, delivery Delivery) error
	HandleFailure(ctx context.Context, failure Failure) error
}

// Close closes sink if it implements io.Closer.
func Close(sink Sink) error {
	if closer, ok := sink.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Funcs adapts a pair of functions to a [Sink]. A nil function ignores
// the corresponding input.
type Funcs struct {
	OnEvent   func(ctx context.Context, delivery Delivery) error
	OnFailure func(ctx context.Context, failure Failure) error
}

func (funcs Funcs) HandleEvent(ctx context.Context, delivery Delivery) error {
	if funcs.OnEvent == nil {
		return nil
	}
	return funcs.OnEvent(ctx, delivery)
}

func (funcs Funcs) HandleFailure(ctx context.Context, failure Failure) error {
	if funcs.OnFailure == nil {
		return nil
	}
	return funcs.OnFailure(ctx, failure)
}

// Discard is a Sink that drops everything.
var Discard Sink = Funcs{}
