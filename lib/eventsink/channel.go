// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventsink

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by sinks that have been closed.
var ErrClosed = errors.New("sink closed")

// Channel publishes the stream on a Go channel. Sends block until the
// receiver takes the item or the context is cancelled.
type Channel struct {
	mu     sync.RWMutex
	closed bool
	items  chan Item
}

// NewChannel returns a Channel with the given buffer capacity.
func NewChannel(capacity int) *Channel {
	return &Channel{items: make(chan Item, capacity)}
}

// C returns the receive side. It is closed by Close.
func (sink *Channel) C() <-chan Item {
	return sink.items
}

func (sink *Channel) HandleEvent(ctx context.Context, delivery Delivery) error {
	return sink.send(ctx, Item{Delivery: &delivery})
}

func (sink *Channel) HandleFailure(ctx context.Context, failure Failure) error {
	return sink.send(ctx, Item{Failure: &failure})
}

func (sink *Channel) send(ctx context.Context, item Item) error {
	sink.mu.RLock()
	defer sink.mu.RUnlock()
	if sink.closed {
		return ErrClosed
	}
	select {
	case sink.items <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the channel. Sends after Close return ErrClosed.
func (sink *Channel) Close() error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if !sink.closed {
		sink.closed = true
		close(sink.items)
	}
	return nil
}
