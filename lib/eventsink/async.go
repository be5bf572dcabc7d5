// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventsink

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/hyprwatch/lib/clock"
)

const (
	defaultBufferSize   = 1024
	defaultDrainTimeout = 5 * time.Second
)

// AsyncOption configures an [Async] wrapper.
type AsyncOption func(*Async)

// WithBufferSize sets the queue capacity. Default: 1024.
func WithBufferSize(size int) AsyncOption {
	return func(async *Async) { async.bufferSize = size }
}

// WithDropOnFull makes HandleEvent and HandleFailure return immediately,
// dropping the item, when the queue is full instead of blocking the
// reader.
func WithDropOnFull() AsyncOption {
	return func(async *Async) { async.dropOnFull = true }
}

// WithOnError sets the callback for errors returned by the inner sink.
// Default: a warning on the Async logger.
func WithOnError(onError func(error)) AsyncOption {
	return func(async *Async) { async.onError = onError }
}

// WithLogger sets the logger used for drops, drain timeouts and the
// default error callback.
func WithLogger(logger *slog.Logger) AsyncOption {
	return func(async *Async) { async.logger = logger }
}

// WithClock sets the clock used for the drain timeout on Close.
func WithClock(c clock.Clock) AsyncOption {
	return func(async *Async) { async.clock = c }
}

// Async decouples a sink from the reading goroutine. Inputs are queued
// on a buffered channel and a background goroutine hands them to the
// inner sink in order. Errors from the inner sink go to the error
// callback instead of the caller.
type Async struct {
	inner      Sink
	queue      chan Item
	done       chan struct{}
	logger     *slog.Logger
	clock      clock.Clock
	onError    func(error)
	bufferSize int
	dropOnFull bool

	mu        sync.RWMutex
	closed    bool
	dropped   atomic.Uint64
	closeOnce sync.Once
	closeErr  error
}

// NewAsync wraps inner and starts the drain goroutine.
func NewAsync(inner Sink, options ...AsyncOption) *Async {
	async := &Async{
		inner:      inner,
		bufferSize: defaultBufferSize,
		logger:     slog.Default(),
		clock:      clock.Real(),
	}
	for _, option := range options {
		option(async)
	}
	if async.onError == nil {
		async.onError = func(err error) {
			async.logger.Warn("async sink error", "error", err)
		}
	}
	async.queue = make(chan Item, async.bufferSize)
	async.done = make(chan struct{})
	go async.drain()
	return async
}

func (async *Async) HandleEvent(ctx context.Context, delivery Delivery) error {
	return async.enqueue(ctx, Item{Delivery: &delivery})
}

func (async *Async) HandleFailure(ctx context.Context, failure Failure) error {
	return async.enqueue(ctx, Item{Failure: &failure})
}

func (async *Async) enqueue(ctx context.Context, item Item) error {
	async.mu.RLock()
	defer async.mu.RUnlock()
	if async.closed {
		return ErrClosed
	}

	if async.dropOnFull {
		select {
		case async.queue <- item:
		default:
			async.dropped.Add(1)
			async.logger.Warn("async sink buffer full, dropping item", "sequence", item.Sequence())
		}
		return nil
	}

	select {
	case async.queue <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns how many items were discarded because the queue was
// full.
func (async *Async) Dropped() uint64 {
	return async.dropped.Load()
}

// Close stops accepting input, waits for the queue to drain (bounded by
// a timeout), then closes the inner sink.
func (async *Async) Close() error {
	async.closeOnce.Do(func() {
		async.mu.Lock()
		async.closed = true
		close(async.queue)
		async.mu.Unlock()

		select {
		case <-async.done:
		case <-async.clock.After(defaultDrainTimeout):
			async.logger.Warn("async sink drain timed out", "pending", len(async.queue))
		}
		async.closeErr = Close(async.inner)
	})
	return async.closeErr
}

func (async *Async) drain() {
	defer close(async.done)
	for item := range async.queue {
		if err := item.Dispatch(context.Background(), async.inner); err != nil {
			async.onError(err)
		}
	}
}
