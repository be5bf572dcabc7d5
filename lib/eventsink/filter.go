// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventsink

import (
	"context"

	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
)

// FilterSink passes events for which keep returns true to its inner
// sink. Failures always pass.
type FilterSink struct {
	inner Sink
	keep  func(Delivery) bool
}

// Filter wraps inner with a predicate.
func Filter(inner Sink, keep func(Delivery) bool) *FilterSink {
	return &FilterSink{inner: inner, keep: keep}
}

// Kinds passes only events of the listed kinds. With no kinds, every
// event passes.
func Kinds(inner Sink, kinds ...hyprevent.Kind) *FilterSink {
	if len(kinds) == 0 {
		return Filter(inner, func(Delivery) bool { return true })
	}
	allowed := make(map[hyprevent.Kind]bool, len(kinds))
	for _, kind := range kinds {
		allowed[kind] = true
	}
	return Filter(inner, func(delivery Delivery) bool {
		return allowed[delivery.Event.Kind()]
	})
}

func (sink *FilterSink) HandleEvent(ctx context.Context, delivery Delivery) error {
	if !sink.keep(delivery) {
		return nil
	}
	return sink.inner.HandleEvent(ctx, delivery)
}

func (sink *FilterSink) HandleFailure(ctx context.Context, failure Failure) error {
	return sink.inner.HandleFailure(ctx, failure)
}

func (sink *FilterSink) Close() error {
	return Close(sink.inner)
}
