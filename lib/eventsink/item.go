// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventsink

import "context"

// Item carries exactly one of a Delivery or a Failure.
type Item struct {
	Delivery *Delivery
	Failure  *Failure
}

// Sequence returns the line sequence of whichever value is set.
func (item Item) Sequence() uint64 {
	if item.Delivery != nil {
		return item.Delivery.Sequence
	}
	if item.Failure != nil {
		return item.Failure.Sequence
	}
	return 0
}

// Dispatch hands the item to the matching sink method.
func (item Item) Dispatch(ctx context.Context, sink Sink) error {
	switch {
	case item.Delivery != nil:
		return sink.HandleEvent(ctx, *item.Delivery)
	case item.Failure != nil:
		return sink.HandleFailure(ctx, *item.Failure)
	default:
		return nil
	}
}
