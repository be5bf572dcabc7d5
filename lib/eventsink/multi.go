// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventsink

import (
	"context"
	"errors"
)

// Multi delivers every input to each wrapped sink in order. A failing
// sink does not prevent delivery to the sinks after it; errors are
// joined.
type Multi struct {
	sinks []Sink
}

// NewMulti returns a Multi over sinks. Nil sinks are skipped.
func NewMulti(sinks ...Sink) *Multi {
	multi := &Multi{}
	for _, sink := range sinks {
		if sink != nil {
			multi.sinks = append(multi.sinks, sink)
		}
	}
	return multi
}

func (multi *Multi) HandleEvent(ctx context.Context, delivery Delivery) error {
	var errs []error
	for _, sink := range multi.sinks {
		if err := sink.HandleEvent(ctx, delivery); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (multi *Multi) HandleFailure(ctx context.Context, failure Failure) error {
	var errs []error
	for _, sink := range multi.sinks {
		if err := sink.HandleFailure(ctx, failure); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every wrapped sink that implements io.Closer.
func (multi *Multi) Close() error {
	var errs []error
	for _, sink := range multi.sinks {
		if err := Close(sink); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
