// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventsink

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
)

// Log writes each event at info level and each failure at error level
// with the raw line attached.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a Log writing to logger. A nil logger uses
// slog.Default().
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (sink *Log) HandleEvent(ctx context.Context, delivery Delivery) error {
	values := hyprevent.FieldValues(delivery.Event)
	fields := make([]any, 0, len(values))
	for name, value := range values {
		fields = append(fields, slog.String(name, value))
	}
	sink.logger.InfoContext(ctx, "event received",
		"sequence", delivery.Sequence,
		"kind", string(delivery.Event.Kind()),
		slog.Group("fields", fields...),
	)
	return nil
}

func (sink *Log) HandleFailure(ctx context.Context, failure Failure) error {
	sink.logger.ErrorContext(ctx, "event decode failed",
		"sequence", failure.Sequence,
		"line", failure.Line,
		"error", failure.Err,
	)
	return nil
}
