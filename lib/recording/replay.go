// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package recording

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/bureau-foundation/hyprwatch/lib/clock"
	"github.com/bureau-foundation/hyprwatch/lib/eventsink"
	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
)

// ReplayOptions configures Replay.
type ReplayOptions struct {
	// Interpreter decodes lines. Default: hyprevent.NewInterpreter(Logger).
	Interpreter *hyprevent.Interpreter

	// Sink receives the replayed events and failures. Required.
	Sink eventsink.Sink

	// Speed paces the replay relative to the recorded timing: 1 plays
	// at the original rate, 2 twice as fast. Zero replays as fast as
	// the sink accepts.
	Speed float64

	// Clock is used for pacing. Default: clock.Real().
	Clock clock.Clock

	Logger *slog.Logger
}

// ReplayStats summarises a replay.
type ReplayStats struct {
	Records  uint64
	Events   uint64
	Failures uint64
}

// Replay decodes every record from reader and hands it to the sink with
// its original sequence and receive time. It stops early if ctx is
// cancelled. An integrity failure at the end (ErrTruncated,
// ErrDigestMismatch) is returned after all readable records have been
// delivered.
func Replay(ctx context.Context, reader *Reader, options ReplayOptions) (ReplayStats, error) {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Interpreter == nil {
		options.Interpreter = hyprevent.NewInterpreter(options.Logger)
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Sink == nil {
		return ReplayStats{}, errors.New("replay: no sink")
	}

	var stats ReplayStats
	var previous time.Time
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}

		if options.Speed > 0 && !previous.IsZero() {
			gap := time.Duration(float64(record.ReceivedAt.Sub(previous)) / options.Speed)
			if gap > 0 {
				select {
				case <-options.Clock.After(gap):
				case <-ctx.Done():
					return stats, ctx.Err()
				}
			}
		}
		previous = record.ReceivedAt
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		stats.Records++
		event, decodeErr := options.Interpreter.Interpret(record.Line)
		var sinkErr error
		if decodeErr != nil {
			stats.Failures++
			sinkErr = options.Sink.HandleFailure(ctx, eventsink.Failure{
				Sequence:   record.Sequence,
				ReceivedAt: record.ReceivedAt,
				Line:       record.Line,
				Err:        decodeErr,
			})
		} else {
			stats.Events++
			sinkErr = options.Sink.HandleEvent(ctx, eventsink.Delivery{
				Sequence:   record.Sequence,
				ReceivedAt: record.ReceivedAt,
				Line:       record.Line,
				Event:      event,
			})
		}
		if sinkErr != nil {
			options.Logger.Warn("sink rejected replayed record", "sequence", record.Sequence, "error", sinkErr)
		}
	}
}
