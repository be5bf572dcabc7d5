// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventsink

import (
	"time"

	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
)

// Record is the flat, serializable form of a Delivery or Failure used
// by the JSON Lines output and the websocket broadcaster. Fields holds
// the event's values in wire form (see hyprevent.FieldValues).
type Record struct {
	Sequence   uint64            `json:"sequence"`
	ReceivedAt time.Time         `json:"received_at"`
	Kind       hyprevent.Kind    `json:"kind,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Line       string            `json:"line,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// EventRecord flattens a delivery. The raw line is omitted; it is
// recoverable from Kind and Fields.
func EventRecord(delivery Delivery) Record {
	return Record{
		Sequence:   delivery.Sequence,
		ReceivedAt: delivery.ReceivedAt,
		Kind:       delivery.Event.Kind(),
		Fields:     hyprevent.FieldValues(delivery.Event),
	}
}

// FailureRecord flattens a failure, keeping the raw line.
func FailureRecord(failure Failure) Record {
	record := Record{
		Sequence:   failure.Sequence,
		ReceivedAt: failure.ReceivedAt,
		Line:       failure.Line,
	}
	if failure.Err != nil {
		record.Error = failure.Err.Error()
	}
	return record
}
