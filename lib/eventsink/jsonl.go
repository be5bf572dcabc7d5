// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventsink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// JSONLines writes one [Record] per line to an io.Writer. The writer is
// not closed; its owner closes it after the stream ends.
type JSONLines struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

// NewJSONLines returns a JSONLines sink writing to w.
func NewJSONLines(w io.Writer) *JSONLines {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return &JSONLines{encoder: encoder}
}

func (sink *JSONLines) HandleEvent(_ context.Context, delivery Delivery) error {
	return sink.write(EventRecord(delivery))
}

func (sink *JSONLines) HandleFailure(_ context.Context, failure Failure) error {
	return sink.write(FailureRecord(failure))
}

func (sink *JSONLines) write(record Record) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if err := sink.encoder.Encode(record); err != nil {
		return fmt.Errorf("writing record %d: %w", record.Sequence, err)
	}
	return nil
}
