// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
)

// LogCapture collects JSON log records written from any goroutine.
type LogCapture struct {
	mu     sync.Mutex
	buffer bytes.Buffer
}

// CaptureLogger returns a debug-level JSON logger and the capture it
// writes to.
func CaptureLogger() (*slog.Logger, *LogCapture) {
	capture := &LogCapture{}
	logger := slog.New(slog.NewJSONHandler(capture, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, capture
}

func (capture *LogCapture) Write(data []byte) (int, error) {
	capture.mu.Lock()
	defer capture.mu.Unlock()
	return capture.buffer.Write(data)
}

// Records parses every captured line. Unparseable output fails the test.
func (capture *LogCapture) Records(t *testing.T) []map[string]any {
	t.Helper()
	capture.mu.Lock()
	data := bytes.Clone(capture.buffer.Bytes())
	capture.mu.Unlock()

	var records []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal(line, &record); err != nil {
			t.Fatalf("log line is not JSON: %v (%q)", err, line)
		}
		records = append(records, record)
	}
	return records
}

// WithMessage returns the captured records whose msg equals message.
func (capture *LogCapture) WithMessage(t *testing.T, message string) []map[string]any {
	t.Helper()
	var matched []map[string]any
	for _, record := range capture.Records(t) {
		if record["msg"] == message {
			matched = append(matched, record)
		}
	}
	return matched
}
