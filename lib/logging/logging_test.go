// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, test := range tests {
		got, err := ParseLevel(test.name)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", test.name, err)
		}
		if got != test.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", test.name, got, test.want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(verbose) succeeded")
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{"": FormatAuto, "auto": FormatAuto, "Text": FormatText, "json": FormatJSON} {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", name, got, err, want)
		}
	}
	if _, err := ParseFormat("logfmt"); err == nil {
		t.Error("ParseFormat(logfmt) succeeded")
	}
}

func TestNewJSON(t *testing.T) {
	var buffer bytes.Buffer
	logger := New(&buffer, slog.LevelWarn, FormatJSON)
	logger.Info("hidden")
	logger.Warn("shown", "sequence", 7)

	var record map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &record); err != nil {
		t.Fatalf("output is not one JSON record: %v\n%s", err, buffer.String())
	}
	if record["msg"] != "shown" || record["sequence"] != float64(7) {
		t.Errorf("record = %v", record)
	}
}

func TestNewText(t *testing.T) {
	var buffer bytes.Buffer
	New(&buffer, slog.LevelInfo, FormatText).Info("event received", "kind", "submap")
	if got := buffer.String(); !strings.Contains(got, `msg="event received"`) || !strings.Contains(got, "kind=submap") {
		t.Errorf("text output = %q", got)
	}
}

func TestAutoUsesJSONWhenNotATerminal(t *testing.T) {
	var buffer bytes.Buffer
	New(&buffer, slog.LevelInfo, FormatAuto).Info("hello")
	if !strings.HasPrefix(buffer.String(), "{") {
		t.Errorf("auto output to a buffer = %q, want JSON", buffer.String())
	}

	file, err := os.Create(filepath.Join(t.TempDir(), "log"))
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	if IsTerminal(file) {
		t.Error("regular file reported as a terminal")
	}
}

func TestParse(t *testing.T) {
	var buffer bytes.Buffer
	logger, err := Parse(&buffer, "debug", "json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	logger.Debug("visible")
	if buffer.Len() == 0 {
		t.Error("debug record not written")
	}
	if _, err := Parse(&buffer, "info", "xml"); err == nil {
		t.Error("Parse accepted format xml")
	}
}
