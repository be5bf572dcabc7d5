// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the slog loggers used by hyprwatch binaries.
//
// Output goes to a single writer (normally stderr) in one of three
// formats: text, json, or auto. Auto picks text when the writer is a
// terminal and JSON when it is piped or redirected, so interactive use
// stays readable and log collectors get structured records.
package logging
