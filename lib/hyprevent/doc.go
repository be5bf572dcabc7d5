// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hyprevent decodes Hyprland's event socket ("socket2")
// notifications into typed Go values.
//
// Every notification is a single text line of the form
//
//	<tag>>><payload>
//
// where the payload is a comma-separated list of fields. The set of
// tags is closed and versioned by the compositor: each tag has a
// [Descriptor] that fixes the ordered field names, their types, and
// the exact arity. The descriptors live in a table built once at
// package initialisation; [Lookup] and [Descriptors] expose it.
//
// Decoding rules are uniform across the catalog:
//
//   - Single-field events take the whole payload verbatim (a window
//     title may contain commas; a workspace name may not).
//   - Multi-field events split on "," and require exactly as many
//     parts as the descriptor declares ([ArityError] otherwise).
//   - Integer fields are unsigned 32-bit decimal ([FieldTypeError]
//     otherwise).
//   - Boolean fields are "truthy-1": only the literal "1" is true.
//     Any other text, including "", decodes to false and is never an
//     error.
//
// [Interpreter] splits a raw line at the first ">>" and dispatches to
// the matching descriptor. A line without the delimiter is a
// [FormatError]. A tag that is not in the catalog is not an error: the
// interpreter logs a warning and returns an [Unknown] event carrying
// the tag and payload so that newer compositor versions do not break
// older listeners.
//
// All decode failures satisfy errors.Is(err, [ErrDecode]). Nothing in
// this package holds mutable state; every call is independent and safe
// for concurrent use.
package hyprevent
