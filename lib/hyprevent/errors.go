// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprevent

import (
	"errors"
	"fmt"
)

// ErrDecode matches every per-line decode failure ([FormatError],
// [ArityError], [FieldTypeError]) via errors.Is. Decode failures are
// local to one line: a listener reports them and keeps reading.
var ErrDecode = errors.New("event decode failed")

// FormatError is returned for a line that has no ">>" delimiter.
type FormatError struct {
	Line string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid event format: %q", e.Line)
}

func (e *FormatError) Is(target error) bool { return target == ErrDecode }

// ArityError is returned when a multi-field payload does not split
// into exactly the number of fields the event declares.
type ArityError struct {
	Kind    Kind
	Payload string
	Want    int
	Got     int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: expected %d fields, got %d in %q", e.Kind, e.Want, e.Got, e.Payload)
}

func (e *ArityError) Is(target error) bool { return target == ErrDecode }

// FieldTypeError is returned when a numeric field does not parse as an
// unsigned 32-bit integer. Err is the underlying strconv error.
type FieldTypeError struct {
	Kind    Kind
	Field   string
	Value   string
	Payload string
	Err     error
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("%s: field %s: invalid unsigned integer %q in %q", e.Kind, e.Field, e.Value, e.Payload)
}

func (e *FieldTypeError) Unwrap() error { return e.Err }

func (e *FieldTypeError) Is(target error) bool { return target == ErrDecode }
