// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprevent

import (
	"log/slog"
	"reflect"
	"strconv"
	"strings"
)

// Delimiter separates the tag from the payload on every line.
const Delimiter = ">>"

// Split cuts a raw line at the first [Delimiter]. The payload may itself
// contain ">>"; only the first occurrence is significant.
func Split(line string) (tag, payload string, err error) {
	tag, payload, found := strings.Cut(line, Delimiter)
	if !found {
		return "", "", &FormatError{Line: line}
	}
	return tag, payload, nil
}

// Interpreter turns raw lines into events. It holds no mutable state
// and is safe for concurrent use.
type Interpreter struct {
	logger *slog.Logger
}

// NewInterpreter returns an Interpreter that reports unrecognized tags
// to logger. A nil logger uses slog.Default().
func NewInterpreter(logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpreter{logger: logger}
}

// Interpret decodes one line (without its trailing newline). Lines whose
// tag is not in the catalog produce an [Unknown] event and a warning,
// not an error.
func (interpreter *Interpreter) Interpret(line string) (Event, error) {
	tag, payload, err := Split(line)
	if err != nil {
		return nil, err
	}

	descriptor, ok := Lookup(tag)
	if !ok {
		interpreter.logger.Warn("unhandled event type", "tag", tag, "payload", payload)
		return Unknown{Tag: tag, Payload: payload}, nil
	}
	return descriptor.Decode(payload)
}

// FieldValues renders a decoded event's fields as text keyed by field
// name, in wire form: integers in decimal, booleans as "1" or "0".
// Unknown events report "tag" and "payload". Consumers that match or
// render events generically use this instead of a type switch.
func FieldValues(event Event) map[string]string {
	if unknown, ok := event.(Unknown); ok {
		return map[string]string{"tag": unknown.Tag, "payload": unknown.Payload}
	}
	descriptor, ok := catalog[event.Kind()]
	if !ok {
		return nil
	}

	// Event structs declare their fields in descriptor order.
	value := reflect.ValueOf(event)
	values := make(map[string]string, len(descriptor.Fields))
	for index, field := range descriptor.Fields {
		fieldValue := value.Field(index)
		switch field.Type {
		case FieldUint:
			values[field.Name] = strconv.FormatUint(fieldValue.Uint(), 10)
		case FieldBool:
			if fieldValue.Bool() {
				values[field.Name] = "1"
			} else {
				values[field.Name] = "0"
			}
		default:
			values[field.Name] = fieldValue.String()
		}
	}
	return values
}
