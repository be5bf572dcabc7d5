// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package broadcast

import (
	"time"

	"github.com/bureau-foundation/hyprwatch/lib/eventsink"
	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
)

type MessageType string

const (
	MessageSnapshot MessageType = "snapshot"
	MessageEvent    MessageType = "event"
	MessageFailure  MessageType = "failure"
)

// Message is the envelope of every websocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload"`
}

// EventPayload is the payload of an "event" message.
type EventPayload struct {
	Sequence   uint64            `json:"sequence"`
	ReceivedAt time.Time         `json:"received_at"`
	Kind       hyprevent.Kind    `json:"kind"`
	Fields     map[string]string `json:"fields"`
}

// FailurePayload is the payload of a "failure" message.
type FailurePayload struct {
	Sequence   uint64    `json:"sequence"`
	ReceivedAt time.Time `json:"received_at"`
	Line       string    `json:"line"`
	Error      string    `json:"error"`
}

func eventMessage(delivery eventsink.Delivery) Message {
	fields := hyprevent.FieldValues(delivery.Event)
	if fields == nil {
		fields = map[string]string{}
	}
	return Message{Type: MessageEvent, Payload: EventPayload{
		Sequence:   delivery.Sequence,
		ReceivedAt: delivery.ReceivedAt,
		Kind:       delivery.Event.Kind(),
		Fields:     fields,
	}}
}

func failureMessage(failure eventsink.Failure) Message {
	payload := FailurePayload{
		Sequence:   failure.Sequence,
		ReceivedAt: failure.ReceivedAt,
		Line:       failure.Line,
	}
	if failure.Err != nil {
		payload.Error = failure.Err.Error()
	}
	return Message{Type: MessageFailure, Payload: payload}
}
