// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package broadcast fans decoded compositor events out to websocket
// clients such as status bars and dashboards.
//
// [Hub] is an eventsink.Sink and an http.Handler. GET /ws upgrades to a
// websocket that receives a "snapshot" message with the current
// hyprstate.Snapshot, then one "event" or "failure" message per line
// read from the socket. GET /state returns the snapshot as plain JSON.
//
// The snapshot is taken after the tracker has applied every event
// delivered so far, so an event can appear both in the snapshot and as
// the first event message. Clients that care compare the event's
// sequence against the snapshot's counters.last_sequence.
//
// Slow clients are disconnected rather than allowed to stall the
// reader: each client has a bounded send queue, and a full queue drops
// the client.
package broadcast
