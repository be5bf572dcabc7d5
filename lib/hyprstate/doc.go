// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hyprstate folds the event stream into a picture of the
// desktop: workspaces, monitors, windows, focus, submap and keyboard
// layouts.
//
// A [Tracker] starts empty and learns only from events, so a tracker
// attached to a stream that is already running knows nothing about
// windows opened before it connected. It is an eventsink.Sink and can
// be placed directly in a listener's sink chain; [Tracker.Snapshot]
// returns a consistent, sorted copy suitable for rendering or JSON
// encoding.
package hyprstate
