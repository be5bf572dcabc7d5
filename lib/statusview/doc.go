// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package statusview is the terminal viewer behind "hyprwatch view".
//
// The screen has three regions: a header with the socket and
// connection status, a state panel on the left rendering the
// hyprstate.Tracker's snapshot (focused monitor, active workspace and
// window, workspaces, flags and counters), and a scrolling event log on
// the right. Pressing / filters the log with fzf's fuzzy matcher;
// matched characters are highlighted.
//
// The model consumes eventsink.Items from a channel, normally the
// output of an eventsink.Channel fed by the listener alongside the
// tracker. When the channel closes the header shows the stream as
// disconnected and the log stays browsable.
package statusview
