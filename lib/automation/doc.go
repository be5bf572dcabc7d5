// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package automation runs commands in response to compositor events.
//
// Rules are authored as a JSONC file (JSON with comments and trailing
// commas) holding an array of rules:
//
//	[
//	  // Re-tile when a browser opens.
//	  {
//	    "name": "browser-opened",
//	    "kinds": ["openwindow"],
//	    "match": {"class": "firefox"},
//	    "command": ["notify-send", "opened", "${title} on ${workspace}"],
//	    "timeout": "5s",
//	  },
//	]
//
// A rule fires when the event's kind is listed in kinds (an empty list
// matches every kind) and every match entry equals the event's field
// value. Command arguments are expanded with ${NAME} references to the
// event's fields plus ${kind}, ${sequence} and ${line}, then executed
// directly with no shell.
//
// [Engine] is an eventsink.Sink. It runs commands synchronously, so
// callers reading from the live socket wrap it in eventsink.NewAsync.
package automation
