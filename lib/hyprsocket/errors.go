// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprsocket

import (
	"errors"
	"fmt"
)

// ConnectionError is a transport failure. It is terminal for the
// listener that returned it.
type ConnectionError struct {
	// Op is "resolve", "dial" or "read".
	Op   string
	Path string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("event socket %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ErrNoSignature is returned by [Locator] when the instance signature
// is empty.
var ErrNoSignature = errors.New("no Hyprland instance signature")

// ErrAlreadyRun is returned by [Listener.Run] on a listener that has
// already been run.
var ErrAlreadyRun = errors.New("listener already run")
