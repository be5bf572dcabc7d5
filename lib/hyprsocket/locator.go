// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprsocket

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	eventSocketName = ".socket2.sock"
	legacyRoot      = "/tmp/hypr"
)

// Locator identifies one compositor instance's sockets. Both fields are
// supplied by the caller, typically from XDG_RUNTIME_DIR and
// HYPRLAND_INSTANCE_SIGNATURE.
type Locator struct {
	// RuntimeDir is the per-user runtime directory. Empty means
	// /run/user/<uid>.
	RuntimeDir string

	// Signature is the instance signature the compositor assigns at
	// startup.
	Signature string
}

// EventSocketPath returns <RuntimeDir>/hypr/<Signature>/.socket2.sock.
func (locator Locator) EventSocketPath() (string, error) {
	if err := locator.validate(); err != nil {
		return "", err
	}
	return filepath.Join(locator.runtimeDir(), "hypr", locator.Signature, eventSocketName), nil
}

// LegacyEventSocketPath returns /tmp/hypr/<Signature>/.socket2.sock, the
// location used by compositor releases before 0.40.
func (locator Locator) LegacyEventSocketPath() (string, error) {
	if err := locator.validate(); err != nil {
		return "", err
	}
	return filepath.Join(legacyRoot, locator.Signature, eventSocketName), nil
}

// Resolve returns the first of EventSocketPath and LegacyEventSocketPath
// that exists.
func (locator Locator) Resolve() (string, error) {
	current, err := locator.EventSocketPath()
	if err != nil {
		return "", err
	}
	legacy, _ := locator.LegacyEventSocketPath()

	for _, candidate := range []string{current, legacy} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", &ConnectionError{
		Op:   "resolve",
		Path: current,
		Err:  fmt.Errorf("no event socket (also tried %s): %w", legacy, fs.ErrNotExist),
	}
}

func (locator Locator) validate() error {
	if locator.Signature == "" {
		return ErrNoSignature
	}
	if strings.ContainsRune(locator.Signature, filepath.Separator) || locator.Signature == "." || locator.Signature == ".." {
		return fmt.Errorf("invalid instance signature %q", locator.Signature)
	}
	return nil
}

func (locator Locator) runtimeDir() string {
	if locator.RuntimeDir != "" {
		return locator.RuntimeDir
	}
	return fmt.Sprintf("/run/user/%d", unix.Getuid())
}
