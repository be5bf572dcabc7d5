// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprsocket

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocatorPaths(t *testing.T) {
	locator := Locator{RuntimeDir: "/run/user/1000", Signature: "abc_123_456"}

	path, err := locator.EventSocketPath()
	if err != nil {
		t.Fatalf("EventSocketPath: %v", err)
	}
	if want := "/run/user/1000/hypr/abc_123_456/.socket2.sock"; path != want {
		t.Errorf("EventSocketPath = %q, want %q", path, want)
	}

	legacy, err := locator.LegacyEventSocketPath()
	if err != nil {
		t.Fatalf("LegacyEventSocketPath: %v", err)
	}
	if want := "/tmp/hypr/abc_123_456/.socket2.sock"; legacy != want {
		t.Errorf("LegacyEventSocketPath = %q, want %q", legacy, want)
	}
}

func TestLocatorDefaultRuntimeDir(t *testing.T) {
	path, err := Locator{Signature: "sig"}.EventSocketPath()
	if err != nil {
		t.Fatalf("EventSocketPath: %v", err)
	}
	if !strings.HasPrefix(path, "/run/user/") || !strings.HasSuffix(path, "/hypr/sig/.socket2.sock") {
		t.Errorf("EventSocketPath = %q, want /run/user/<uid>/hypr/sig/.socket2.sock", path)
	}
}

func TestLocatorRejectsBadSignature(t *testing.T) {
	if _, err := (Locator{}).EventSocketPath(); !errors.Is(err, ErrNoSignature) {
		t.Errorf("empty signature error = %v, want ErrNoSignature", err)
	}
	for _, signature := range []string{"../etc", "a/b", ".."} {
		if _, err := (Locator{Signature: signature}).EventSocketPath(); err == nil {
			t.Errorf("signature %q accepted", signature)
		}
	}
}

func TestLocatorResolve(t *testing.T) {
	runtimeDir := t.TempDir()
	locator := Locator{RuntimeDir: runtimeDir, Signature: "resolve-test-signature"}

	_, err := locator.Resolve()
	var connectionErr *ConnectionError
	if !errors.As(err, &connectionErr) || connectionErr.Op != "resolve" {
		t.Fatalf("Resolve with no socket = %v, want resolve ConnectionError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Resolve error does not wrap fs.ErrNotExist: %v", err)
	}

	want := filepath.Join(runtimeDir, "hypr", "resolve-test-signature", ".socket2.sock")
	if err := os.MkdirAll(filepath.Dir(want), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(want, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := locator.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}
