// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads hyprwatch configuration from a YAML or TOML file.
//
// A configuration comes from one file named by --config or the
// HYPRWATCH_CONFIG environment variable; the file's extension selects
// the parser (.yaml/.yml or .toml). Without a file, [Default] values
// apply. Keys the file does not set keep their defaults, and unknown
// keys are rejected.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${XDG_RUNTIME_DIR}, ${HYPRLAND_INSTANCE_SIGNATURE} and
// ${VAR:-default} patterns are expanded from the environment. The
// defaults for socket.runtime_dir and socket.signature are themselves
// such patterns, which is how a running Hyprland session is found.
//
// Command-line flags are applied by the caller after loading, then
// [Config.Validate] checks the result.
package config
