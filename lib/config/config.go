// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/hyprwatch/lib/logging"
	"github.com/bureau-foundation/hyprwatch/lib/recording"
)

// EnvConfig names the environment variable [Load] reads.
const EnvConfig = "HYPRWATCH_CONFIG"

// Config is the complete hyprwatch configuration.
type Config struct {
	// Socket locates the compositor's event socket.
	Socket SocketConfig `yaml:"socket" toml:"socket"`

	Log LogConfig `yaml:"log" toml:"log"`

	// Output configures the sinks that persist events.
	Output OutputConfig `yaml:"output" toml:"output"`

	Automation AutomationConfig `yaml:"automation" toml:"automation"`

	WebSocket WebSocketConfig `yaml:"websocket" toml:"websocket"`

	Reconnect ReconnectConfig `yaml:"reconnect" toml:"reconnect"`
}

// SocketConfig locates the event socket. Path, when set, is used as
// is; otherwise the path is derived from RuntimeDir and Signature.
type SocketConfig struct {
	// RuntimeDir is the per-user runtime directory.
	// Default: ${XDG_RUNTIME_DIR}
	RuntimeDir string `yaml:"runtime_dir" toml:"runtime_dir"`

	// Signature is the Hyprland instance signature.
	// Default: ${HYPRLAND_INSTANCE_SIGNATURE}
	Signature string `yaml:"signature" toml:"signature"`

	Path string `yaml:"path" toml:"path"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is debug, info, warn or error. Default: info
	Level string `yaml:"level" toml:"level"`

	// Format is auto, text or json. Default: auto
	Format string `yaml:"format" toml:"format"`
}

// OutputConfig configures event persistence.
type OutputConfig struct {
	// JSONL is a file that receives one JSON record per line, or "-"
	// for stdout. Empty disables it.
	JSONL string `yaml:"jsonl" toml:"jsonl"`

	// Record is a recording file to write. Empty disables recording.
	Record string `yaml:"record" toml:"record"`

	// Compression is none, lz4 or zstd. Default: zstd
	Compression string `yaml:"compression" toml:"compression"`
}

// AutomationConfig points at a rules file.
type AutomationConfig struct {
	Rules string `yaml:"rules" toml:"rules"`
}

// WebSocketConfig configures the broadcast server. An empty Addr
// disables it.
type WebSocketConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// ReconnectConfig controls reconnection after the compositor closes
// the socket. Backoff doubles from InitialBackoff up to MaxBackoff.
type ReconnectConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// Default: 500ms
	InitialBackoff string `yaml:"initial_backoff" toml:"initial_backoff"`

	// Default: 30s
	MaxBackoff string `yaml:"max_backoff" toml:"max_backoff"`
}

// Backoff parses the two backoff durations.
func (r ReconnectConfig) Backoff() (initial, maximum time.Duration, err error) {
	initial, err = time.ParseDuration(r.InitialBackoff)
	if err != nil {
		return 0, 0, fmt.Errorf("reconnect.initial_backoff: %w", err)
	}
	maximum, err = time.ParseDuration(r.MaxBackoff)
	if err != nil {
		return 0, 0, fmt.Errorf("reconnect.max_backoff: %w", err)
	}
	return initial, maximum, nil
}

// Default returns the default configuration, before variable
// expansion.
func Default() *Config {
	return &Config{
		Socket: SocketConfig{
			RuntimeDir: "${XDG_RUNTIME_DIR}",
			Signature:  "${HYPRLAND_INSTANCE_SIGNATURE}",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Output: OutputConfig{
			Compression: "zstd",
		},
		Reconnect: ReconnectConfig{
			InitialBackoff: "500ms",
			MaxBackoff:     "30s",
		},
	}
}

// Load loads the file named by HYPRWATCH_CONFIG, or returns the
// expanded defaults when it is not set.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path over the defaults and
// expands variables. It does not validate: callers apply flag
// overrides first, then call Validate.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case ".toml":
		metadata, err := toml.DecodeFile(path, c)
		if err != nil {
			return err
		}
		if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for index, key := range undecoded {
				keys[index] = key.String()
			}
			return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
		return nil
	default:
		return fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Socket.RuntimeDir = expandVars(c.Socket.RuntimeDir, vars)
	c.Socket.Signature = expandVars(c.Socket.Signature, vars)
	c.Socket.Path = expandVars(c.Socket.Path, vars)
	c.Output.JSONL = expandVars(c.Output.JSONL, vars)
	c.Output.Record = expandVars(c.Output.Record, vars)
	c.Automation.Rules = expandVars(c.Automation.Rules, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. Provided
// vars win over the environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}

	if _, err := recording.ParseCompressionTag(c.Output.Compression); err != nil {
		errs = append(errs, fmt.Errorf("output.compression: %w", err))
	}
	if c.Output.JSONL != "" && c.Output.JSONL == c.Output.Record {
		errs = append(errs, fmt.Errorf("output.jsonl and output.record both name %s", c.Output.Record))
	}

	if c.WebSocket.Addr != "" {
		if _, _, err := net.SplitHostPort(c.WebSocket.Addr); err != nil {
			errs = append(errs, fmt.Errorf("websocket.addr: %w", err))
		}
	}

	initial, maximum, err := c.Reconnect.Backoff()
	switch {
	case err != nil:
		errs = append(errs, err)
	case initial <= 0:
		errs = append(errs, fmt.Errorf("reconnect.initial_backoff must be positive, got %s", initial))
	case maximum < initial:
		errs = append(errs, fmt.Errorf("reconnect.max_backoff (%s) is less than initial_backoff (%s)", maximum, initial))
	}

	return errors.Join(errs...)
}
