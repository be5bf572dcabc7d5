// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package automation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
)

// DefaultTimeout bounds a rule's command when the rule sets no timeout.
const DefaultTimeout = 10 * time.Second

// Rule is one entry of a rules file.
type Rule struct {
	Name string `json:"name"`

	// Kinds lists the event kinds the rule applies to. Empty means all.
	Kinds []string `json:"kinds,omitempty"`

	// Match requires field values to be equal, keyed by field name.
	Match map[string]string `json:"match,omitempty"`

	// Command is the argv to run. The first element is the program.
	Command []string `json:"command"`

	// Timeout is a Go duration string. Empty means DefaultTimeout.
	Timeout string `json:"timeout,omitempty"`
}

// TimeoutDuration returns the parsed timeout, or DefaultTimeout.
func (rule Rule) TimeoutDuration() (time.Duration, error) {
	if rule.Timeout == "" {
		return DefaultTimeout, nil
	}
	return time.ParseDuration(rule.Timeout)
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the rule array.
func Parse(data []byte) ([]Rule, error) {
	stripped := jsonc.ToJSON(data)

	var rules []Rule
	if err := json.Unmarshal(stripped, &rules); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return rules, nil
}

// ReadFile reads, parses and validates a rules file.
func ReadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	rules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := Validate(rules); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// builtinVariables are available to every rule's command.
var builtinVariables = []string{"kind", "sequence", "line"}

// Validate checks rules for structural problems and reports all of
// them:
//   - names are required and unique
//   - commands are non-empty
//   - kinds are catalog tags or "unknown"
//   - timeouts parse and are positive
//   - match keys and ${NAME} references name a field of every listed
//     kind (rules without kinds are only checked at run time)
func Validate(rules []Rule) error {
	var errs []error
	names := make(map[string]int, len(rules))

	for index, rule := range rules {
		label := fmt.Sprintf("rules[%d] %q", index, rule.Name)

		if rule.Name == "" {
			errs = append(errs, fmt.Errorf("rules[%d]: name is required", index))
		} else if first, exists := names[rule.Name]; exists {
			errs = append(errs, fmt.Errorf("%s: duplicate rule name (first used at rules[%d])", label, first))
		} else {
			names[rule.Name] = index
		}

		if len(rule.Command) == 0 || rule.Command[0] == "" {
			errs = append(errs, fmt.Errorf("%s: command is required", label))
		}

		if timeout, err := rule.TimeoutDuration(); err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid timeout: %w", label, err))
		} else if timeout <= 0 {
			errs = append(errs, fmt.Errorf("%s: timeout must be positive, got %s", label, timeout))
		}

		for _, kind := range rule.Kinds {
			fields, ok := kindFields(kind)
			if !ok {
				errs = append(errs, fmt.Errorf("%s: unknown event kind %q", label, kind))
				continue
			}
			for key := range rule.Match {
				if !fields[key] {
					errs = append(errs, fmt.Errorf("%s: kind %s has no field %q to match", label, kind, key))
				}
			}
			for _, argument := range rule.Command {
				for _, name := range references(argument) {
					if !fields[name] && !isBuiltin(name) {
						errs = append(errs, fmt.Errorf("%s: kind %s has no field %q for ${%s}", label, kind, name, name))
					}
				}
			}
		}
	}

	return errors.Join(errs...)
}

// kindFields returns the set of field names an event kind carries.
func kindFields(kind string) (map[string]bool, bool) {
	if kind == string(hyprevent.KindUnknown) {
		return map[string]bool{"tag": true, "payload": true}, true
	}
	descriptor, ok := hyprevent.Lookup(kind)
	if !ok {
		return nil, false
	}
	fields := make(map[string]bool, len(descriptor.Fields))
	for _, field := range descriptor.Fields {
		fields[field.Name] = true
	}
	return fields, true
}

func isBuiltin(name string) bool {
	for _, builtin := range builtinVariables {
		if name == builtin {
			return true
		}
	}
	return false
}
