// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package automation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os/exec"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/hyprwatch/lib/eventsink"
	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
)

// Runner executes an expanded command. ctx carries the rule's timeout.
type Runner interface {
	Run(ctx context.Context, argv []string) ([]byte, error)
}

// RunnerFunc adapts a function to [Runner].
type RunnerFunc func(ctx context.Context, argv []string) ([]byte, error)

func (f RunnerFunc) Run(ctx context.Context, argv []string) ([]byte, error) {
	return f(ctx, argv)
}

// ExecRunner runs argv[0] with the remaining arguments via os/exec and
// returns its stdout. Stderr is included in the error on failure.
var ExecRunner Runner = RunnerFunc(runCommand)

func runCommand(ctx context.Context, argv []string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, argv[0], argv[1:]...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("%s: %w (stderr: %s)",
			argv[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Options configures an Engine.
type Options struct {
	// Runner executes commands. Default: ExecRunner.
	Runner Runner

	Logger *slog.Logger
}

// Stats counts rule executions.
type Stats struct {
	Fired  uint64
	Failed uint64
}

type compiledRule struct {
	Rule
	kinds   map[hyprevent.Kind]bool
	timeout time.Duration
}

// matches reports whether the rule applies to an event.
func (rule compiledRule) matches(kind hyprevent.Kind, fields map[string]string) bool {
	if len(rule.kinds) > 0 && !rule.kinds[kind] {
		return false
	}
	for key, want := range rule.Match {
		if got, ok := fields[key]; !ok || got != want {
			return false
		}
	}
	return true
}

// Engine is an eventsink.Sink that runs the commands of matching rules.
// Rules are evaluated in file order; every matching rule runs.
type Engine struct {
	rules  []compiledRule
	runner Runner
	logger *slog.Logger
	fired  atomic.Uint64
	failed atomic.Uint64
}

// NewEngine validates rules and returns an Engine for them.
func NewEngine(rules []Rule, options Options) (*Engine, error) {
	if err := Validate(rules); err != nil {
		return nil, err
	}
	if options.Runner == nil {
		options.Runner = ExecRunner
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	compiled := make([]compiledRule, len(rules))
	for index, rule := range rules {
		// Validate has already checked the timeout.
		timeout, _ := rule.TimeoutDuration()
		kinds := make(map[hyprevent.Kind]bool, len(rule.Kinds))
		for _, kind := range rule.Kinds {
			kinds[hyprevent.Kind(kind)] = true
		}
		compiled[index] = compiledRule{Rule: rule, kinds: kinds, timeout: timeout}
	}
	return &Engine{rules: compiled, runner: options.Runner, logger: options.Logger}, nil
}

// Rules returns the number of loaded rules.
func (engine *Engine) Rules() int {
	return len(engine.rules)
}

// Stats returns execution counts so far.
func (engine *Engine) Stats() Stats {
	return Stats{Fired: engine.fired.Load(), Failed: engine.failed.Load()}
}

// Matching returns the names of the rules that apply to event.
func (engine *Engine) Matching(event hyprevent.Event) []string {
	kind := event.Kind()
	fields := hyprevent.FieldValues(event)
	var names []string
	for _, rule := range engine.rules {
		if rule.matches(kind, fields) {
			names = append(names, rule.Name)
		}
	}
	return names
}

// HandleEvent runs every matching rule. Failures of one rule do not
// prevent later rules from running; all failures are returned joined.
func (engine *Engine) HandleEvent(ctx context.Context, delivery eventsink.Delivery) error {
	kind := delivery.Event.Kind()
	fields := hyprevent.FieldValues(delivery.Event)

	variables := make(map[string]string, len(fields)+3)
	maps.Copy(variables, fields)
	variables["kind"] = string(kind)
	variables["sequence"] = strconv.FormatUint(delivery.Sequence, 10)
	variables["line"] = delivery.Line

	var errs []error
	for _, rule := range engine.rules {
		if !rule.matches(kind, fields) {
			continue
		}
		if err := engine.run(ctx, rule, variables, delivery.Sequence); err != nil {
			errs = append(errs, fmt.Errorf("rule %q: %w", rule.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (engine *Engine) run(ctx context.Context, rule compiledRule, variables map[string]string, sequence uint64) error {
	argv, err := ExpandCommand(rule.Command, variables)
	if err != nil {
		engine.failed.Add(1)
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, rule.timeout)
	defer cancel()

	engine.fired.Add(1)
	start := time.Now()
	output, err := engine.runner.Run(runCtx, argv)
	if err != nil {
		engine.failed.Add(1)
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("timed out after %s: %w", rule.timeout, err)
		}
		return err
	}
	engine.logger.Debug("automation rule ran",
		"rule", rule.Name,
		"sequence", sequence,
		"duration", time.Since(start),
		"output", strings.TrimSpace(string(output)),
	)
	return nil
}

// HandleFailure ignores decode failures; rules only match events.
func (engine *Engine) HandleFailure(context.Context, eventsink.Failure) error {
	return nil
}
