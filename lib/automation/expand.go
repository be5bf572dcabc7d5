// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package automation

import (
	"fmt"
	"regexp"
	"strings"
)

// variablePattern matches ${NAME} references. Bare $NAME is left as is.
var variablePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Expand replaces ${NAME} references in input with values from
// variables. It fails, listing every missing name, if any reference
// has no value.
func Expand(input string, variables map[string]string) (string, error) {
	var unresolved []string

	result := variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		name := match[2 : len(match)-1]
		if value, exists := variables[name]; exists {
			return value
		}
		unresolved = append(unresolved, name)
		return match
	})

	if len(unresolved) > 0 {
		return "", fmt.Errorf("unresolved variables: %s", strings.Join(unresolved, ", "))
	}
	return result, nil
}

// ExpandCommand expands every argument of argv into a new slice.
func ExpandCommand(argv []string, variables map[string]string) ([]string, error) {
	expanded := make([]string, len(argv))
	for index, argument := range argv {
		value, err := Expand(argument, variables)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", index, err)
		}
		expanded[index] = value
	}
	return expanded, nil
}

// references returns the variable names referenced in input.
func references(input string) []string {
	var names []string
	for _, match := range variablePattern.FindAllStringSubmatch(input, -1) {
		names = append(names, match[1])
	}
	return names
}
