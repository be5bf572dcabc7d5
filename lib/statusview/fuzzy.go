// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package statusview

import (
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

var initAlgo sync.Once

// FuzzyResult is the outcome of matching one line against a pattern.
// A zero Score means no match.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// fuzzyMatch runs fzf's V2 algorithm case-insensitively. Positions are
// rune indices into text. slab may be nil.
func fuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}
	initAlgo.Do(func() { algo.Init("default") })

	lowered := []rune(strings.ToLower(string(pattern)))
	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return FuzzyResult{}
	}
	match := FuzzyResult{Score: result.Score}
	if positions != nil {
		match.Positions = append(match.Positions, (*positions)...)
	}
	return match
}
