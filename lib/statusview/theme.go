// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package statusview

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the viewer's color palette, in ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	HeaderForeground lipgloss.Color
	HeaderBackground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// LabelForeground colors the keys of the state panel.
	LabelForeground lipgloss.Color

	// KindForeground colors event kinds in the log.
	KindForeground lipgloss.Color

	FailureForeground lipgloss.Color
	Connected         lipgloss.Color
	Disconnected      lipgloss.Color

	// MatchBackground tints characters matched by the filter.
	MatchBackground lipgloss.Color
}

// DefaultTheme targets dark 256-color terminals.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	HeaderForeground: lipgloss.Color("255"),
	HeaderBackground: lipgloss.Color("236"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	LabelForeground: lipgloss.Color("75"),
	KindForeground:  lipgloss.Color("141"),

	FailureForeground: lipgloss.Color("196"),
	Connected:         lipgloss.Color("114"),
	Disconnected:      lipgloss.Color("208"),

	MatchBackground: lipgloss.Color("58"),
}

// PlainRenderer returns a renderer that never emits color, for
// --no-color and for tests.
func PlainRenderer(w io.Writer) *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	renderer.SetColorProfile(termenv.Ascii)
	return renderer
}

// styles are the Theme's colors bound to a renderer.
type styles struct {
	header       lipgloss.Style
	panel        lipgloss.Style
	label        lipgloss.Style
	value        lipgloss.Style
	faint        lipgloss.Style
	kind         lipgloss.Style
	failure      lipgloss.Style
	connected    lipgloss.Style
	disconnected lipgloss.Style
	match        lipgloss.Style
	help         lipgloss.Style
}

func newStyles(renderer *lipgloss.Renderer, theme Theme) styles {
	return styles{
		header: renderer.NewStyle().Bold(true).
			Foreground(theme.HeaderForeground).Background(theme.HeaderBackground),
		panel: renderer.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderColor).Padding(0, 1),
		label:        renderer.NewStyle().Foreground(theme.LabelForeground),
		value:        renderer.NewStyle().Foreground(theme.NormalText),
		faint:        renderer.NewStyle().Foreground(theme.FaintText),
		kind:         renderer.NewStyle().Foreground(theme.KindForeground).Bold(true),
		failure:      renderer.NewStyle().Foreground(theme.FailureForeground),
		connected:    renderer.NewStyle().Foreground(theme.Connected),
		disconnected: renderer.NewStyle().Foreground(theme.Disconnected).Bold(true),
		match:        renderer.NewStyle().Background(theme.MatchBackground),
		help:         renderer.NewStyle().Foreground(theme.HelpText),
	}
}
