// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package statusview

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/hyprwatch/lib/hyprstate"
)

// View implements tea.Model.
func (model Model) View() string {
	if model.width == 0 || model.height == 0 {
		return "starting…"
	}

	body := model.viewport.View()
	if model.filter.Active || model.filter.Input != "" {
		body = model.renderFilterPrompt() + "\n" + body
	}
	if model.tracker != nil {
		panel := model.renderStatePanel(model.tracker.Snapshot(), model.height-2)
		body = lipgloss.JoinHorizontal(lipgloss.Top, panel, " ", body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		model.renderHeader(),
		body,
		model.renderFooter(),
	)
}

func (model Model) renderHeader() string {
	status := model.styles.connected.Render("● streaming")
	if model.disconnected {
		status = model.styles.disconnected.Render("○ disconnected")
	}
	if model.paused {
		status += " " + model.styles.disconnected.Render("paused")
	}

	title := " hyprwatch"
	if model.title != "" {
		title += "  " + model.title
	}
	counts := fmt.Sprintf("%d shown / %d received ", len(model.visible), model.total)

	left := model.styles.header.Render(title) + "  " + status
	gap := model.width - ansi.StringWidth(left) - ansi.StringWidth(counts)
	if gap < 1 {
		gap = 1
	}
	return ansi.Truncate(left+strings.Repeat(" ", gap)+model.styles.faint.Render(counts), model.width, "…")
}

func (model Model) renderFilterPrompt() string {
	prompt := model.styles.label.Render("/") + model.filter.Input
	if model.filter.Active {
		prompt += "█"
	}
	return ansi.Truncate(prompt, model.viewport.Width, "…")
}

func (model Model) renderFooter() string {
	var parts []string
	for _, binding := range model.keys.shortHelp() {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return ansi.Truncate(model.styles.help.Render(strings.Join(parts, " · ")), model.width, "…")
}

// renderEntry renders one log line, highlighting filter matches, and
// truncates it to width.
func (model Model) renderEntry(m match, width int) string {
	e := m.entry
	prefix := model.styles.faint.Render(fmt.Sprintf("%6d %s ", e.sequence, e.receivedAt.Format("15:04:05.000")))

	highlighted := make(map[int]bool, len(m.positions))
	for _, position := range m.positions {
		highlighted[position] = true
	}

	labelStyle := model.styles.kind
	detailStyle := model.styles.value
	if e.failure {
		labelStyle = model.styles.failure
		detailStyle = model.styles.failure
	}

	// Positions index runes of searchText: label, a space, then detail.
	var builder strings.Builder
	index := 0
	for _, r := range e.label {
		builder.WriteString(model.styleRune(r, labelStyle, highlighted[index]))
		index++
	}
	builder.WriteString(" ")
	index++
	for _, r := range e.detail {
		builder.WriteString(model.styleRune(r, detailStyle, highlighted[index]))
		index++
	}

	line := prefix + builder.String()
	if width > 0 {
		line = ansi.Truncate(line, width, "…")
	}
	return line
}

func (model Model) styleRune(r rune, style lipgloss.Style, highlighted bool) string {
	if highlighted {
		style = model.styles.match.Inherit(style)
	}
	return style.Render(string(r))
}

// renderStatePanel renders the snapshot as a bordered panel of the
// given outer height.
func (model Model) renderStatePanel(snapshot hyprstate.Snapshot, height int) string {
	innerWidth := statePanelWidth - 4
	var lines []string
	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		text := model.styles.label.Render(fmt.Sprintf("%-10s", label)) + " " + model.styles.value.Render(value)
		lines = append(lines, ansi.Truncate(text, innerWidth, "…"))
	}
	heading := func(text string) {
		lines = append(lines, "", model.styles.kind.Render(text))
	}

	row("monitor", snapshot.FocusedMonitor)
	row("workspace", snapshot.ActiveWorkspace.Name)
	row("window", snapshot.ActiveWindow.Class)
	row("title", snapshot.ActiveWindow.Title)
	row("submap", snapshot.Submap)
	row("fullscreen", yesNo(snapshot.Fullscreen))
	row("screencast", yesNo(snapshot.Screencasting))
	for _, keyboard := range sortedKeys(snapshot.Layouts) {
		row("layout", keyboard+": "+snapshot.Layouts[keyboard])
	}

	if len(snapshot.Workspaces) > 0 {
		heading("workspaces")
		for _, workspace := range snapshot.Workspaces {
			marker := "  "
			if workspace.Name == snapshot.ActiveWorkspace.Name {
				marker = "▸ "
			}
			text := fmt.Sprintf("%s%s", marker, workspace.Name)
			if workspace.Monitor != "" {
				text += " @" + workspace.Monitor
			}
			text += fmt.Sprintf(" (%d)", workspace.Windows)
			lines = append(lines, ansi.Truncate(model.styles.value.Render(text), innerWidth, "…"))
		}
	}

	heading("counters")
	counters := snapshot.Counters
	row("events", fmt.Sprint(counters.Events))
	row("failures", fmt.Sprint(counters.Failures))
	row("unknown", fmt.Sprint(counters.Unknown))
	row("reloads", fmt.Sprint(counters.ConfigReloads))

	// The border takes two rows.
	if limit := height - 2; limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	style := model.styles.panel.Width(statePanelWidth - 2)
	if height > 2 {
		style = style.Height(height - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func sortedKeys(values map[string]string) []string {
	return slices.Sorted(maps.Keys(values))
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
