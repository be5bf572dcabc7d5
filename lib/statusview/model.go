// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package statusview

import (
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/hyprwatch/lib/eventsink"
	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
	"github.com/bureau-foundation/hyprwatch/lib/hyprstate"
)

const (
	defaultMaxEntries = 2000
	statePanelWidth   = 38
)

// Options configures a Model.
type Options struct {
	// Items is the stream to display. Required.
	Items <-chan eventsink.Item

	// Tracker backs the state panel. Nil hides the panel.
	Tracker *hyprstate.Tracker

	// Title is shown in the header, normally the socket path.
	Title string

	// MaxEntries bounds the log. Default: 2000.
	MaxEntries int

	// Renderer renders styles. Default: lipgloss.DefaultRenderer().
	Renderer *lipgloss.Renderer

	// Theme and Keys default to DefaultTheme and DefaultKeyMap when
	// zero.
	Theme *Theme
	Keys  *KeyMap
}

// entry is one line of the event log.
type entry struct {
	sequence   uint64
	receivedAt time.Time
	failure    bool

	// label is the kind, or "error" for failures.
	label string

	// detail is the rendered fields or the raw line and error.
	detail string
}

// searchText is what the filter matches against.
func (e entry) searchText() string {
	return e.label + " " + e.detail
}

// match is a visible entry with the filter's highlight positions.
type match struct {
	entry     entry
	positions []int
}

// FilterModel holds the filter query.
type FilterModel struct {
	Input string

	// Active is true while the query has keyboard focus.
	Active bool
}

// HandleRune appends a character to the query.
func (filter *FilterModel) HandleRune(r rune) {
	filter.Input += string(r)
}

// HandleBackspace removes the last character, reporting whether the
// query changed.
func (filter *FilterModel) HandleBackspace() bool {
	if filter.Input == "" {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear empties the query.
func (filter *FilterModel) Clear() {
	filter.Input = ""
}

type itemMsg struct {
	item eventsink.Item
}

type sourceClosedMsg struct{}

// Model is the bubbletea model of the viewer.
type Model struct {
	items   <-chan eventsink.Item
	tracker *hyprstate.Tracker
	title   string
	keys    KeyMap
	styles  styles

	entries    []entry
	maxEntries int
	total      uint64

	filter  FilterModel
	visible []match
	slab    *util.Slab

	viewport     viewport.Model
	width        int
	height       int
	follow       bool
	paused       bool
	disconnected bool
}

// NewModel returns a Model reading from options.Items.
func NewModel(options Options) Model {
	if options.MaxEntries <= 0 {
		options.MaxEntries = defaultMaxEntries
	}
	if options.Renderer == nil {
		options.Renderer = lipgloss.DefaultRenderer()
	}
	theme := DefaultTheme
	if options.Theme != nil {
		theme = *options.Theme
	}
	keys := DefaultKeyMap
	if options.Keys != nil {
		keys = *options.Keys
	}

	return Model{
		items:      options.Items,
		tracker:    options.Tracker,
		title:      options.Title,
		keys:       keys,
		styles:     newStyles(options.Renderer, theme),
		maxEntries: options.MaxEntries,
		slab:       util.MakeSlab(100*1024, 2048),
		viewport:   viewport.New(0, 0),
		follow:     true,
	}
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return listenForItem(model.items)
}

// listenForItem blocks until the next item arrives on channel.
func listenForItem(channel <-chan eventsink.Item) tea.Cmd {
	if channel == nil {
		return nil
	}
	return func() tea.Msg {
		item, ok := <-channel
		if !ok {
			return sourceClosedMsg{}
		}
		return itemMsg{item: item}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.layout()
		model.refreshLog()
		return model, nil

	case itemMsg:
		model.appendItem(message.item)
		if !model.paused {
			model.applyFilter()
		}
		return model, listenForItem(model.items)

	case sourceClosedMsg:
		model.disconnected = true
		return model, nil

	case tea.KeyMsg:
		if model.filter.Active {
			return model.handleFilterKeys(message)
		}
		return model.handleKeys(message)
	}
	return model, nil
}

func (model Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.FilterActivate):
		model.filter.Active = true
		model.layout()

	case key.Matches(message, model.keys.FilterClear):
		if model.filter.Input != "" {
			model.filter.Clear()
			model.applyFilter()
		}

	case key.Matches(message, model.keys.Pause):
		model.paused = !model.paused
		if !model.paused {
			model.applyFilter()
		}

	case key.Matches(message, model.keys.Up):
		model.viewport.LineUp(1)
		model.follow = false

	case key.Matches(message, model.keys.Down):
		model.viewport.LineDown(1)
		model.follow = model.viewport.AtBottom()

	case key.Matches(message, model.keys.PageUp):
		model.viewport.HalfViewUp()
		model.follow = false

	case key.Matches(message, model.keys.PageDown):
		model.viewport.HalfViewDown()
		model.follow = model.viewport.AtBottom()

	case key.Matches(message, model.keys.Home):
		model.viewport.GotoTop()
		model.follow = false

	case key.Matches(message, model.keys.End):
		model.viewport.GotoBottom()
		model.follow = true
	}
	return model, nil
}

func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit

	case key.Matches(message, model.keys.FilterClear):
		// Esc clears the query first, then leaves filter mode.
		if model.filter.Input != "" {
			model.filter.Clear()
			model.applyFilter()
		} else {
			model.filter.Active = false
			model.layout()
		}

	case message.Type == tea.KeyEnter:
		model.filter.Active = false
		model.layout()

	case message.Type == tea.KeyBackspace:
		if model.filter.HandleBackspace() {
			model.applyFilter()
		}

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		for _, r := range message.Runes {
			model.filter.HandleRune(r)
		}
		if message.Type == tea.KeySpace && len(message.Runes) == 0 {
			model.filter.HandleRune(' ')
		}
		model.applyFilter()
	}
	return model, nil
}

// appendItem converts an item to a log entry, evicting the oldest
// entries past maxEntries.
func (model *Model) appendItem(item eventsink.Item) {
	model.total++
	var e entry
	switch {
	case item.Delivery != nil:
		e = entry{
			sequence:   item.Delivery.Sequence,
			receivedAt: item.Delivery.ReceivedAt,
			label:      string(item.Delivery.Event.Kind()),
			detail:     formatFields(item.Delivery.Event),
		}
	case item.Failure != nil:
		e = entry{
			sequence:   item.Failure.Sequence,
			receivedAt: item.Failure.ReceivedAt,
			failure:    true,
			label:      "error",
			detail:     item.Failure.Line,
		}
		if item.Failure.Err != nil {
			e.detail += ": " + item.Failure.Err.Error()
		}
	default:
		return
	}

	model.entries = append(model.entries, e)
	if overflow := len(model.entries) - model.maxEntries; overflow > 0 {
		model.entries = append(model.entries[:0:0], model.entries[overflow:]...)
	}
}

// formatFields renders an event's fields as name=value pairs in
// catalog order.
func formatFields(event hyprevent.Event) string {
	values := hyprevent.FieldValues(event)
	if len(values) == 0 {
		return ""
	}

	var names []string
	if descriptor, ok := hyprevent.Lookup(string(event.Kind())); ok {
		for _, field := range descriptor.Fields {
			names = append(names, field.Name)
		}
	} else {
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+values[name])
	}
	return strings.Join(parts, " ")
}

// applyFilter recomputes the visible entries and re-renders the log.
func (model *Model) applyFilter() {
	visible := make([]match, 0, len(model.entries))
	pattern := []rune(model.filter.Input)
	for _, e := range model.entries {
		if len(pattern) == 0 {
			visible = append(visible, match{entry: e})
			continue
		}
		result := fuzzyMatch(e.searchText(), pattern, model.slab)
		if result.Score > 0 {
			visible = append(visible, match{entry: e, positions: result.Positions})
		}
	}
	model.visible = visible
	model.refreshLog()
}

// refreshLog writes the visible entries into the viewport.
func (model *Model) refreshLog() {
	lines := make([]string, len(model.visible))
	for index, m := range model.visible {
		lines[index] = model.renderEntry(m, model.viewport.Width)
	}
	model.viewport.SetContent(strings.Join(lines, "\n"))
	if model.follow {
		model.viewport.GotoBottom()
	}
}

// layout sizes the viewport from the window size.
func (model *Model) layout() {
	logWidth := model.width
	if model.tracker != nil {
		logWidth -= statePanelWidth + 1
	}
	// Header and footer take one line each; the filter prompt another.
	logHeight := model.height - 2
	if model.filter.Active || model.filter.Input != "" {
		logHeight--
	}
	model.viewport.Width = max(logWidth, 0)
	model.viewport.Height = max(logHeight, 0)
}

// Entries returns the number of entries held in the log.
func (model Model) Entries() int {
	return len(model.entries)
}

// Visible returns the number of entries passing the filter.
func (model Model) Visible() int {
	return len(model.visible)
}

// Filter returns the current filter query.
func (model Model) Filter() string {
	return model.filter.Input
}

// Paused reports whether the log display is frozen.
func (model Model) Paused() bool {
	return model.paused
}

// Disconnected reports whether the item stream has ended.
func (model Model) Disconnected() bool {
	return model.disconnected
}
