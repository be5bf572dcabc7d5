// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprstate

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/bureau-foundation/hyprwatch/lib/eventsink"
	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
)

// Tracker maintains desktop state from events. Safe for concurrent use.
type Tracker struct {
	mu sync.RWMutex

	focusedMonitor  string
	activeWorkspace WorkspaceRef
	activeWindow    WindowRef
	fullscreen      bool
	submap          string
	screencasting   bool
	lockGroups      bool
	ignoreGroupLock bool
	layouts         map[string]string
	monitors        map[string]*Monitor
	workspaces      map[string]*Workspace
	windows         map[string]*Window
	layers          map[string]int
	counters        Counters
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		layouts:    make(map[string]string),
		monitors:   make(map[string]*Monitor),
		workspaces: make(map[string]*Workspace),
		windows:    make(map[string]*Window),
		layers:     make(map[string]int),
	}
}

func (tracker *Tracker) HandleEvent(_ context.Context, delivery eventsink.Delivery) error {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.applyLocked(delivery.Event)
	tracker.counters.Events++
	tracker.counters.LastSequence = delivery.Sequence
	tracker.counters.UpdatedAt = delivery.ReceivedAt
	return nil
}

func (tracker *Tracker) HandleFailure(_ context.Context, failure eventsink.Failure) error {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.counters.Failures++
	tracker.counters.LastSequence = failure.Sequence
	return nil
}

// Apply folds a single event into the state without touching the
// stream counters.
func (tracker *Tracker) Apply(event hyprevent.Event) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.applyLocked(event)
}

func (tracker *Tracker) applyLocked(event hyprevent.Event) {
	switch event := event.(type) {
	case hyprevent.Workspace:
		tracker.focusWorkspace(0, event.Name)
	case hyprevent.WorkspaceV2:
		tracker.focusWorkspace(event.ID, event.Name)
	case hyprevent.FocusedMonitor:
		tracker.focusedMonitor = event.Monitor
		tracker.monitor(event.Monitor)
		tracker.focusWorkspace(0, event.Workspace)

	case hyprevent.ActiveWindow:
		tracker.activeWindow.Class = event.Class
		tracker.activeWindow.Title = event.Title
	case hyprevent.ActiveWindowV2:
		tracker.activeWindow.Address = event.Address
		if window, ok := tracker.windows[event.Address]; ok {
			window.Urgent = false
		}
	case hyprevent.Fullscreen:
		tracker.fullscreen = event.Entered

	case hyprevent.MonitorAdded:
		tracker.monitor(event.Monitor)
	case hyprevent.MonitorAddedV2:
		monitor := tracker.monitor(event.Monitor)
		monitor.ID = event.ID
		monitor.Description = event.Description
	case hyprevent.MonitorRemoved:
		delete(tracker.monitors, event.Monitor)
		if tracker.focusedMonitor == event.Monitor {
			tracker.focusedMonitor = ""
		}

	case hyprevent.CreateWorkspace:
		tracker.workspace(0, event.Name)
	case hyprevent.CreateWorkspaceV2:
		tracker.workspace(event.ID, event.Name)
	case hyprevent.DestroyWorkspace:
		delete(tracker.workspaces, event.Name)
	case hyprevent.DestroyWorkspaceV2:
		delete(tracker.workspaces, event.Name)
	case hyprevent.MoveWorkspace:
		tracker.workspace(0, event.Name).Monitor = event.Monitor
	case hyprevent.MoveWorkspaceV2:
		tracker.workspace(event.ID, event.Name).Monitor = event.Monitor
	case hyprevent.RenameWorkspace:
		tracker.renameWorkspace(event.ID, event.NewName)
	case hyprevent.ActiveSpecial:
		tracker.monitor(event.Monitor).Special = event.Name

	case hyprevent.ActiveLayout:
		tracker.layouts[event.Keyboard] = event.Layout

	case hyprevent.OpenWindow:
		tracker.windows[event.Address] = &Window{
			Address:   event.Address,
			Workspace: event.Workspace,
			Class:     event.Class,
			Title:     event.Title,
		}
		tracker.workspace(0, event.Workspace)
	case hyprevent.CloseWindow:
		delete(tracker.windows, event.Address)
		if tracker.activeWindow.Address == event.Address {
			tracker.activeWindow = WindowRef{}
		}
	case hyprevent.MoveWindow:
		tracker.moveWindow(event.Address, 0, event.Workspace)
	case hyprevent.MoveWindowV2:
		tracker.moveWindow(event.Address, event.WorkspaceID, event.Workspace)
	case hyprevent.ChangeFloatingMode:
		if window, ok := tracker.windows[event.Address]; ok {
			window.Floating = event.Floating
		}
	case hyprevent.Urgent:
		if window, ok := tracker.windows[event.Address]; ok {
			window.Urgent = true
		}
	case hyprevent.Minimize:
		if window, ok := tracker.windows[event.Address]; ok {
			window.Minimized = event.Minimized
		}
	case hyprevent.Pin:
		if window, ok := tracker.windows[event.Address]; ok {
			window.Pinned = event.Pinned
		}

	case hyprevent.OpenLayer:
		tracker.layers[event.Namespace]++
	case hyprevent.CloseLayer:
		if tracker.layers[event.Namespace] <= 1 {
			delete(tracker.layers, event.Namespace)
		} else {
			tracker.layers[event.Namespace]--
		}

	case hyprevent.Submap:
		tracker.submap = event.Name
	case hyprevent.Screencast:
		tracker.screencasting = event.Active
	case hyprevent.LockGroups:
		tracker.lockGroups = event.State
	case hyprevent.IgnoreGroupLock:
		tracker.ignoreGroupLock = event.State
	case hyprevent.ConfigReloaded:
		tracker.counters.ConfigReloads++
	case hyprevent.Unknown:
		tracker.counters.Unknown++
	}
}

// focusWorkspace records the active workspace and, when the focused
// monitor is known, that monitor's active workspace.
func (tracker *Tracker) focusWorkspace(id uint32, name string) {
	if id == 0 && tracker.activeWorkspace.Name == name {
		id = tracker.activeWorkspace.ID
	}
	workspace := tracker.workspace(id, name)
	tracker.activeWorkspace = WorkspaceRef{ID: workspace.ID, Name: name}
	if tracker.focusedMonitor == "" {
		return
	}
	tracker.monitor(tracker.focusedMonitor).ActiveWorkspace = name
	if workspace.Monitor == "" {
		workspace.Monitor = tracker.focusedMonitor
	}
}

// workspace returns the named workspace, creating it if needed, and
// records id when it is known.
func (tracker *Tracker) workspace(id uint32, name string) *Workspace {
	workspace, ok := tracker.workspaces[name]
	if !ok {
		workspace = &Workspace{Name: name}
		tracker.workspaces[name] = workspace
	}
	if id != 0 {
		workspace.ID = id
	}
	return workspace
}

func (tracker *Tracker) renameWorkspace(id uint32, newName string) {
	for oldName, workspace := range tracker.workspaces {
		if workspace.ID != id {
			continue
		}
		delete(tracker.workspaces, oldName)
		workspace.Name = newName
		tracker.workspaces[newName] = workspace

		for _, window := range tracker.windows {
			if window.Workspace == oldName {
				window.Workspace = newName
			}
		}
		for _, monitor := range tracker.monitors {
			if monitor.ActiveWorkspace == oldName {
				monitor.ActiveWorkspace = newName
			}
		}
		if tracker.activeWorkspace.ID == id {
			tracker.activeWorkspace.Name = newName
		}
		return
	}
}

func (tracker *Tracker) monitor(name string) *Monitor {
	monitor, ok := tracker.monitors[name]
	if !ok {
		monitor = &Monitor{Name: name}
		tracker.monitors[name] = monitor
	}
	return monitor
}

func (tracker *Tracker) moveWindow(address string, workspaceID uint32, workspaceName string) {
	tracker.workspace(workspaceID, workspaceName)
	if window, ok := tracker.windows[address]; ok {
		window.Workspace = workspaceName
	}
}

// Snapshot returns a sorted copy of the current state.
func (tracker *Tracker) Snapshot() Snapshot {
	tracker.mu.RLock()
	defer tracker.mu.RUnlock()

	snapshot := Snapshot{
		FocusedMonitor:  tracker.focusedMonitor,
		ActiveWorkspace: tracker.activeWorkspace,
		ActiveWindow:    tracker.activeWindow,
		Fullscreen:      tracker.fullscreen,
		Submap:          tracker.submap,
		Screencasting:   tracker.screencasting,
		LockGroups:      tracker.lockGroups,
		IgnoreGroupLock: tracker.ignoreGroupLock,
		Layouts:         maps.Clone(tracker.layouts),
		Layers:          slices.Sorted(maps.Keys(tracker.layers)),
		Counters:        tracker.counters,
	}

	windowCounts := make(map[string]int)
	for _, address := range slices.Sorted(maps.Keys(tracker.windows)) {
		window := *tracker.windows[address]
		snapshot.Windows = append(snapshot.Windows, window)
		windowCounts[window.Workspace]++
	}
	for _, name := range slices.Sorted(maps.Keys(tracker.monitors)) {
		snapshot.Monitors = append(snapshot.Monitors, *tracker.monitors[name])
	}
	for _, workspace := range tracker.workspaces {
		copied := *workspace
		copied.Windows = windowCounts[workspace.Name]
		snapshot.Workspaces = append(snapshot.Workspaces, copied)
	}
	slices.SortFunc(snapshot.Workspaces, func(a, b Workspace) int {
		return cmp.Or(cmp.Compare(a.ID, b.ID), cmp.Compare(a.Name, b.Name))
	})
	return snapshot
}

// Reset discards all state. The supervisor calls it after a reconnect,
// since events missed while disconnected cannot be recovered.
func (tracker *Tracker) Reset() {
	fresh := NewTracker()
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.focusedMonitor = ""
	tracker.activeWorkspace = WorkspaceRef{}
	tracker.activeWindow = WindowRef{}
	tracker.fullscreen = false
	tracker.submap = ""
	tracker.screencasting = false
	tracker.lockGroups = false
	tracker.ignoreGroupLock = false
	tracker.layouts = fresh.layouts
	tracker.monitors = fresh.monitors
	tracker.workspaces = fresh.workspaces
	tracker.windows = fresh.windows
	tracker.layers = fresh.layers
	tracker.counters = Counters{}
}
