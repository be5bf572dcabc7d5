// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprstate

import "time"

// Snapshot is a point-in-time copy of tracked state. Slices are sorted
// and owned by the caller.
type Snapshot struct {
	FocusedMonitor  string            `json:"focused_monitor"`
	ActiveWorkspace WorkspaceRef      `json:"active_workspace"`
	ActiveWindow    WindowRef         `json:"active_window"`
	Fullscreen      bool              `json:"fullscreen"`
	Submap          string            `json:"submap"`
	Screencasting   bool              `json:"screencasting"`
	LockGroups      bool              `json:"lock_groups"`
	IgnoreGroupLock bool              `json:"ignore_group_lock"`
	Layouts         map[string]string `json:"layouts"`
	Monitors        []Monitor         `json:"monitors"`
	Workspaces      []Workspace       `json:"workspaces"`
	Windows         []Window          `json:"windows"`
	Layers          []string          `json:"layers"`
	Counters        Counters          `json:"counters"`
}

// WorkspaceRef names a workspace. ID is zero when only the name is
// known.
type WorkspaceRef struct {
	ID   uint32 `json:"id,omitempty"`
	Name string `json:"name"`
}

// WindowRef is the focused window as reported by activewindow and
// activewindowv2.
type WindowRef struct {
	Address string `json:"address,omitempty"`
	Class   string `json:"class"`
	Title   string `json:"title"`
}

type Monitor struct {
	ID              uint32 `json:"id,omitempty"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	ActiveWorkspace string `json:"active_workspace,omitempty"`
	Special         string `json:"special,omitempty"`
}

type Workspace struct {
	ID      uint32 `json:"id,omitempty"`
	Name    string `json:"name"`
	Monitor string `json:"monitor,omitempty"`
	Windows int    `json:"windows"`
}

type Window struct {
	Address   string `json:"address"`
	Workspace string `json:"workspace"`
	Class     string `json:"class"`
	Title     string `json:"title"`
	Floating  bool   `json:"floating,omitempty"`
	Pinned    bool   `json:"pinned,omitempty"`
	Minimized bool   `json:"minimized,omitempty"`
	Urgent    bool   `json:"urgent,omitempty"`
}

// Counters summarise the stream the tracker has seen.
type Counters struct {
	Events        uint64    `json:"events"`
	Failures      uint64    `json:"failures"`
	Unknown       uint64    `json:"unknown"`
	ConfigReloads uint64    `json:"config_reloads"`
	LastSequence  uint64    `json:"last_sequence"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Window returns the tracked window with the given address.
func (snapshot Snapshot) Window(address string) (Window, bool) {
	for _, window := range snapshot.Windows {
		if window.Address == address {
			return window, true
		}
	}
	return Window{}, false
}

// Workspace returns the tracked workspace with the given name.
func (snapshot Snapshot) Workspace(name string) (Workspace, bool) {
	for _, workspace := range snapshot.Workspaces {
		if workspace.Name == name {
			return workspace, true
		}
	}
	return Workspace{}, false
}
