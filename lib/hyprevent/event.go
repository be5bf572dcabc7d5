// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprevent

// Kind is the wire tag of an event, e.g. "workspacev2".
type Kind string

const (
	KindWorkspace          Kind = "workspace"
	KindWorkspaceV2        Kind = "workspacev2"
	KindFocusedMonitor     Kind = "focusedmon"
	KindActiveWindow       Kind = "activewindow"
	KindActiveWindowV2     Kind = "activewindowv2"
	KindFullscreen         Kind = "fullscreen"
	KindMonitorRemoved     Kind = "monitorremoved"
	KindMonitorAdded       Kind = "monitoradded"
	KindMonitorAddedV2     Kind = "monitoraddedv2"
	KindCreateWorkspace    Kind = "createworkspace"
	KindCreateWorkspaceV2  Kind = "createworkspacev2"
	KindDestroyWorkspace   Kind = "destroyworkspace"
	KindDestroyWorkspaceV2 Kind = "destroyworkspacev2"
	KindMoveWorkspace      Kind = "moveworkspace"
	KindMoveWorkspaceV2    Kind = "moveworkspacev2"
	KindRenameWorkspace    Kind = "renameworkspace"
	KindActiveSpecial      Kind = "activespecial"
	KindActiveLayout       Kind = "activelayout"
	KindOpenWindow         Kind = "openwindow"
	KindCloseWindow        Kind = "closewindow"
	KindMoveWindow         Kind = "movewindow"
	KindMoveWindowV2       Kind = "movewindowv2"
	KindWindowTitle        Kind = "windowtitle"
	KindOpenLayer          Kind = "openlayer"
	KindCloseLayer         Kind = "closelayer"
	KindSubmap             Kind = "submap"
	KindChangeFloatingMode Kind = "changefloatingmode"
	KindUrgent             Kind = "urgent"
	KindMinimize           Kind = "minimize"
	KindScreencast         Kind = "screencast"
	KindIgnoreGroupLock    Kind = "ignoregrouplock"
	KindLockGroups         Kind = "lockgroups"
	KindPin                Kind = "pin"
	KindConfigReloaded     Kind = "configreloaded"

	// KindUnknown is reported by [Unknown] events. It is never a
	// catalog key; the original tag is in Unknown.Tag.
	KindUnknown Kind = "unknown"
)

// Event is one decoded notification. The set of implementations is
// closed: one struct per catalog entry plus [Unknown]. Consumers
// type-switch on the concrete value.
type Event interface {
	Kind() Kind
}

// Workspace is emitted when the user switches workspace (not on mouse
// focus changes).
//
//	workspace>>WORKSPACENAME
type Workspace struct {
	Name string `json:"name"`
}

// WorkspaceV2 is [Workspace] with the workspace ID.
//
//	workspacev2>>WORKSPACEID,WORKSPACENAME
type WorkspaceV2 struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

// FocusedMonitor is emitted when the active monitor changes.
//
//	focusedmon>>MONNAME,WORKSPACENAME
type FocusedMonitor struct {
	Monitor   string `json:"monitor"`
	Workspace string `json:"workspace"`
}

// ActiveWindow is emitted when window focus changes.
//
//	activewindow>>WINDOWCLASS,WINDOWTITLE
type ActiveWindow struct {
	Class string `json:"class"`
	Title string `json:"title"`
}

// ActiveWindowV2 carries the address of the newly focused window.
//
//	activewindowv2>>WINDOWADDRESS
type ActiveWindowV2 struct {
	Address string `json:"address"`
}

// Fullscreen reports a change in the fullscreen state of the focused
// window.
//
//	fullscreen>>0|1
type Fullscreen struct {
	Entered bool `json:"entered"`
}

// MonitorRemoved is emitted when a monitor is disconnected.
type MonitorRemoved struct {
	Monitor string `json:"monitor"`
}

// MonitorAdded is emitted when a monitor is connected.
type MonitorAdded struct {
	Monitor string `json:"monitor"`
}

// MonitorAddedV2 is [MonitorAdded] with the monitor ID and description.
//
//	monitoraddedv2>>MONITORID,MONITORNAME,MONITORDESCRIPTION
type MonitorAddedV2 struct {
	ID          uint32 `json:"id"`
	Monitor     string `json:"monitor"`
	Description string `json:"description"`
}

type CreateWorkspace struct {
	Name string `json:"name"`
}

type CreateWorkspaceV2 struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

type DestroyWorkspace struct {
	Name string `json:"name"`
}

type DestroyWorkspaceV2 struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

// MoveWorkspace is emitted when a workspace moves to another monitor.
//
//	moveworkspace>>WORKSPACENAME,MONNAME
type MoveWorkspace struct {
	Name    string `json:"name"`
	Monitor string `json:"monitor"`
}

// MoveWorkspaceV2 is [MoveWorkspace] with the workspace ID.
type MoveWorkspaceV2 struct {
	ID      uint32 `json:"id"`
	Name    string `json:"name"`
	Monitor string `json:"monitor"`
}

type RenameWorkspace struct {
	ID      uint32 `json:"id"`
	NewName string `json:"new_name"`
}

// ActiveSpecial is emitted when the special workspace shown on a
// monitor changes. Closing the special workspace reports an empty
// Name.
type ActiveSpecial struct {
	Name    string `json:"name"`
	Monitor string `json:"monitor"`
}

// ActiveLayout is emitted on a keyboard layout change.
type ActiveLayout struct {
	Keyboard string `json:"keyboard"`
	Layout   string `json:"layout"`
}

// OpenWindow is emitted when a window is mapped.
//
//	openwindow>>WINDOWADDRESS,WORKSPACENAME,WINDOWCLASS,WINDOWTITLE
type OpenWindow struct {
	Address   string `json:"address"`
	Workspace string `json:"workspace"`
	Class     string `json:"class"`
	Title     string `json:"title"`
}

type CloseWindow struct {
	Address string `json:"address"`
}

// MoveWindow is emitted when a window moves to another workspace.
type MoveWindow struct {
	Address   string `json:"address"`
	Workspace string `json:"workspace"`
}

// MoveWindowV2 is [MoveWindow] with the destination workspace ID.
//
//	movewindowv2>>WINDOWADDRESS,WORKSPACEID,WORKSPACENAME
type MoveWindowV2 struct {
	Address     string `json:"address"`
	WorkspaceID uint32 `json:"id"`
	Workspace   string `json:"workspace"`
}

// WindowTitle reports that a window's title changed. The new title is
// not part of the notification.
type WindowTitle struct {
	Address string `json:"address"`
}

// OpenLayer is emitted when a layer surface is mapped.
type OpenLayer struct {
	Namespace string `json:"namespace"`
}

// CloseLayer is emitted when a layer surface is unmapped.
type CloseLayer struct {
	Namespace string `json:"namespace"`
}

// Submap is emitted when the keybind submap changes. An empty Name is
// the default submap.
type Submap struct {
	Name string `json:"name"`
}

type ChangeFloatingMode struct {
	Address  string `json:"address"`
	Floating bool   `json:"floating"`
}

// Urgent is emitted when a window requests attention.
type Urgent struct {
	Address string `json:"address"`
}

type Minimize struct {
	Address   string `json:"address"`
	Minimized bool   `json:"minimized"`
}

// Screencast owner values.
const (
	ScreencastOwnerMonitor uint32 = 0
	ScreencastOwnerWindow  uint32 = 1
)

// Screencast reports a screencopy state change. There may be several
// independent screencopy clients.
//
//	screencast>>STATE,OWNER
type Screencast struct {
	Active bool   `json:"active"`
	Owner  uint32 `json:"owner"`
}

type IgnoreGroupLock struct {
	State bool `json:"state"`
}

type LockGroups struct {
	State bool `json:"state"`
}

// Pin is emitted when a window is pinned or unpinned.
type Pin struct {
	Address string `json:"address"`
	Pinned  bool   `json:"pinned"`
}

// ConfigReloaded is emitted after the compositor reloads its
// configuration. It carries no fields.
type ConfigReloaded struct{}

// Unknown holds a notification whose tag is not in the catalog.
type Unknown struct {
	Tag     string `json:"tag"`
	Payload string `json:"payload"`
}

func (Workspace) Kind() Kind          { return KindWorkspace }
func (WorkspaceV2) Kind() Kind        { return KindWorkspaceV2 }
func (FocusedMonitor) Kind() Kind     { return KindFocusedMonitor }
func (ActiveWindow) Kind() Kind       { return KindActiveWindow }
func (ActiveWindowV2) Kind() Kind     { return KindActiveWindowV2 }
func (Fullscreen) Kind() Kind         { return KindFullscreen }
func (MonitorRemoved) Kind() Kind     { return KindMonitorRemoved }
func (MonitorAdded) Kind() Kind       { return KindMonitorAdded }
func (MonitorAddedV2) Kind() Kind     { return KindMonitorAddedV2 }
func (CreateWorkspace) Kind() Kind    { return KindCreateWorkspace }
func (CreateWorkspaceV2) Kind() Kind  { return KindCreateWorkspaceV2 }
func (DestroyWorkspace) Kind() Kind   { return KindDestroyWorkspace }
func (DestroyWorkspaceV2) Kind() Kind { return KindDestroyWorkspaceV2 }
func (MoveWorkspace) Kind() Kind      { return KindMoveWorkspace }
func (MoveWorkspaceV2) Kind() Kind    { return KindMoveWorkspaceV2 }
func (RenameWorkspace) Kind() Kind    { return KindRenameWorkspace }
func (ActiveSpecial) Kind() Kind      { return KindActiveSpecial }
func (ActiveLayout) Kind() Kind       { return KindActiveLayout }
func (OpenWindow) Kind() Kind         { return KindOpenWindow }
func (CloseWindow) Kind() Kind        { return KindCloseWindow }
func (MoveWindow) Kind() Kind         { return KindMoveWindow }
func (MoveWindowV2) Kind() Kind       { return KindMoveWindowV2 }
func (WindowTitle) Kind() Kind        { return KindWindowTitle }
func (OpenLayer) Kind() Kind          { return KindOpenLayer }
func (CloseLayer) Kind() Kind         { return KindCloseLayer }
func (Submap) Kind() Kind             { return KindSubmap }
func (ChangeFloatingMode) Kind() Kind { return KindChangeFloatingMode }
func (Urgent) Kind() Kind             { return KindUrgent }
func (Minimize) Kind() Kind           { return KindMinimize }
func (Screencast) Kind() Kind         { return KindScreencast }
func (IgnoreGroupLock) Kind() Kind    { return KindIgnoreGroupLock }
func (LockGroups) Kind() Kind         { return KindLockGroups }
func (Pin) Kind() Kind                { return KindPin }
func (ConfigReloaded) Kind() Kind     { return KindConfigReloaded }
func (Unknown) Kind() Kind            { return KindUnknown }
