// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprstate

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bureau-foundation/hyprwatch/lib/eventsink"
	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
)

// feed interprets lines and hands them to the tracker as a listener
// would.
func feed(t *testing.T, tracker *Tracker, lines ...string) {
	t.Helper()
	interpreter := hyprevent.NewInterpreter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	for index, line := range lines {
		sequence := uint64(index + 1)
		receivedAt := base.Add(time.Duration(index) * time.Second)
		event, err := interpreter.Interpret(line)
		if err != nil {
			tracker.HandleFailure(ctx, eventsink.Failure{Sequence: sequence, ReceivedAt: receivedAt, Line: line, Err: err})
			continue
		}
		tracker.HandleEvent(ctx, eventsink.Delivery{Sequence: sequence, ReceivedAt: receivedAt, Line: line, Event: event})
	}
}

func TestTrackerDesktopSession(t *testing.T) {
	tracker := NewTracker()
	feed(t, tracker,
		"monitoraddedv2>>0,DP-1,Dell U2720Q",
		"monitoradded>>HDMI-A-1",
		"focusedmon>>DP-1,1",
		"createworkspacev2>>1,1",
		"workspacev2>>1,1",
		"openwindow>>a1,1,kitty,~",
		"openwindow>>b2,1,firefox,Inbox",
		"activewindow>>firefox,Inbox",
		"activewindowv2>>b2",
		"createworkspacev2>>2,web",
		"movewindowv2>>b2,2,web",
		"moveworkspacev2>>2,web,HDMI-A-1",
		"changefloatingmode>>a1,1",
		"pin>>a1,1",
		"activelayout>>keychron,English (US)",
		"submap>>resize",
		"openlayer>>waybar",
		"screencast>>1,0",
		"fullscreen>>1",
		"garbage",
		"futuretag>>x",
		"configreloaded>>",
	)

	snapshot := tracker.Snapshot()

	if snapshot.FocusedMonitor != "DP-1" {
		t.Errorf("FocusedMonitor = %q, want DP-1", snapshot.FocusedMonitor)
	}
	if snapshot.ActiveWorkspace != (WorkspaceRef{ID: 1, Name: "1"}) {
		t.Errorf("ActiveWorkspace = %+v, want 1/1", snapshot.ActiveWorkspace)
	}
	if snapshot.ActiveWindow != (WindowRef{Address: "b2", Class: "firefox", Title: "Inbox"}) {
		t.Errorf("ActiveWindow = %+v", snapshot.ActiveWindow)
	}
	if !snapshot.Fullscreen || !snapshot.Screencasting || snapshot.Submap != "resize" {
		t.Errorf("flags: fullscreen=%v screencasting=%v submap=%q", snapshot.Fullscreen, snapshot.Screencasting, snapshot.Submap)
	}
	if snapshot.Layouts["keychron"] != "English (US)" {
		t.Errorf("Layouts = %v", snapshot.Layouts)
	}
	if len(snapshot.Layers) != 1 || snapshot.Layers[0] != "waybar" {
		t.Errorf("Layers = %v, want [waybar]", snapshot.Layers)
	}

	if len(snapshot.Monitors) != 2 {
		t.Fatalf("Monitors = %+v, want 2", snapshot.Monitors)
	}
	if dp := snapshot.Monitors[0]; dp.Name != "DP-1" || dp.Description != "Dell U2720Q" || dp.ActiveWorkspace != "1" {
		t.Errorf("DP-1 = %+v", dp)
	}

	if len(snapshot.Workspaces) != 2 {
		t.Fatalf("Workspaces = %+v, want 2", snapshot.Workspaces)
	}
	one, web := snapshot.Workspaces[0], snapshot.Workspaces[1]
	if one.Name != "1" || one.Windows != 1 || one.Monitor != "DP-1" {
		t.Errorf("workspace 1 = %+v", one)
	}
	if web.ID != 2 || web.Name != "web" || web.Monitor != "HDMI-A-1" || web.Windows != 1 {
		t.Errorf("workspace web = %+v", web)
	}

	kitty, ok := snapshot.Window("a1")
	if !ok || !kitty.Floating || !kitty.Pinned || kitty.Workspace != "1" {
		t.Errorf("window a1 = %+v (found %v)", kitty, ok)
	}
	firefox, _ := snapshot.Window("b2")
	if firefox.Workspace != "web" {
		t.Errorf("window b2 workspace = %q, want web", firefox.Workspace)
	}

	counters := snapshot.Counters
	if counters.Events != 21 || counters.Failures != 1 || counters.Unknown != 1 || counters.ConfigReloads != 1 {
		t.Errorf("Counters = %+v", counters)
	}
	if counters.LastSequence != 22 {
		t.Errorf("LastSequence = %d, want 22", counters.LastSequence)
	}
}

func TestTrackerCloseWindowClearsFocus(t *testing.T) {
	tracker := NewTracker()
	feed(t, tracker,
		"openwindow>>c3,2,code,main.go",
		"urgent>>c3",
		"activewindow>>code,main.go",
		"activewindowv2>>c3",
	)
	window, _ := tracker.Snapshot().Window("c3")
	if window.Urgent {
		t.Error("focusing an urgent window did not clear Urgent")
	}

	feed(t, tracker, "closewindow>>c3")
	snapshot := tracker.Snapshot()
	if _, ok := snapshot.Window("c3"); ok {
		t.Error("closed window still tracked")
	}
	if snapshot.ActiveWindow != (WindowRef{}) {
		t.Errorf("ActiveWindow = %+v, want empty", snapshot.ActiveWindow)
	}
}

func TestTrackerRenameAndDestroyWorkspace(t *testing.T) {
	tracker := NewTracker()
	feed(t, tracker,
		"focusedmon>>DP-1,3",
		"workspacev2>>3,3",
		"openwindow>>d4,3,mutt,mail",
		"renameworkspace>>3,mail",
	)
	snapshot := tracker.Snapshot()
	if snapshot.ActiveWorkspace.Name != "mail" {
		t.Errorf("ActiveWorkspace = %+v, want mail", snapshot.ActiveWorkspace)
	}
	if window, _ := snapshot.Window("d4"); window.Workspace != "mail" {
		t.Errorf("window workspace = %q, want mail", window.Workspace)
	}
	if _, ok := snapshot.Workspace("3"); ok {
		t.Error("old workspace name still tracked")
	}
	if snapshot.Monitors[0].ActiveWorkspace != "mail" {
		t.Errorf("monitor active workspace = %q, want mail", snapshot.Monitors[0].ActiveWorkspace)
	}

	feed(t, tracker, "destroyworkspacev2>>3,mail")
	if _, ok := tracker.Snapshot().Workspace("mail"); ok {
		t.Error("destroyed workspace still tracked")
	}
}

func TestTrackerMonitorRemoved(t *testing.T) {
	tracker := NewTracker()
	feed(t, tracker, "monitoradded>>HDMI-A-1", "focusedmon>>HDMI-A-1,1", "monitorremoved>>HDMI-A-1")
	snapshot := tracker.Snapshot()
	if len(snapshot.Monitors) != 0 || snapshot.FocusedMonitor != "" {
		t.Errorf("monitors = %+v focused = %q, want none", snapshot.Monitors, snapshot.FocusedMonitor)
	}
}

func TestTrackerLayersAreCounted(t *testing.T) {
	tracker := NewTracker()
	feed(t, tracker, "openlayer>>notifications", "openlayer>>notifications", "closelayer>>notifications")
	if layers := tracker.Snapshot().Layers; len(layers) != 1 {
		t.Fatalf("Layers = %v, want notifications still open", layers)
	}
	feed(t, tracker, "closelayer>>notifications")
	if layers := tracker.Snapshot().Layers; len(layers) != 0 {
		t.Errorf("Layers = %v, want none", layers)
	}
}

func TestTrackerReset(t *testing.T) {
	tracker := NewTracker()
	feed(t, tracker, "openwindow>>a,1,b,c", "submap>>resize")
	tracker.Reset()
	snapshot := tracker.Snapshot()
	if len(snapshot.Windows) != 0 || snapshot.Submap != "" || snapshot.Counters.Events != 0 {
		t.Errorf("snapshot after Reset = %+v", snapshot)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tracker := NewTracker()
	feed(t, tracker, "openwindow>>a,1,kitty,t", "activelayout>>kb,us")

	snapshot := tracker.Snapshot()
	snapshot.Windows[0].Title = "changed"
	snapshot.Layouts["kb"] = "de"

	again := tracker.Snapshot()
	if again.Windows[0].Title != "t" || again.Layouts["kb"] != "us" {
		t.Errorf("mutating a snapshot changed the tracker: %+v", again)
	}
}

func TestSnapshotJSON(t *testing.T) {
	tracker := NewTracker()
	feed(t, tracker, "workspacev2>>1,main")

	data, err := json.Marshal(tracker.Snapshot())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	active, _ := decoded["active_workspace"].(map[string]any)
	if active["name"] != "main" || active["id"] != float64(1) {
		t.Errorf("active_workspace = %v", decoded["active_workspace"])
	}
}

func TestApplyDoesNotCount(t *testing.T) {
	tracker := NewTracker()
	tracker.Apply(hyprevent.Submap{Name: "move"})
	snapshot := tracker.Snapshot()
	if snapshot.Submap != "move" || snapshot.Counters.Events != 0 {
		t.Errorf("Apply: submap=%q events=%d", snapshot.Submap, snapshot.Counters.Events)
	}
}
