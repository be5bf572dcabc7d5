// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprevent

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldType is the wire type of one payload field.
type FieldType uint8

const (
	// FieldText is UTF-8 text, taken verbatim.
	FieldText FieldType = iota

	// FieldUint is an unsigned 32-bit decimal integer.
	FieldUint

	// FieldBool is a truthy-1 boolean: "1" is true, anything else is
	// false.
	FieldBool
)

// String returns the name used in catalog listings.
func (fieldType FieldType) String() string {
	switch fieldType {
	case FieldText:
		return "text"
	case FieldUint:
		return "uint"
	case FieldBool:
		return "bool"
	default:
		return fmt.Sprintf("unknown(%d)", fieldType)
	}
}

// Field is one named, typed position in a payload.
type Field struct {
	Name string
	Type FieldType
}

// Descriptor fixes the schema of one event kind: its tag, ordered
// fields and decode rule. Descriptors are obtained from [Lookup] or
// [Descriptors]; the zero value decodes nothing.
type Descriptor struct {
	Kind   Kind
	Fields []Field

	build func(values *fieldValues) Event
}

// Arity is the exact number of payload fields the event carries.
func (descriptor Descriptor) Arity() int {
	return len(descriptor.Fields)
}

// Decode turns a payload (everything after the ">>" delimiter) into
// the event this descriptor describes.
func (descriptor Descriptor) Decode(payload string) (Event, error) {
	if descriptor.build == nil {
		return nil, fmt.Errorf("no decoder for event kind %q", descriptor.Kind)
	}

	parts, err := descriptor.split(payload)
	if err != nil {
		return nil, err
	}

	values := fieldValues{descriptor: &descriptor, payload: payload, parts: parts}
	event := descriptor.build(&values)
	if values.err != nil {
		return nil, values.err
	}
	return event, nil
}

// Values splits a payload by the same arity rule as Decode and returns
// the raw field text keyed by field name. Field types are not checked.
func (descriptor Descriptor) Values(payload string) (map[string]string, error) {
	parts, err := descriptor.split(payload)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(parts))
	for index, part := range parts {
		values[descriptor.Fields[index].Name] = part
	}
	return values, nil
}

// split applies the arity rule. Zero-field events ignore the payload
// and single-field events take it whole, so only multi-field events
// can fail here.
func (descriptor Descriptor) split(payload string) ([]string, error) {
	switch len(descriptor.Fields) {
	case 0:
		return nil, nil
	case 1:
		return []string{payload}, nil
	}

	parts := strings.Split(payload, ",")
	if len(parts) != len(descriptor.Fields) {
		return nil, &ArityError{
			Kind:    descriptor.Kind,
			Payload: payload,
			Want:    len(descriptor.Fields),
			Got:     len(parts),
		}
	}
	return parts, nil
}

// fieldValues gives a descriptor's build function typed access to the
// split payload. The first conversion failure is kept in err and
// reported by Decode after build returns.
type fieldValues struct {
	descriptor *Descriptor
	payload    string
	parts      []string
	err        error
}

func (values *fieldValues) text(index int) string {
	return values.parts[index]
}

func (values *fieldValues) number(index int) uint32 {
	raw := values.parts[index]
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		if values.err == nil {
			values.err = &FieldTypeError{
				Kind:    values.descriptor.Kind,
				Field:   values.descriptor.Fields[index].Name,
				Value:   raw,
				Payload: values.payload,
				Err:     err,
			}
		}
		return 0
	}
	return uint32(parsed)
}

func (values *fieldValues) flag(index int) bool {
	return values.parts[index] == "1"
}

func textField(name string) Field { return Field{Name: name, Type: FieldText} }
func uintField(name string) Field { return Field{Name: name, Type: FieldUint} }
func boolField(name string) Field { return Field{Name: name, Type: FieldBool} }

// descriptors is the protocol table, in the compositor's documentation
// order.
var descriptors = []Descriptor{
	{
		Kind:   KindWorkspace,
		Fields: []Field{textField("name")},
		build:  func(v *fieldValues) Event { return Workspace{Name: v.text(0)} },
	},
	{
		Kind:   KindWorkspaceV2,
		Fields: []Field{uintField("id"), textField("name")},
		build:  func(v *fieldValues) Event { return WorkspaceV2{ID: v.number(0), Name: v.text(1)} },
	},
	{
		Kind:   KindFocusedMonitor,
		Fields: []Field{textField("monitor"), textField("workspace")},
		build: func(v *fieldValues) Event {
			return FocusedMonitor{Monitor: v.text(0), Workspace: v.text(1)}
		},
	},
	{
		Kind:   KindActiveWindow,
		Fields: []Field{textField("class"), textField("title")},
		build:  func(v *fieldValues) Event { return ActiveWindow{Class: v.text(0), Title: v.text(1)} },
	},
	{
		Kind:   KindActiveWindowV2,
		Fields: []Field{textField("address")},
		build:  func(v *fieldValues) Event { return ActiveWindowV2{Address: v.text(0)} },
	},
	{
		Kind:   KindFullscreen,
		Fields: []Field{boolField("entered")},
		build:  func(v *fieldValues) Event { return Fullscreen{Entered: v.flag(0)} },
	},
	{
		Kind:   KindMonitorRemoved,
		Fields: []Field{textField("monitor")},
		build:  func(v *fieldValues) Event { return MonitorRemoved{Monitor: v.text(0)} },
	},
	{
		Kind:   KindMonitorAdded,
		Fields: []Field{textField("monitor")},
		build:  func(v *fieldValues) Event { return MonitorAdded{Monitor: v.text(0)} },
	},
	{
		Kind:   KindMonitorAddedV2,
		Fields: []Field{uintField("id"), textField("monitor"), textField("description")},
		build: func(v *fieldValues) Event {
			return MonitorAddedV2{ID: v.number(0), Monitor: v.text(1), Description: v.text(2)}
		},
	},
	{
		Kind:   KindCreateWorkspace,
		Fields: []Field{textField("name")},
		build:  func(v *fieldValues) Event { return CreateWorkspace{Name: v.text(0)} },
	},
	{
		Kind:   KindCreateWorkspaceV2,
		Fields: []Field{uintField("id"), textField("name")},
		build:  func(v *fieldValues) Event { return CreateWorkspaceV2{ID: v.number(0), Name: v.text(1)} },
	},
	{
		Kind:   KindDestroyWorkspace,
		Fields: []Field{textField("name")},
		build:  func(v *fieldValues) Event { return DestroyWorkspace{Name: v.text(0)} },
	},
	{
		Kind:   KindDestroyWorkspaceV2,
		Fields: []Field{uintField("id"), textField("name")},
		build:  func(v *fieldValues) Event { return DestroyWorkspaceV2{ID: v.number(0), Name: v.text(1)} },
	},
	{
		Kind:   KindMoveWorkspace,
		Fields: []Field{textField("name"), textField("monitor")},
		build:  func(v *fieldValues) Event { return MoveWorkspace{Name: v.text(0), Monitor: v.text(1)} },
	},
	{
		Kind:   KindMoveWorkspaceV2,
		Fields: []Field{uintField("id"), textField("name"), textField("monitor")},
		build: func(v *fieldValues) Event {
			return MoveWorkspaceV2{ID: v.number(0), Name: v.text(1), Monitor: v.text(2)}
		},
	},
	{
		Kind:   KindRenameWorkspace,
		Fields: []Field{uintField("id"), textField("new_name")},
		build:  func(v *fieldValues) Event { return RenameWorkspace{ID: v.number(0), NewName: v.text(1)} },
	},
	{
		Kind:   KindActiveSpecial,
		Fields: []Field{textField("name"), textField("monitor")},
		build:  func(v *fieldValues) Event { return ActiveSpecial{Name: v.text(0), Monitor: v.text(1)} },
	},
	{
		Kind:   KindActiveLayout,
		Fields: []Field{textField("keyboard"), textField("layout")},
		build:  func(v *fieldValues) Event { return ActiveLayout{Keyboard: v.text(0), Layout: v.text(1)} },
	},
	{
		Kind:   KindOpenWindow,
		Fields: []Field{textField("address"), textField("workspace"), textField("class"), textField("title")},
		build: func(v *fieldValues) Event {
			return OpenWindow{Address: v.text(0), Workspace: v.text(1), Class: v.text(2), Title: v.text(3)}
		},
	},
	{
		Kind:   KindCloseWindow,
		Fields: []Field{textField("address")},
		build:  func(v *fieldValues) Event { return CloseWindow{Address: v.text(0)} },
	},
	{
		Kind:   KindMoveWindow,
		Fields: []Field{textField("address"), textField("workspace")},
		build:  func(v *fieldValues) Event { return MoveWindow{Address: v.text(0), Workspace: v.text(1)} },
	},
	{
		Kind:   KindMoveWindowV2,
		Fields: []Field{textField("address"), uintField("id"), textField("workspace")},
		build: func(v *fieldValues) Event {
			return MoveWindowV2{Address: v.text(0), WorkspaceID: v.number(1), Workspace: v.text(2)}
		},
	},
	{
		Kind:   KindWindowTitle,
		Fields: []Field{textField("address")},
		build:  func(v *fieldValues) Event { return WindowTitle{Address: v.text(0)} },
	},
	{
		Kind:   KindOpenLayer,
		Fields: []Field{textField("namespace")},
		build:  func(v *fieldValues) Event { return OpenLayer{Namespace: v.text(0)} },
	},
	{
		Kind:   KindCloseLayer,
		Fields: []Field{textField("namespace")},
		build:  func(v *fieldValues) Event { return CloseLayer{Namespace: v.text(0)} },
	},
	{
		Kind:   KindSubmap,
		Fields: []Field{textField("name")},
		build:  func(v *fieldValues) Event { return Submap{Name: v.text(0)} },
	},
	{
		Kind:   KindChangeFloatingMode,
		Fields: []Field{textField("address"), boolField("floating")},
		build: func(v *fieldValues) Event {
			return ChangeFloatingMode{Address: v.text(0), Floating: v.flag(1)}
		},
	},
	{
		Kind:   KindUrgent,
		Fields: []Field{textField("address")},
		build:  func(v *fieldValues) Event { return Urgent{Address: v.text(0)} },
	},
	{
		Kind:   KindMinimize,
		Fields: []Field{textField("address"), boolField("minimized")},
		build:  func(v *fieldValues) Event { return Minimize{Address: v.text(0), Minimized: v.flag(1)} },
	},
	{
		Kind:   KindScreencast,
		Fields: []Field{boolField("active"), uintField("owner")},
		build:  func(v *fieldValues) Event { return Screencast{Active: v.flag(0), Owner: v.number(1)} },
	},
	{
		Kind:   KindIgnoreGroupLock,
		Fields: []Field{boolField("state")},
		build:  func(v *fieldValues) Event { return IgnoreGroupLock{State: v.flag(0)} },
	},
	{
		Kind:   KindLockGroups,
		Fields: []Field{boolField("state")},
		build:  func(v *fieldValues) Event { return LockGroups{State: v.flag(0)} },
	},
	{
		Kind:   KindPin,
		Fields: []Field{textField("address"), boolField("pinned")},
		build:  func(v *fieldValues) Event { return Pin{Address: v.text(0), Pinned: v.flag(1)} },
	},
	{
		Kind:  KindConfigReloaded,
		build: func(*fieldValues) Event { return ConfigReloaded{} },
	},
}

// catalog indexes descriptors by tag.
var catalog = indexDescriptors(descriptors)

func indexDescriptors(list []Descriptor) map[Kind]Descriptor {
	index := make(map[Kind]Descriptor, len(list))
	for _, descriptor := range list {
		if _, exists := index[descriptor.Kind]; exists {
			panic("hyprevent: duplicate descriptor for " + string(descriptor.Kind))
		}
		index[descriptor.Kind] = descriptor
	}
	return index
}

// Lookup returns the descriptor for a wire tag. Matching is exact and
// case-sensitive.
func Lookup(tag string) (Descriptor, bool) {
	descriptor, ok := catalog[Kind(tag)]
	return descriptor, ok
}

// Descriptors returns every catalog entry in protocol table order. The
// returned slice is a copy; the Fields slices are shared and must not
// be modified.
func Descriptors() []Descriptor {
	result := make([]Descriptor, len(descriptors))
	copy(result, descriptors)
	return result
}
