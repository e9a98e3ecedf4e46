package controllers

import "github.com/zeu5/pusht-hirl/types"

// DeviceState is one tick's snapshot of the operator's input device.
// Absence of input is ordinary state, never an error.
type DeviceState struct {
	// Held reports keys currently held down, by physical key name.
	Held map[string]bool
	// Pressed reports keys that went down this tick.
	Pressed map[string]bool
	// Pointer is the absolute device position, valid only when PointerOK.
	Pointer   types.Vec2
	PointerOK bool
	// ButtonHeld reports the engagement button (left button) held down.
	ButtonHeld bool
}

func (s DeviceState) held(key string) bool {
	return s.Held[key]
}

func (s DeviceState) pressed(key string) bool {
	return s.Pressed[key]
}

// Device is polled once per tick by the session loop.
type Device interface {
	Poll() DeviceState
}

// NullDevice reports no input, for autonomous-only headless sessions.
type NullDevice struct{}

func (NullDevice) Poll() DeviceState { return DeviceState{} }

var _ Device = NullDevice{}

// ScriptedDevice replays a fixed sequence of device states, one per poll,
// and keeps returning the zero state when the script runs out. Used to
// drive deterministic session tests and scripted demos.
type ScriptedDevice struct {
	States []DeviceState
	next   int
}

func NewScriptedDevice(states ...DeviceState) *ScriptedDevice {
	return &ScriptedDevice{States: states}
}

func (d *ScriptedDevice) Poll() DeviceState {
	if d.next >= len(d.States) {
		return DeviceState{}
	}
	st := d.States[d.next]
	d.next++
	return st
}

var _ Device = &ScriptedDevice{}

// HoldKeys builds a state with the given keys held, convenient in scripts.
func HoldKeys(keys ...string) DeviceState {
	held := make(map[string]bool, len(keys))
	for _, k := range keys {
		held[k] = true
	}
	return DeviceState{Held: held}
}

// PressKeys builds a state with the given keys newly pressed.
func PressKeys(keys ...string) DeviceState {
	pressed := make(map[string]bool, len(keys))
	for _, k := range keys {
		pressed[k] = true
	}
	return DeviceState{Pressed: pressed}
}
