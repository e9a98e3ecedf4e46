package controllers

import "github.com/zeu5/pusht-hirl/types"

// InputSource turns a device snapshot into a movement target. The second
// return value distinguishes "no movement this tick" from an explicit
// target; callers must not treat absence as a zero delta.
type InputSource interface {
	Target(st DeviceState, agentPos types.Vec2) (types.Vec2, bool)
}

// KeyboardController drives the agent with directional keys: each held
// direction contributes the configured speed to a 2D delta relative to the
// agent's current position.
type KeyboardController struct {
	bindings Bindings
	speed    float64
	bounds   types.Box
}

var _ InputSource = &KeyboardController{}

func NewKeyboardController(bindings Bindings, speed float64, bounds types.Box) *KeyboardController {
	return &KeyboardController{
		bindings: bindings,
		speed:    speed,
		bounds:   bounds,
	}
}

func (k *KeyboardController) Target(st DeviceState, agentPos types.Vec2) (types.Vec2, bool) {
	delta := types.Vec2{}
	if st.held(k.bindings.Up) {
		delta.Y -= k.speed
	}
	if st.held(k.bindings.Down) {
		delta.Y += k.speed
	}
	if st.held(k.bindings.Left) {
		delta.X -= k.speed
	}
	if st.held(k.bindings.Right) {
		delta.X += k.speed
	}
	if delta.X == 0 && delta.Y == 0 {
		return types.Vec2{}, false
	}
	return k.bounds.Clamp(agentPos.Add(delta)), true
}
