package controllers

import (
	"log/slog"

	"github.com/zeu5/pusht-hirl/types"
)

// Arbiter decides, tick by tick, whether the human input source or the
// autonomous policy drives the action, and decodes special commands from
// the device with fixed precedence quit > reset > toggle. At most one
// command category is honored per tick.
type Arbiter struct {
	humanActive bool
	bindings    Bindings
	source      InputSource
	policy      types.Policy
	log         *slog.Logger
}

func NewArbiter(source InputSource, policy types.Policy, bindings Bindings, humanFirst bool, log *slog.Logger) *Arbiter {
	if log == nil {
		log = slog.Default()
	}
	return &Arbiter{
		humanActive: humanFirst,
		bindings:    bindings,
		source:      source,
		policy:      policy,
		log:         log,
	}
}

// HumanActive reports the current control mode.
func (a *Arbiter) HumanActive() bool {
	return a.humanActive
}

// Resolve consumes one tick's device events and returns the single honored
// special command. A toggle flips the active mode before returning, so the
// flag sampled after Resolve reflects the mode that drives this tick's step.
func (a *Arbiter) Resolve(st DeviceState) Command {
	switch {
	case st.pressed(a.bindings.Quit):
		return CommandQuit
	case st.pressed(a.bindings.Reset):
		return CommandReset
	case st.pressed(a.bindings.Toggle):
		a.humanActive = !a.humanActive
		a.log.Info("control mode switched", "human", a.humanActive)
		return CommandToggle
	default:
		return CommandNone
	}
}

// QuitRequested reports whether this tick's events carry a quit, without
// consuming the lower-precedence command categories.
func (a *Arbiter) QuitRequested(st DeviceState) bool {
	return st.pressed(a.bindings.Quit)
}

// Action resolves this tick's movement target. Under human control it
// delegates to the input source with the agent position; otherwise the
// autonomous policy decides from the observation. The second return value
// is false when the human source produced no movement.
func (a *Arbiter) Action(st DeviceState, obs types.Observation, agentPos types.Vec2) (types.Vec2, bool) {
	if a.humanActive {
		return a.source.Target(st, agentPos)
	}
	return a.policy.NextAction(obs), true
}
