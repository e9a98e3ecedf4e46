package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/pusht-hirl/types"
)

type fixedPolicy struct {
	action types.Vec2
}

func (p fixedPolicy) NextAction(types.Observation) types.Vec2 { return p.action }

func newTestArbiter(humanFirst bool) *Arbiter {
	source := NewKeyboardController(DefaultBindings(), 10, types.Workspace)
	return NewArbiter(source, fixedPolicy{action: types.Vec2{X: 7, Y: 7}}, DefaultBindings(), humanFirst, nil)
}

func TestArbiterCommandPrecedence(t *testing.T) {
	cases := []struct {
		name string
		keys []string
		want Command
	}{
		{"quit alone", []string{"q"}, CommandQuit},
		{"quit beats reset", []string{"q", "r"}, CommandQuit},
		{"quit beats everything", []string{"q", "r", "space"}, CommandQuit},
		{"reset beats toggle", []string{"r", "space"}, CommandReset},
		{"toggle alone", []string{"space"}, CommandToggle},
		{"nothing", nil, CommandNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestArbiter(true)
			got := a.Resolve(PressKeys(tc.keys...))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestArbiterToggleFlipsMode(t *testing.T) {
	a := newTestArbiter(true)
	require.True(t, a.HumanActive())

	assert.Equal(t, CommandToggle, a.Resolve(PressKeys("space")))
	assert.False(t, a.HumanActive())

	assert.Equal(t, CommandToggle, a.Resolve(PressKeys("space")))
	assert.True(t, a.HumanActive())
}

func TestArbiterSuppressedToggleLeavesModeAlone(t *testing.T) {
	a := newTestArbiter(true)

	// reset outranks toggle, so the mode must not flip
	assert.Equal(t, CommandReset, a.Resolve(PressKeys("r", "space")))
	assert.True(t, a.HumanActive())
}

func TestArbiterQuitRequestedSeesOnlyQuit(t *testing.T) {
	a := newTestArbiter(true)

	assert.True(t, a.QuitRequested(PressKeys("q")))
	assert.True(t, a.QuitRequested(PressKeys("q", "r")))
	assert.False(t, a.QuitRequested(PressKeys("r")))
	assert.False(t, a.QuitRequested(DeviceState{}))

	// a toggle alongside the quit must not flip the mode
	a.QuitRequested(PressKeys("q", "space"))
	assert.True(t, a.HumanActive())
}

func TestArbiterDispatch(t *testing.T) {
	a := newTestArbiter(true)
	agentPos := types.Vec2{X: 100, Y: 100}

	// human mode delegates to the input source
	got, ok := a.Action(HoldKeys("d"), nil, agentPos)
	require.True(t, ok)
	assert.Equal(t, types.Vec2{X: 110, Y: 100}, got)

	// human mode with no input is "no movement"
	_, ok = a.Action(DeviceState{}, nil, agentPos)
	assert.False(t, ok)

	// autonomous mode delegates to the policy, always producing an action
	a.Resolve(PressKeys("space"))
	got, ok = a.Action(DeviceState{}, types.VectorObservation{Values: []float64{1}}, agentPos)
	require.True(t, ok)
	assert.Equal(t, types.Vec2{X: 7, Y: 7}, got)
}
