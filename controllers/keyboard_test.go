package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/pusht-hirl/types"
)

func TestKeyboardNoKeysMeansNoMovement(t *testing.T) {
	k := NewKeyboardController(DefaultBindings(), 10, types.Workspace)

	_, ok := k.Target(DeviceState{}, types.Vec2{X: 256, Y: 256})
	assert.False(t, ok, "no held keys must report no movement, not a zero delta")
}

func TestKeyboardDirections(t *testing.T) {
	k := NewKeyboardController(DefaultBindings(), 10, types.Workspace)
	pos := types.Vec2{X: 100, Y: 100}

	cases := []struct {
		name string
		keys []string
		want types.Vec2
	}{
		{"up", []string{"w"}, types.Vec2{X: 100, Y: 90}},
		{"down", []string{"s"}, types.Vec2{X: 100, Y: 110}},
		{"left", []string{"a"}, types.Vec2{X: 90, Y: 100}},
		{"right", []string{"d"}, types.Vec2{X: 110, Y: 100}},
		{"diagonal", []string{"w", "d"}, types.Vec2{X: 110, Y: 90}},
		{"opposites cancel into up", []string{"a", "d", "w"}, types.Vec2{X: 100, Y: 90}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := k.Target(HoldKeys(tc.keys...), pos)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestKeyboardClampsToWorkspace(t *testing.T) {
	k := NewKeyboardController(DefaultBindings(), 30, types.Workspace)

	got, ok := k.Target(HoldKeys("w"), types.Vec2{X: 0, Y: 10})
	require.True(t, ok)
	assert.Equal(t, types.Vec2{X: 0, Y: 0}, got)

	got, ok = k.Target(HoldKeys("d"), types.Vec2{X: 500, Y: 512})
	require.True(t, ok)
	assert.Equal(t, types.Vec2{X: 512, Y: 512}, got)
}

func TestKeyboardOppositeKeysHoldPosition(t *testing.T) {
	k := NewKeyboardController(DefaultBindings(), 10, types.Workspace)

	// all four directions cancel out: that is "no movement", not pos itself
	_, ok := k.Target(HoldKeys("w", "s", "a", "d"), types.Vec2{X: 100, Y: 100})
	assert.False(t, ok)
}
