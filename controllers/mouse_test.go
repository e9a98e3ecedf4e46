package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/pusht-hirl/types"
)

func pointerAt(x, y float64) DeviceState {
	return DeviceState{Pointer: types.Vec2{X: x, Y: y}, PointerOK: true}
}

func TestMouseNoPointerMeansNoMovement(t *testing.T) {
	m := NewMouseController(0.5, false, types.Workspace)

	_, ok := m.Target(DeviceState{}, types.Vec2{})
	assert.False(t, ok)
}

func TestMouseZeroAlphaTracksRawExactly(t *testing.T) {
	m := NewMouseController(0, false, types.Workspace)

	for _, p := range []types.Vec2{{X: 10, Y: 10}, {X: 400, Y: 30}, {X: 256, Y: 256}} {
		got, ok := m.Target(pointerAt(p.X, p.Y), types.Vec2{})
		require.True(t, ok)
		assert.Equal(t, p, got, "alpha=0 must have no lag")
	}
}

func TestMouseFirstSampleSeedsFilter(t *testing.T) {
	m := NewMouseController(0.9, false, types.Workspace)

	got, ok := m.Target(pointerAt(300, 200), types.Vec2{})
	require.True(t, ok)
	assert.Equal(t, types.Vec2{X: 300, Y: 200}, got, "first observation must not lag")
}

func TestMouseSmoothingConvergesWithoutOvershoot(t *testing.T) {
	m := NewMouseController(0.5, false, types.Workspace)

	// seed at the origin, then hold the pointer at (400,400)
	_, ok := m.Target(pointerAt(0, 0), types.Vec2{})
	require.True(t, ok)

	prevDist := types.Vec2{X: 400, Y: 400}.Dist(types.Vec2{})
	for i := 0; i < 60; i++ {
		got, ok := m.Target(pointerAt(400, 400), types.Vec2{})
		require.True(t, ok)

		assert.LessOrEqual(t, got.X, 400.0, "must never overshoot")
		assert.LessOrEqual(t, got.Y, 400.0)

		dist := types.Vec2{X: 400, Y: 400}.Dist(got)
		if dist == 0 {
			prevDist = 0
			break
		}
		assert.Less(t, dist, prevDist, "distance to target must shrink every tick")
		prevDist = dist
	}
	assert.Less(t, prevDist, 1e-6, "geometric convergence after 60 ticks at alpha=0.5")
}

func TestMouseClampsRawBeforeSmoothing(t *testing.T) {
	m := NewMouseController(0, false, types.Workspace)

	got, ok := m.Target(pointerAt(600, -10), types.Vec2{})
	require.True(t, ok)
	assert.Equal(t, types.Vec2{X: 512, Y: 0}, got)
}

func TestMouseClickToMoveGate(t *testing.T) {
	m := NewMouseController(0.5, true, types.Workspace)

	st := pointerAt(100, 100)
	_, ok := m.Target(st, types.Vec2{})
	assert.False(t, ok, "gate must suppress output without the button")

	st.ButtonHeld = true
	got, ok := m.Target(st, types.Vec2{})
	require.True(t, ok)
	assert.Equal(t, types.Vec2{X: 100, Y: 100}, got, "gated ticks must not have advanced the filter")
}
