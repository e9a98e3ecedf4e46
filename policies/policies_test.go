package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeu5/pusht-hirl/types"
)

func TestRandomPolicyStaysInActionSpace(t *testing.T) {
	p := NewRandomPolicy(types.Workspace, 42)
	for i := 0; i < 1000; i++ {
		a := p.NextAction(nil)
		assert.True(t, types.Workspace.Contains(a), "action %v outside action space", a)
	}
}

func TestRandomPolicyIsDeterministicPerSeed(t *testing.T) {
	p1 := NewRandomPolicy(types.Workspace, 7)
	p2 := NewRandomPolicy(types.Workspace, 7)
	for i := 0; i < 50; i++ {
		assert.Equal(t, p1.NextAction(nil), p2.NextAction(nil))
	}

	p3 := NewRandomPolicy(types.Workspace, 8)
	same := true
	p1 = NewRandomPolicy(types.Workspace, 7)
	for i := 0; i < 50; i++ {
		if p1.NextAction(nil) != p3.NextAction(nil) {
			same = false
		}
	}
	assert.False(t, same, "different seeds should produce different streams")
}

func TestGreedyPushPolicyAimsBehindBlock(t *testing.T) {
	goal := types.Vec2{X: 256, Y: 256}
	p := NewGreedyPushPolicy(types.Workspace, goal)

	obs := types.VectorObservation{Values: []float64{50, 50, 200, 256, 0}}
	a := p.NextAction(obs)

	// block is left of the goal, so the push point sits further left
	assert.Less(t, a.X, 200.0)
	assert.InDelta(t, 256.0, a.Y, 1e-9)
	assert.True(t, types.Workspace.Contains(a))
}

func TestGreedyPushPolicyImageFallback(t *testing.T) {
	p := NewGreedyPushPolicy(types.Workspace, types.Vec2{X: 256, Y: 256})
	a := p.NextAction(types.ImageObservation{Width: 2, Height: 2, Pixels: make([]byte, 12)})
	assert.Equal(t, types.Vec2{X: 256, Y: 256}, a)
}
