package policies

import "github.com/zeu5/pusht-hirl/types"

// GreedyPushPolicy steers the agent to the far side of the block relative
// to the goal and pushes through it. It reads the vector projection of the
// observation laid out as [agent_x, agent_y, block_x, block_y, block_angle]
// with the goal position appended when present; image-only observations
// fall back to holding the workspace center.
type GreedyPushPolicy struct {
	space  types.Box
	goal   types.Vec2
	offset float64
}

var _ types.Policy = &GreedyPushPolicy{}

func NewGreedyPushPolicy(space types.Box, goal types.Vec2) *GreedyPushPolicy {
	return &GreedyPushPolicy{
		space:  space,
		goal:   goal,
		offset: 24,
	}
}

func (p *GreedyPushPolicy) NextAction(obs types.Observation) types.Vec2 {
	values, ok := types.FeatureVector(obs)
	if !ok || len(values) < 4 {
		center := types.Vec2{
			X: (p.space.Min.X + p.space.Max.X) / 2,
			Y: (p.space.Min.Y + p.space.Max.Y) / 2,
		}
		return center
	}
	block := types.Vec2{X: values[2], Y: values[3]}

	// aim behind the block on the goal-block axis so contact pushes the
	// block toward the goal
	away := block.Sub(p.goal)
	dist := p.goal.Dist(block)
	if dist < 1e-9 {
		return p.space.Clamp(block)
	}
	behind := block.Add(away.Scale(p.offset / dist))
	return p.space.Clamp(behind)
}
