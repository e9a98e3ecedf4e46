package policies

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zeu5/pusht-hirl/types"
)

// RandomPolicy samples target positions uniformly within the action space.
// It owns an explicitly seeded generator; nothing outside the policy can
// mutate its random stream.
type RandomPolicy struct {
	x distuv.Uniform
	y distuv.Uniform
}

var _ types.Policy = &RandomPolicy{}

func NewRandomPolicy(space types.Box, seed uint64) *RandomPolicy {
	src := rand.NewSource(seed)
	return &RandomPolicy{
		x: distuv.Uniform{Min: space.Min.X, Max: space.Max.X, Src: src},
		y: distuv.Uniform{Min: space.Min.Y, Max: space.Max.Y, Src: src},
	}
}

func (p *RandomPolicy) NextAction(_ types.Observation) types.Vec2 {
	return types.Vec2{X: p.x.Rand(), Y: p.y.Rand()}
}
