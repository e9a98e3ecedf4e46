package pusht

import (
	"math"

	"github.com/zeu5/pusht-hirl/types"
)

var (
	colorBackground = [3]byte{255, 255, 255}
	colorGoal       = [3]byte{160, 230, 160}
	colorBlock      = [3]byte{119, 136, 153}
	colorAgent      = [3]byte{65, 105, 225}
)

func (e *Env) renderImage() types.ImageObservation {
	return e.RenderFrame(e.cfg.ImageSize)
}

// RenderFrame rasters the workspace top-down into an RGB frame of the
// given square size. Painter order: goal zone under the block, agent on
// top.
func (e *Env) RenderFrame(n int) types.ImageObservation {
	pixels := make([]byte, n*n*3)
	scale := types.Workspace.Max.X / float64(n)

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			p := types.Vec2{
				X: (float64(x) + 0.5) * scale,
				Y: (float64(y) + 0.5) * scale,
			}
			c := colorBackground
			if inTee(p, e.goal, e.goalAngle) {
				c = colorGoal
			}
			if inTee(p, e.block, e.blockAngle) {
				c = colorBlock
			}
			if p.Dist(e.agent) <= agentRadius {
				c = colorAgent
			}
			i := (y*n + x) * 3
			pixels[i] = c[0]
			pixels[i+1] = c[1]
			pixels[i+2] = c[2]
		}
	}
	return types.ImageObservation{Width: n, Height: n, Pixels: pixels}
}

// inTee tests membership in the T shape at the given pose: a horizontal
// bar with a stem hanging below it, in the shape's local frame.
func inTee(p, center types.Vec2, angle float64) bool {
	d := p.Sub(center)
	cos, sin := math.Cos(-angle), math.Sin(-angle)
	lx := d.X*cos - d.Y*sin
	ly := d.X*sin + d.Y*cos
	if lx >= -60 && lx <= 60 && ly >= -15 && ly <= 15 {
		return true
	}
	return lx >= -15 && lx <= 15 && ly > 15 && ly <= 90
}
