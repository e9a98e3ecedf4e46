package types

import "math"

// Vec2 is a point or displacement in workspace coordinates.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Box is an axis-aligned rectangle, used for the action and workspace bounds.
type Box struct {
	Min Vec2
	Max Vec2
}

// Clamp projects v onto the box, coordinate-wise.
func (b Box) Clamp(v Vec2) Vec2 {
	out := v
	if out.X < b.Min.X {
		out.X = b.Min.X
	}
	if out.X > b.Max.X {
		out.X = b.Max.X
	}
	if out.Y < b.Min.Y {
		out.Y = b.Min.Y
	}
	if out.Y > b.Max.Y {
		out.Y = b.Max.Y
	}
	return out
}

func (b Box) Contains(v Vec2) bool {
	return v.X >= b.Min.X && v.X <= b.Max.X && v.Y >= b.Min.Y && v.Y <= b.Max.Y
}

// Workspace is the PushT action and observation space.
var Workspace = Box{Min: Vec2{X: 0, Y: 0}, Max: Vec2{X: 512, Y: 512}}
