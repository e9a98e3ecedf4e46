package controllers

import "github.com/zeu5/pusht-hirl/types"

// MouseController drives the agent toward the absolute pointer position with
// exponential smoothing: target' = alpha*prev + (1-alpha)*raw. The first
// sample seeds the filter so there is no lag on the opening tick.
type MouseController struct {
	alpha       float64
	clickToMove bool
	bounds      types.Box

	target types.Vec2
	seeded bool
}

var _ InputSource = &MouseController{}

func NewMouseController(alpha float64, clickToMove bool, bounds types.Box) *MouseController {
	return &MouseController{
		alpha:       alpha,
		clickToMove: clickToMove,
		bounds:      bounds,
	}
}

func (m *MouseController) Target(st DeviceState, _ types.Vec2) (types.Vec2, bool) {
	if !st.PointerOK {
		return types.Vec2{}, false
	}
	// engage-to-move gate: without the button no output and no filter update
	if m.clickToMove && !st.ButtonHeld {
		return types.Vec2{}, false
	}

	raw := m.bounds.Clamp(st.Pointer)
	if !m.seeded || m.alpha == 0 {
		m.target = raw
		m.seeded = true
	} else {
		m.target = types.Vec2{
			X: m.alpha*m.target.X + (1-m.alpha)*raw.X,
			Y: m.alpha*m.target.Y + (1-m.alpha)*raw.Y,
		}
	}
	return m.target, true
}
