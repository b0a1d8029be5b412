package force

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/vmath"
)

// PointerState is the latest pointer sample, written by the host between ticks
type PointerState struct {
	Pos       r2.Vec
	LastMoved float64 // Scene time of the last move
	Active    bool
}

// Move records a pointer sample
func (s *PointerState) Move(pos r2.Vec, t float64) {
	s.Pos = pos
	s.LastMoved = t
	s.Active = true
}

// Pointer pushes particles away from the pointer within radius
// The push falls off linearly to zero at radius and stops timeout seconds after the last move
func Pointer(state *PointerState, radius, timeout float64) Field {
	return func(pos r2.Vec, t float64, _ *Context) Force {
		if state == nil || !state.Active || t-state.LastMoved >= timeout {
			return Zero
		}
		dir, dist := vmath.Normalize(r2.Sub(pos, state.Pos))
		if dist >= radius || dist < vmath.Epsilon {
			return Zero
		}
		return Force{
			Magnitude: 1 - dist/radius,
			Direction: dir,
		}
	}
}
