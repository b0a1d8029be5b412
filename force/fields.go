package force

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/vmath"
)

// HexOptions shapes the hex lattice
type HexOptions struct {
	Aspect float64 // Vertical stretch, 1 = regular hexagons
	Scale  float64 // Overall scale multiplier
}

// HexGrid pulls toward the center of the nearest hex cell
// Magnitude is min(1, dist/gridSize), zero exactly on a lattice point
func HexGrid(size float64, opts HexOptions) Field {
	aspect := opts.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	gridSize := size * scale

	return func(pos r2.Vec, _ float64, _ *Context) Force {
		if gridSize < vmath.Epsilon {
			return Zero
		}
		target := vmath.NearestHexCenter(pos, gridSize, aspect)
		dir, dist := vmath.Normalize(r2.Sub(target, pos))
		return Force{
			Magnitude: math.Min(1, dist/gridSize),
			Direction: dir,
		}
	}
}

// Orbit pushes tangentially around center, harder the further from radius
func Orbit(center r2.Vec, radius float64) Field {
	return func(pos r2.Vec, _ float64, _ *Context) Force {
		radial, dist := vmath.Normalize(r2.Sub(pos, center))
		dir := vmath.Perpendicular(radial)

		return Force{
			Magnitude: math.Min(1, math.Abs(dist-radius)/math.Max(radius, vmath.Epsilon)),
			Direction: dir,
		}
	}
}

// FlowField is a deterministic sinusoidal flow: angle = sin(x·f+t)·cos(y·f+t)·π
func FlowField(frequency, amplitude float64) Field {
	return func(pos r2.Vec, t float64, _ *Context) Force {
		angle := math.Sin(pos.X*frequency+t) * math.Cos(pos.Y*frequency+t) * math.Pi
		return Force{
			Magnitude: amplitude,
			Direction: vmath.FromAngle(angle),
		}
	}
}

// Constant returns the same force everywhere
func Constant(magnitude float64, direction r2.Vec) Field {
	dir, _ := vmath.Normalize(direction)
	f := Force{Magnitude: magnitude, Direction: dir}
	return func(r2.Vec, float64, *Context) Force {
		return f
	}
}

// Upward is the screen-space up direction (y grows downward)
var Upward = r2.Vec{X: 0, Y: -1}

// Brownian is a stochastic, smoothly turning push of constant magnitude
// State is kept on the particle under evaluation; a free position gets the zero force
// Every coherence·personalFreq seconds a new target angle roughly half a turn away is picked,
// biased toward the current rotation sense, and the angle eases toward it with a cubic ease-out
func Brownian(baseMagnitude, coherence float64, rng vmath.Rand) Field {
	if coherence <= 0 {
		coherence = 2.0
	}

	return func(_ r2.Vec, t float64, ctx *Context) Force {
		p := ctx.CurrentParticle()
		if p == nil {
			return Zero
		}
		st := &p.Brownian

		if !st.Seeded {
			st.Angle = rng.Float64() * 2 * math.Pi
			st.TargetAngle = rng.Float64() * 2 * math.Pi
			st.TransitionStart = t
			st.PersonalFreq = 0.7 + rng.Float64()*0.6
			st.LastUpdate = t
			st.Seeded = true
		}

		dt := t - st.LastUpdate
		st.LastUpdate = t

		window := coherence * st.PersonalFreq
		since := t - st.TransitionStart
		if since > window {
			rotation := (st.TargetAngle - st.Angle) / (2 * math.Pi)
			bias := vmath.Sign(rotation) * 0.3
			st.TargetAngle = st.Angle + math.Pi*(1+bias*(rng.Float64()-0.5))
			st.TransitionStart = t
		}

		progress := math.Min(1, since/window)
		st.Angle += (st.TargetAngle - st.Angle) * vmath.EaseOutCubic(progress) * dt

		// Keep target in the same winding as the wrapped angle
		wrapped := vmath.WrapAngle(st.Angle)
		st.TargetAngle += wrapped - st.Angle
		st.Angle = wrapped

		return Force{
			Magnitude: baseMagnitude * st.PersonalFreq,
			Direction: vmath.FromAngle(st.Angle),
		}
	}
}
