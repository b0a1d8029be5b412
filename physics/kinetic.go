package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/force"
)

// Integration tuning
const (
	TargetTimestep = 1.0 / 60.0 // Reference step for damping normalization
	MaxTimestep    = 1.0 / 30.0 // Longer frames are clamped to this
	DragCoeff      = 0.1        // Quadratic drag coefficient
	MinSpeed       = 1e-5       // Drag is skipped below this speed
)

// State is the post-step diagnostic snapshot of one particle
type State struct {
	Acceleration  r2.Vec
	KineticEnergy float64
	Momentum      r2.Vec
}

// ApplyForce advances one particle by dt under f
// a = F/m minus quadratic drag, position p += v·dt + ½a·dt², then v += a·dt,
// then velocity damping^(dt/TargetTimestep) so decay is independent of frame rate
func ApplyForce(p *core.Particle, f force.Force, dt, damping float64) State {
	if dt <= 0 {
		return state(p, r2.Vec{})
	}
	dt = math.Min(dt, MaxTimestep)
	mass := p.EffectiveMass()

	accel := r2.Scale(f.Magnitude/mass, f.Direction)

	speed := math.Hypot(p.Vel.X, p.Vel.Y)
	if speed > MinSpeed {
		drag := DragCoeff * speed * speed / mass
		accel.X -= p.Vel.X / speed * drag
		accel.Y -= p.Vel.Y / speed * drag
	}

	p.Pos.X += p.Vel.X*dt + 0.5*accel.X*dt*dt
	p.Pos.Y += p.Vel.Y*dt + 0.5*accel.Y*dt*dt

	p.Vel.X += accel.X * dt
	p.Vel.Y += accel.Y * dt

	factor := math.Pow(damping, dt/TargetTimestep)
	p.Vel = r2.Scale(factor, p.Vel)

	return state(p, accel)
}

func state(p *core.Particle, accel r2.Vec) State {
	mass := p.EffectiveMass()
	speedSq := p.Vel.X*p.Vel.X + p.Vel.Y*p.Vel.Y
	p.Inertia = 0.5 * mass * speedSq
	return State{
		Acceleration:  accel,
		KineticEnergy: p.Inertia,
		Momentum:      r2.Scale(mass, p.Vel),
	}
}

// ApplyImpulse adds a velocity delta
func ApplyImpulse(p *core.Particle, dv r2.Vec) {
	p.Vel = r2.Add(p.Vel, dv)
}
