package core

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is one simulated vertex, stored by value in a slice and addressed by index
// Brownian state lives inline so it is tied to the slot for the whole session
type Particle struct {
	// Pos is the position in canvas units
	Pos r2.Vec
	// Vel is the velocity in canvas units per second
	Vel r2.Vec
	// Mass is around 1.0
	Mass float64
	// Inertia is the kinetic energy after the last integration step (½·m·|v|²)
	Inertia float64

	Brownian BrownianState
}

// BrownianState is the hidden per-particle state of the Brownian force field
type BrownianState struct {
	Angle           float64 // Current force direction (radians)
	TargetAngle     float64 // Direction being eased toward
	TransitionStart float64 // Time the current transition began
	LastUpdate      float64 // Time of the previous evaluation
	PersonalFreq    float64 // Individual multiplier in [0.7, 1.3]
	Seeded          bool
}

// EffectiveMass returns Mass, treating non-positive values as unit mass
func (p *Particle) EffectiveMass() float64 {
	if p.Mass <= 0 {
		return 1
	}
	return p.Mass
}

// Frame describes the canvas and clock for one tick
type Frame struct {
	Width, Height float64
	Time          float64 // Seconds since scene start
	DeltaTime     float64 // Seconds since previous tick
}
