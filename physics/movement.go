package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/vmath"
)

// CapSpeed limits the velocity magnitude to maxSpeed
// Returns true if velocity was clamped
func CapSpeed(p *core.Particle, maxSpeed float64) bool {
	if maxSpeed <= 0 {
		return false
	}
	if vmath.Length(p.Vel) > maxSpeed {
		p.Vel = vmath.ClampLength(p.Vel, maxSpeed)
		return true
	}
	return false
}

// ReflectX bounces the particle off the vertical walls of [0, width], returns true if reflection occurred
func ReflectX(p *core.Particle, width float64) bool {
	if p.Pos.X < 0 {
		p.Pos.X = -p.Pos.X
		p.Vel.X = math.Abs(p.Vel.X)
	} else if p.Pos.X > width {
		p.Pos.X = 2*width - p.Pos.X
		p.Vel.X = -math.Abs(p.Vel.X)
	} else {
		return false
	}
	// Overshoot larger than the canvas
	p.Pos.X = vmath.Clamp(p.Pos.X, 0, width)
	return true
}

// WrapY moves a particle leaving one horizontal edge to the opposite one, velocity unchanged
func WrapY(p *core.Particle, height float64) bool {
	if p.Pos.Y >= 0 && p.Pos.Y <= height {
		return false
	}
	p.Pos.Y = math.Mod(p.Pos.Y, height)
	if p.Pos.Y < 0 {
		p.Pos.Y += height
	}
	return true
}

// Confine keeps particles inside a width×height canvas: reflect horizontally, wrap vertically
// Returns the number of particles that were moved
func Confine(particles []core.Particle, width, height float64) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	moved := 0
	for i := range particles {
		p := &particles[i]
		rx := ReflectX(p, width)
		wy := WrapY(p, height)
		if rx || wy {
			moved++
		}
	}
	return moved
}

// Scatter places particles uniformly at random over the canvas with small random velocities
// Brownian state is cleared so fields reseed it
func Scatter(particles []core.Particle, width, height, speed float64, rng vmath.Rand) {
	for i := range particles {
		particles[i] = core.Particle{
			Pos:  r2.Vec{X: rng.Float64() * width, Y: rng.Float64() * height},
			Vel:  r2.Vec{X: (rng.Float64() - 0.5) * speed, Y: (rng.Float64() - 0.5) * speed},
			Mass: 0.8 + rng.Float64()*0.4,
		}
	}
}
