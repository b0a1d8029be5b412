package force

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/vmath"
)

// body adapts a particle slot to barneshut.Particle2
type body struct {
	particles *[]core.Particle
	index     int
}

func (b *body) Coord2() r2.Vec {
	return (*b.particles)[b.index].Pos
}

func (b *body) Mass() float64 {
	return (*b.particles)[b.index].EffectiveMass()
}

// Repulsion is an inverse-square push away from every other particle, approximated with a Barnes-Hut quadtree
// The tree is built once per tick by Rebuild and shared by all evaluations of that tick
type Repulsion struct {
	theta     float64
	softening float64

	particles []core.Particle
	bodies    []barneshut.Particle2
	plane     barneshut.Plane
	ready     bool
}

// NewRepulsion creates a repulsion field source
// theta is the Barnes-Hut opening angle (0 = exact), softening bounds the force at short range
func NewRepulsion(theta, softening float64) *Repulsion {
	if theta < 0 {
		theta = 0
	}
	return &Repulsion{theta: theta, softening: math.Max(softening, vmath.Epsilon)}
}

// Rebuild refreshes the quadtree from the current positions
// Returns the tree build error, in which case the field yields zero until the next successful rebuild
func (r *Repulsion) Rebuild(particles []core.Particle) error {
	r.particles = particles
	if len(r.bodies) != len(particles) {
		r.bodies = make([]barneshut.Particle2, len(particles))
		for i := range particles {
			r.bodies[i] = &body{particles: &r.particles, index: i}
		}
	}
	r.plane.Particles = r.bodies

	r.ready = false
	if err := r.plane.Reset(); err != nil {
		return err
	}
	r.ready = true
	return nil
}

// repel is the softened negation of barneshut.Gravity2
func (r *Repulsion) repel(_, _ barneshut.Particle2, m1, m2 float64, v r2.Vec) r2.Vec {
	d2 := v.X*v.X + v.Y*v.Y + r.softening*r.softening
	return r2.Scale(-(m1*m2)/(d2*math.Sqrt(d2)), v)
}

// Field returns the repulsion as a force field evaluated on the current particle
// Magnitude is the raw inverse-square sum, callers scale it with the config weight
func (r *Repulsion) Field() Field {
	return func(_ r2.Vec, _ float64, ctx *Context) Force {
		if !r.ready || ctx == nil || ctx.Current < 0 || ctx.Current >= len(r.bodies) {
			return Zero
		}
		v := r.plane.ForceOn(r.bodies[ctx.Current], r.theta, r.repel)
		dir, mag := vmath.Normalize(v)
		if !vmath.IsFinite(mag) {
			return Zero
		}
		return Force{Magnitude: mag, Direction: dir}
	}
}
