// Package force defines force fields, the functions that push particles around, and the
// combinator that merges weighted fields into one.
package force

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/vmath"
)

// Force is a push with a scalar magnitude and a unit direction
type Force struct {
	Magnitude float64
	Direction r2.Vec
}

// Zero is the no-op force
var Zero = Force{}

// Vector returns the force as Direction·Magnitude
func (f Force) Vector() r2.Vec {
	return r2.Scale(f.Magnitude, f.Direction)
}

// Context is passed to every field evaluation
type Context struct {
	Width, Height float64
	Particles     []core.Particle
	// Current is the index of the particle being evaluated, -1 for a free position
	Current int
}

// CurrentParticle returns the particle under evaluation or nil
func (c *Context) CurrentParticle() *core.Particle {
	if c == nil || c.Current < 0 || c.Current >= len(c.Particles) {
		return nil
	}
	return &c.Particles[c.Current]
}

// Field maps a position and time to a force
type Field func(pos r2.Vec, t float64, ctx *Context) Force

// Kind selects how the combinator folds a field in
type Kind uint8

const (
	// Additive fields contribute direction and magnitude (inject energy)
	Additive Kind = iota
	// Restrictive fields only bend the running direction
	Restrictive
)

// String returns the config name of the kind
func (k Kind) String() string {
	switch k {
	case Restrictive:
		return "restrictive"
	default:
		return "additive"
	}
}

// FieldConfig is one weighted entry of a composite
type FieldConfig struct {
	Field  Field
	Weight float64
	Kind   Kind
}

// Combine merges weighted fields into one
// Additive forces are summed as direction·magnitude then renormalized, magnitudes summed
// Each restrictive force then blends the direction as d·(1-m) + dir·m and the result is renormalized
// Restrictive magnitudes never add to the total
func Combine(configs []FieldConfig) Field {
	additive := make([]FieldConfig, 0, len(configs))
	restrictive := make([]FieldConfig, 0, len(configs))
	for _, c := range configs {
		if c.Field == nil {
			continue
		}
		if c.Kind == Restrictive {
			restrictive = append(restrictive, c)
		} else {
			additive = append(additive, c)
		}
	}

	return func(pos r2.Vec, t float64, ctx *Context) Force {
		var magnitude float64
		var dir r2.Vec

		for _, c := range additive {
			f := c.Field(pos, t, ctx)
			m := f.Magnitude * c.Weight
			magnitude += m
			dir.X += f.Direction.X * m
			dir.Y += f.Direction.Y * m
		}
		dir, _ = vmath.Normalize(dir)

		for _, c := range restrictive {
			f := c.Field(pos, t, ctx)
			m := f.Magnitude * c.Weight
			dir.X = dir.X*(1-m) + f.Direction.X*m
			dir.Y = dir.Y*(1-m) + f.Direction.Y*m
		}
		dir, _ = vmath.Normalize(dir)

		return Force{Magnitude: magnitude, Direction: dir}
	}
}
