package physics

import (
	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/force"
	"github.com/lixenwraith/synapse/vmath"
)

// DefaultDamping keeps motion subtle
const DefaultDamping = 0.98

// Controller moves every particle by a combined field each tick
type Controller struct {
	field   force.Field
	damping float64

	// Rebuilt before field evaluation when set
	repulsion *force.Repulsion

	lastEnergy float64
}

// NewController combines fields once and keeps the result
func NewController(fields []force.FieldConfig, damping float64) *Controller {
	if damping <= 0 || damping > 1 {
		damping = DefaultDamping
	}
	return &Controller{
		field:   force.Combine(fields),
		damping: damping,
	}
}

// WithRepulsion registers a repulsion source whose tree is rebuilt at the start of every update
// The caller still includes rep.Field() in the field list
func (c *Controller) WithRepulsion(rep *force.Repulsion) *Controller {
	c.repulsion = rep
	return c
}

// UpdatePositions evaluates the field at each particle, with that particle as context, and integrates
// Returns the first repulsion rebuild error, positions are still integrated without repulsion
func (c *Controller) UpdatePositions(particles []core.Particle, frame core.Frame) error {
	var err error
	if c.repulsion != nil {
		err = c.repulsion.Rebuild(particles)
	}

	ctx := &force.Context{
		Width:     frame.Width,
		Height:    frame.Height,
		Particles: particles,
	}

	var energy float64
	for i := range particles {
		ctx.Current = i
		p := &particles[i]
		f := c.field(p.Pos, frame.Time, ctx)
		st := ApplyForce(p, f, frame.DeltaTime, c.damping)
		energy += st.KineticEnergy
	}
	c.lastEnergy = energy
	return err
}

// Energy returns the total kinetic energy after the last update
func (c *Controller) Energy() float64 {
	return c.lastEnergy
}

// Damping returns the per-reference-step velocity retention
func (c *Controller) Damping() float64 {
	return c.damping
}

// HexGridConfig tunes the canonical composite
// Every magnitude is a fraction of BaseForce, so changing BaseForce rescales the whole composite
type HexGridConfig struct {
	GridSize       float64 // Hex circumradius in canvas units
	CellAspect     float64 // Vertical stretch, 1 = regular hexagons
	CellScale      float64 // Overall lattice scale multiplier
	BaseForce      float64 // Shared force scale (units/s²)
	BrownianFactor float64 // Brownian magnitude as a fraction of BaseForce
	HexWeight      float64 // Lattice steering share, also the field force fraction
	UpwardBias     float64 // Upward drift as a fraction of the field force
	Coherence      float64 // Seconds between Brownian retargets
	Damping        float64

	// Appended after the canonical three
	Extra []force.FieldConfig
}

// DefaultHexGridConfig returns the stock tuning
func DefaultHexGridConfig() HexGridConfig {
	return HexGridConfig{
		GridSize:       100,
		CellAspect:     1,
		CellScale:      1,
		BaseForce:      50,
		BrownianFactor: 1.2,
		HexWeight:      0.3,
		UpwardBias:     0.2,
		Coherence:      2,
		Damping:        DefaultDamping,
	}
}

// HexGridFields builds Brownian (additive), hex lattice (restrictive) and upward drift (additive)
func HexGridFields(cfg HexGridConfig, rng vmath.Rand) []force.FieldConfig {
	def := DefaultHexGridConfig()
	if cfg.GridSize <= 0 {
		cfg.GridSize = def.GridSize
	}
	if cfg.BaseForce <= 0 {
		cfg.BaseForce = def.BaseForce
	}
	if cfg.Coherence <= 0 {
		cfg.Coherence = def.Coherence
	}

	brownianForce := cfg.BaseForce * cfg.BrownianFactor
	fieldForce := cfg.BaseForce * cfg.HexWeight

	fields := []force.FieldConfig{
		{
			Field:  force.Brownian(brownianForce, cfg.Coherence, rng),
			Weight: 1,
			Kind:   force.Additive,
		},
		{
			Field:  force.HexGrid(cfg.GridSize, force.HexOptions{Aspect: cfg.CellAspect, Scale: cfg.CellScale}),
			Weight: fieldForce / cfg.BaseForce,
			Kind:   force.Restrictive,
		},
		{
			Field:  force.Constant(fieldForce*cfg.UpwardBias, force.Upward),
			Weight: 1,
			Kind:   force.Additive,
		},
	}
	return append(fields, cfg.Extra...)
}

// NewHexGridController is the stock "hex grid + Brownian + upward drift" controller
func NewHexGridController(cfg HexGridConfig, rng vmath.Rand) *Controller {
	return NewController(HexGridFields(cfg, rng), cfg.Damping)
}
