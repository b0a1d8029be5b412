// Package pulse propagates traveling activity waves over the proximity graph.
package pulse

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/graph"
	"github.com/lixenwraith/synapse/vmath"
)

// Config tunes wave shape and spawning
type Config struct {
	Strength          float64 // Peak intensity
	Speed             float64 // Front speed in units per second
	Wavelength        float64 // Width of one crest in units
	Decay             float64 // Exponential falloff per hop
	HopScale          float64 // Units of front travel per hop
	InteractionRadius float64 // Waves are dropped once the front passes twice this
	SpawnRate         float64 // Expected spontaneous waves per second, 0 disables
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		Strength:          1.0,
		Speed:             120,
		Wavelength:        60,
		Decay:             0.25,
		HopScale:          40,
		InteractionRadius: 150,
		SpawnRate:         0.3,
	}
}

// Wave is one traveling front
// Hop distances are computed once at spawn and kept for the wave's lifetime even if edges change
type Wave struct {
	Source     int
	Start      float64
	Strength   float64
	Speed      float64
	Wavelength float64
	Decay      float64
	HopScale   float64

	hops []int
}

// Hops returns the frozen hop distance of every vertex
func (w *Wave) Hops() []int {
	return w.hops
}

// Traveled returns the front distance at time now
func (w *Wave) Traveled(now float64) float64 {
	return math.Max(0, now-w.Start) * w.Speed
}

// Intensity returns this wave's contribution at vertex v
// Inside the crest: cos(2π·|traveled - hop·scale|/wavelength)·0.5 + 0.5, scaled by strength and exp(-decay·hop)
// Vertices more than half a wavelength from the front and unreachable vertices get 0
func (w *Wave) Intensity(v int, now float64) float64 {
	if v < 0 || v >= len(w.hops) || w.Wavelength <= 0 {
		return 0
	}
	h := w.hops[v]
	if h == graph.Unreachable {
		return 0
	}

	offset := math.Abs(w.Traveled(now) - float64(h)*w.HopScale)
	if offset >= w.Wavelength/2 {
		return 0
	}
	crest := math.Cos(2*math.Pi*offset/w.Wavelength)*0.5 + 0.5
	return w.Strength * crest * math.Exp(-w.Decay*float64(h))
}

// Propagator owns the active waves and the per-vertex pulse levels
type Propagator struct {
	cfg   Config
	rng   vmath.Rand
	waves []*Wave

	levels  []float64
	spawned int
}

// NewPropagator creates a propagator with no active waves
func NewPropagator(cfg Config, rng vmath.Rand) *Propagator {
	return &Propagator{cfg: cfg, rng: rng}
}

// Spawn starts a wave at source using the current adjacency
// Returns nil when source is not a vertex
func (p *Propagator) Spawn(source int, now float64, adj [][]int) *Wave {
	return p.SpawnWithStrength(source, now, adj, p.cfg.Strength)
}

// SpawnWithStrength is Spawn with an explicit peak intensity
func (p *Propagator) SpawnWithStrength(source int, now float64, adj [][]int, strength float64) *Wave {
	if source < 0 || source >= len(adj) {
		return nil
	}
	w := &Wave{
		Source:     source,
		Start:      now,
		Strength:   strength,
		Speed:      p.cfg.Speed,
		Wavelength: p.cfg.Wavelength,
		Decay:      p.cfg.Decay,
		HopScale:   p.cfg.HopScale,
		hops:       graph.HopDistances(adj, source),
	}
	p.waves = append(p.waves, w)
	p.spawned++
	return w
}

// SpawnAt starts a wave at the vertex nearest to point
func (p *Propagator) SpawnAt(point r2.Vec, now float64, particles []core.Particle, adj [][]int) *Wave {
	src := Nearest(point, particles)
	if src < 0 {
		return nil
	}
	return p.Spawn(src, now, adj)
}

// MaybeSpawn starts a wave at a random vertex with probability SpawnRate·dt
func (p *Propagator) MaybeSpawn(now, dt float64, adj [][]int) *Wave {
	if p.cfg.SpawnRate <= 0 || len(adj) == 0 || dt <= 0 {
		return nil
	}
	if p.rng.Float64() >= p.cfg.SpawnRate*dt {
		return nil
	}
	return p.Spawn(p.rng.Intn(len(adj)), now, adj)
}

// Update recomputes per-vertex levels for n vertices at time now and drops spent waves
// A vertex's level is the maximum over active waves
// The returned slice is reused by the next call
func (p *Propagator) Update(now float64, n int) []float64 {
	if cap(p.levels) < n {
		p.levels = make([]float64, n)
	}
	p.levels = p.levels[:n]
	clear(p.levels)

	limit := 2 * p.cfg.InteractionRadius
	kept := p.waves[:0]
	for _, w := range p.waves {
		// Waves from a different population cannot be mapped onto this one
		if len(w.hops) != n || w.Traveled(now) > limit {
			continue
		}
		kept = append(kept, w)
		for v := 0; v < n; v++ {
			if level := w.Intensity(v, now); level > p.levels[v] {
				p.levels[v] = level
			}
		}
	}
	clear(p.waves[len(kept):])
	p.waves = kept

	return p.levels
}

// Levels returns the levels computed by the last Update
func (p *Propagator) Levels() []float64 {
	return p.levels
}

// Active returns the live waves
func (p *Propagator) Active() []*Wave {
	return p.waves
}

// Spawned returns the number of waves started since the last Reset
func (p *Propagator) Spawned() int {
	return p.spawned
}

// Reset drops every wave
func (p *Propagator) Reset() {
	clear(p.waves)
	p.waves = p.waves[:0]
	p.levels = p.levels[:0]
	p.spawned = 0
}

// Nearest returns the index of the particle closest to point, -1 for an empty population
func Nearest(point r2.Vec, particles []core.Particle) int {
	best := -1
	bestDist := math.Inf(1)
	for i := range particles {
		if d := vmath.Distance(point, particles[i].Pos); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
