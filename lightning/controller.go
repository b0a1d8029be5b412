// Package lightning generates stochastic forking discharges over the proximity graph.
//
// A two-mode state machine decides when to strike: quiet mode fires with probability dt/MedianInterval per
// tick and, once QuietDuration has passed, flips a coin to enter burst mode where the rate is multiplied
// until BurstDuration ends. Each strike explores the graph from a source near the top of the canvas,
// forking under a global budget, and every branch is revealed with a delay proportional to its depth.
package lightning

import (
	"math"

	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/vmath"
)

// Mode is the strike-rate regime
type Mode uint8

const (
	Quiet Mode = iota
	Burst
)

// String returns the mode name
func (m Mode) String() string {
	if m == Burst {
		return "burst"
	}
	return "quiet"
}

// Config tunes strike timing, forking and color
type Config struct {
	MedianInterval      float64 // Seconds between strikes in quiet mode on average
	BurstModeProb       float64 // Chance of entering burst mode when a quiet period ends
	BurstDuration       float64
	QuietDuration       float64
	BurstMultiplier     float64 // Rate multiplier while bursting
	MinInterval         float64 // Refractory time between strikes
	ForkingProb         float64 // Share of unvisited neighbors that fork off at each node
	MaxForks            int     // Branch budget per strike
	DecayFactor         float64 // Energy retained per hop, in (0, 1)
	EnergyFloor         float64 // Branches below this stop extending
	PropagationDuration float64 // Seconds of the start→peak reveal
	FadeDuration        float64 // Seconds of the peak→end fade
	Palettes            []Palette
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		MedianInterval:      5,
		BurstModeProb:       0.3,
		BurstDuration:       3,
		QuietDuration:       10,
		BurstMultiplier:     5,
		MinInterval:         0.1,
		ForkingProb:         0.5,
		MaxForks:            12,
		DecayFactor:         0.7,
		EnergyFloor:         0.2,
		PropagationDuration: 0.3,
		FadeDuration:        1.2,
		Palettes:            DefaultPalettes(),
	}
}

// Strike is one discharge
type Strike struct {
	Source    int
	Start     float64
	Variation float64 // Palette selector in [0, 1)
	Paths     []Path
}

// Segment is a currently visible branch with its visual state
type Segment struct {
	Nodes  []int
	Depth  int
	Color  core.RGB
	Alpha  float64
	Energy float64
}

// Controller owns the mode state machine and active strikes
// Not safe for concurrent use; the frame loop owns it
type Controller struct {
	cfg Config
	rng vmath.Rand

	mode       Mode
	modeStart  float64
	lastStrike float64
	started    bool

	strikes  []*Strike
	segments []Segment
	total    int

	// OnStrike is called synchronously for every new strike
	OnStrike func(s *Strike)
	// OnModeChange is called synchronously when the mode flips
	OnModeChange func(m Mode, now float64)
}

// NewController creates a controller in quiet mode
func NewController(cfg Config, rng vmath.Rand) *Controller {
	return &Controller{
		cfg:        cfg,
		rng:        rng,
		lastStrike: math.Inf(-1),
	}
}

// Mode returns the current regime
func (c *Controller) Mode() Mode {
	return c.mode
}

// Active returns the strikes still on screen
func (c *Controller) Active() []*Strike {
	return c.strikes
}

// Strikes returns the number of strikes since the last Reset
func (c *Controller) Strikes() int {
	return c.total
}

// Duration returns the on-screen lifetime of a strike
func (c *Controller) Duration() float64 {
	return c.cfg.PropagationDuration + c.cfg.FadeDuration
}

// Reset drops active strikes and returns to quiet mode
func (c *Controller) Reset() {
	c.mode = Quiet
	c.started = false
	c.lastStrike = math.Inf(-1)
	clear(c.strikes)
	c.strikes = c.strikes[:0]
	c.total = 0
}

// Update advances to time now with the index-based source rule: a random vertex among the first third
// Returns visible segments; the slice is reused by the next call
func (c *Controller) Update(now, dt float64, adj [][]int, vertexCount int) []Segment {
	return c.update(now, dt, adj, vertexCount, nil)
}

// UpdateSpatial is Update with the source drawn from vertices in the upper third of the occupied height
func (c *Controller) UpdateSpatial(now, dt float64, adj [][]int, particles []core.Particle) []Segment {
	return c.update(now, dt, adj, len(particles), particles)
}

func (c *Controller) update(now, dt float64, adj [][]int, n int, particles []core.Particle) []Segment {
	if !c.started {
		c.started = true
		c.modeStart = now
	}
	c.prune(now)

	if now-c.lastStrike > c.cfg.MinInterval {
		p := c.probability(now, dt)
		if p > 0 && c.rng.Float64() < p {
			c.Trigger(now, c.pickSource(n, particles), adj)
		}
	}

	return c.visible(now)
}

// Trigger fires a strike from source immediately, bypassing the state machine
// Returns nil when source is not a vertex
func (c *Controller) Trigger(now float64, source int, adj [][]int) *Strike {
	if source < 0 || source >= len(adj) {
		return nil
	}
	s := &Strike{
		Source:    source,
		Start:     now,
		Variation: c.rng.Float64(),
		Paths:     c.FindPaths(source, adj),
	}
	c.strikes = append(c.strikes, s)
	c.lastStrike = now
	c.total++
	if c.OnStrike != nil {
		c.OnStrike(s)
	}
	return s
}

// probability returns this tick's strike chance and advances the mode machine
func (c *Controller) probability(now, dt float64) float64 {
	if c.cfg.MedianInterval <= 0 || dt <= 0 {
		return 0
	}
	base := dt / c.cfg.MedianInterval

	switch c.mode {
	case Burst:
		if now-c.modeStart > c.cfg.BurstDuration {
			c.setMode(Quiet, now)
			return 0
		}
		return base * c.cfg.BurstMultiplier
	default:
		if now-c.modeStart > c.cfg.QuietDuration {
			if c.rng.Float64() < c.cfg.BurstModeProb {
				c.setMode(Burst, now)
				return base * c.cfg.BurstMultiplier
			}
			// One coin flip per quiet period
			c.modeStart = now
		}
		return base
	}
}

func (c *Controller) setMode(m Mode, now float64) {
	c.mode = m
	c.modeStart = now
	if c.OnModeChange != nil {
		c.OnModeChange(m, now)
	}
}

// pickSource draws from the upper third, by y when positions are known, by index otherwise
func (c *Controller) pickSource(n int, particles []core.Particle) int {
	if n <= 0 {
		return -1
	}
	if len(particles) == n {
		minY, maxY := math.Inf(1), math.Inf(-1)
		for i := range particles {
			minY = math.Min(minY, particles[i].Pos.Y)
			maxY = math.Max(maxY, particles[i].Pos.Y)
		}
		cut := minY + (maxY-minY)/3
		upper := make([]int, 0, n/3+1)
		for i := range particles {
			if particles[i].Pos.Y <= cut {
				upper = append(upper, i)
			}
		}
		if len(upper) > 0 {
			return upper[c.rng.Intn(len(upper))]
		}
	}
	return int(math.Floor(c.rng.Float64() * float64(n) / 3))
}

func (c *Controller) prune(now float64) {
	total := c.Duration()
	kept := c.strikes[:0]
	for _, s := range c.strikes {
		if now-s.Start < total {
			kept = append(kept, s)
		}
	}
	clear(c.strikes[len(kept):])
	c.strikes = kept
}

// visible maps every started branch to its color and alpha
// A branch at depth d starts d·PropagationDuration/8 after the strike
func (c *Controller) visible(now float64) []Segment {
	c.segments = c.segments[:0]
	total := c.Duration()
	if total <= 0 {
		return c.segments
	}

	for _, s := range c.strikes {
		for _, p := range s.Paths {
			pathStart := s.Start + float64(p.Depth)*c.cfg.PropagationDuration/8
			age := now - pathStart
			if age < 0 {
				continue
			}
			progress := vmath.Clamp01(age / total)
			c.segments = append(c.segments, Segment{
				Nodes:  p.Nodes,
				Depth:  p.Depth,
				Color:  c.SegmentColor(progress, s.Variation, p.Energy),
				Alpha:  math.Min(1, 2-2*progress),
				Energy: p.Energy,
			})
		}
	}
	return c.segments
}
