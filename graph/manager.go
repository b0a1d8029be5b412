// Package graph turns particle proximity into a debounced, familiarity-biased undirected graph
// and provides the breadth-first helpers used by pulses and lightning.
package graph

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/vmath"
)

// Config tunes edge formation
type Config struct {
	MaxDistance          float64 // Pairs at or beyond this are never valid
	EdgeCreationDelay    float64 // Seconds a pair must stay valid before an edge appears
	EdgeRemovalDelay     float64 // Seconds an edge must stay invalid before it is removed
	FamiliarityDecayTime float64 // Familiarity holds full strength this long after last contact
	FamiliarityMaxAge    float64 // Familiarity is zero and forgotten after this long
	DistanceExponent     float64 // Sharpness of the closeness preference
	PreferenceWeight     float64 // Probability bonus per unit of familiarity
	UpwardBias           float64 // Preference for vertically aligned pairs, 0 disables
	ActivityDecay        float64 // Edge activity lost per second
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		MaxDistance:          150,
		EdgeCreationDelay:    0.5,
		EdgeRemovalDelay:     1.0,
		FamiliarityDecayTime: 30,
		FamiliarityMaxAge:    120,
		DistanceExponent:     1.5,
		PreferenceWeight:     0.5,
		UpwardBias:           0.2,
		ActivityDecay:        1.2,
	}
}

// Edge is a materialized undirected connection, I < J
type Edge struct {
	I, J        int
	Activity    float64 // Visual excitation in [0, 1]
	LastValid   float64
	LastInvalid float64 // Meaningful only once SeenInvalid is set
	SeenInvalid bool
}

// PotentialEdge is a valid pair waiting out the creation delay
type PotentialEdge struct {
	I, J       int
	FirstValid float64
	LastValid  float64
}

// Stats counts edge churn since the last Reset
type Stats struct {
	Created int
	Removed int
}

// Manager owns the edge, potential edge and familiarity tables
// Not safe for concurrent use; the frame loop owns it
type Manager struct {
	cfg Config
	rng vmath.Rand

	n           int
	edges       map[vmath.PairKey]*Edge
	potential   map[vmath.PairKey]*PotentialEdge
	familiarity map[vmath.PairKey]*Familiarity
	// Per-pair validity draw, fixed while the pair stays within range
	draws map[vmath.PairKey]float64

	adj   [][]int
	stats Stats
}

// NewManager creates an empty manager
func NewManager(cfg Config, rng vmath.Rand) *Manager {
	m := &Manager{cfg: cfg, rng: rng}
	m.Reset(0)
	return m
}

// Config returns the active tuning
func (m *Manager) Config() Config {
	return m.cfg
}

// Reset drops every table and sizes the manager for n vertices
func (m *Manager) Reset(n int) {
	m.n = n
	m.edges = make(map[vmath.PairKey]*Edge)
	m.potential = make(map[vmath.PairKey]*PotentialEdge)
	m.familiarity = make(map[vmath.PairKey]*Familiarity)
	m.draws = make(map[vmath.PairKey]float64)
	m.adj = make([][]int, n)
	m.stats = Stats{}
}

// Update advances every pair to time now and rebuilds adjacency
// A change in particle count resets all tables
func (m *Manager) Update(particles []core.Particle, now float64) {
	n := len(particles)
	if n != m.n {
		m.Reset(n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m.updatePair(particles, i, j, now)
		}
	}

	for key, f := range m.familiarity {
		if f.Expired(now, m.cfg.FamiliarityMaxAge) {
			delete(m.familiarity, key)
		}
	}

	m.rebuildAdjacency()
}

func (m *Manager) updatePair(particles []core.Particle, i, j int, now float64) {
	key := vmath.MakePairKey(i, j, m.n)
	a, b := particles[i].Pos, particles[j].Pos
	dist := vmath.Distance(a, b)

	valid := false
	if dist < m.cfg.MaxDistance {
		f := m.familiarity[key]
		if f == nil {
			f = &Familiarity{}
			m.familiarity[key] = f
		}
		f.Encounters++
		f.LastSeen = now

		draw, ok := m.draws[key]
		if !ok {
			draw = m.rng.Float64()
			m.draws[key] = draw
		}
		fam := f.Score(now, m.cfg.FamiliarityDecayTime, m.cfg.FamiliarityMaxAge)
		valid = m.EdgeProbability(a, b, fam) > draw
	} else {
		delete(m.draws, key)
	}

	if e, ok := m.edges[key]; ok {
		if valid {
			e.LastValid = now
			return
		}
		e.LastInvalid = now
		e.SeenInvalid = true
		if now-e.LastValid >= m.cfg.EdgeRemovalDelay-vmath.Epsilon {
			delete(m.edges, key)
			m.stats.Removed++
		}
		return
	}

	if !valid {
		delete(m.potential, key)
		return
	}

	pe := m.potential[key]
	if pe == nil {
		pe = &PotentialEdge{I: i, J: j, FirstValid: now}
		m.potential[key] = pe
	}
	pe.LastValid = now

	if now-pe.FirstValid >= m.cfg.EdgeCreationDelay-vmath.Epsilon {
		m.edges[key] = &Edge{I: i, J: j, LastValid: now}
		delete(m.potential, key)
		m.stats.Created++
	}
}

// EdgeProbability is distanceFactor^p × directionFactor × (1 + w·familiarity), clamped to [0, 1]
// distanceFactor falls linearly from 1 at contact to 0 at MaxDistance
// directionFactor ranges over [1-UpwardBias, 1], highest for vertically aligned pairs
func (m *Manager) EdgeProbability(a, b r2.Vec, familiarity float64) float64 {
	if m.cfg.MaxDistance <= 0 {
		return 0
	}
	d := r2.Sub(b, a)
	dist := vmath.Length(d)
	if dist >= m.cfg.MaxDistance {
		return 0
	}

	distanceFactor := 1 - dist/m.cfg.MaxDistance
	exp := m.cfg.DistanceExponent
	if exp <= 0 {
		exp = 1
	}

	directionFactor := 1.0
	if m.cfg.UpwardBias > 0 && dist > vmath.Epsilon {
		vertical := math.Abs(d.Y) / dist
		directionFactor = 1 - m.cfg.UpwardBias + m.cfg.UpwardBias*vertical
	}

	p := math.Pow(distanceFactor, exp) * directionFactor * (1 + m.cfg.PreferenceWeight*familiarity)
	return vmath.Clamp01(p)
}

// FamiliarityScore returns the current familiarity of pair (i, j), 0 for unknown pairs
func (m *Manager) FamiliarityScore(i, j int, now float64) float64 {
	if !m.inRange(i, j) {
		return 0
	}
	f := m.familiarity[vmath.MakePairKey(i, j, m.n)]
	if f == nil {
		return 0
	}
	return f.Score(now, m.cfg.FamiliarityDecayTime, m.cfg.FamiliarityMaxAge)
}

// HasEdge reports whether (i, j) is a materialized edge, order-insensitive
func (m *Manager) HasEdge(i, j int) bool {
	if !m.inRange(i, j) {
		return false
	}
	_, ok := m.edges[vmath.MakePairKey(i, j, m.n)]
	return ok
}

// Edges returns a copy of the edge set ordered by (I, J)
func (m *Manager) Edges() []Edge {
	out := make([]Edge, 0, len(m.edges))
	for _, e := range m.edges {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(a, b Edge) int {
		if c := cmp.Compare(a.I, b.I); c != 0 {
			return c
		}
		return cmp.Compare(a.J, b.J)
	})
	return out
}

// EdgeCount returns the number of materialized edges
func (m *Manager) EdgeCount() int {
	return len(m.edges)
}

// PotentialCount returns the number of pairs waiting out the creation delay
func (m *Manager) PotentialCount() int {
	return len(m.potential)
}

// FamiliarCount returns the number of remembered pairs
func (m *Manager) FamiliarCount() int {
	return len(m.familiarity)
}

// Stats returns churn counters
func (m *Manager) Stats() Stats {
	return m.stats
}

// Adjacency returns the neighbor lists rebuilt by the last Update, ascending per vertex
// The slice is owned by the manager and valid until the next Update
func (m *Manager) Adjacency() [][]int {
	return m.adj
}

// UpdateActivity decays edge activity by dt and raises it to the strongest endpoint level
func (m *Manager) UpdateActivity(levels []float64, dt float64) {
	for _, e := range m.edges {
		e.Activity = math.Max(0, e.Activity-m.cfg.ActivityDecay*dt)
		if e.I < len(levels) && e.J < len(levels) {
			e.Activity = math.Max(e.Activity, math.Max(levels[e.I], levels[e.J]))
		}
		e.Activity = vmath.Clamp01(e.Activity)
	}
}

func (m *Manager) rebuildAdjacency() {
	if len(m.adj) != m.n {
		m.adj = make([][]int, m.n)
	}
	for i := range m.adj {
		m.adj[i] = m.adj[i][:0]
	}
	for _, e := range m.edges {
		m.adj[e.I] = append(m.adj[e.I], e.J)
		m.adj[e.J] = append(m.adj[e.J], e.I)
	}
	for i := range m.adj {
		slices.Sort(m.adj[i])
	}
}

func (m *Manager) inRange(i, j int) bool {
	return i != j && i >= 0 && j >= 0 && i < m.n && j < m.n
}
