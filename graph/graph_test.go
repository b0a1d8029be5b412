package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/vmath"
)

const step = 1.0 / 60.0

// fixedRand always draws the same value, 0 makes every in-range pair valid
type fixedRand struct{ v float64 }

func (r fixedRand) Float64() float64 { return r.v }
func (r fixedRand) Intn(n int) int   { return 0 }

func pair(ax, ay, bx, by float64) []core.Particle {
	return []core.Particle{
		{Pos: vmath.Vec(ax, ay), Mass: 1},
		{Pos: vmath.Vec(bx, by), Mass: 1},
	}
}

func TestEdgeAppearsAfterCreationDelay(t *testing.T) {
	m := NewManager(DefaultConfig(), fixedRand{0})
	ps := pair(0, 0, 50, 0)

	for s := 0; s < 30; s++ {
		m.Update(ps, float64(s)*step)
		require.False(t, m.HasEdge(0, 1), "edge appeared early at step %d", s)
	}
	assert.Equal(t, 1, m.PotentialCount())

	m.Update(ps, 30*step)
	require.True(t, m.HasEdge(0, 1))
	assert.True(t, m.HasEdge(1, 0))

	edges := m.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, 0, edges[0].I)
	assert.Equal(t, 1, edges[0].J)
	assert.Equal(t, 0, m.PotentialCount())
	assert.Equal(t, Stats{Created: 1}, m.Stats())
}

func TestBriefProximityNeverCreatesEdge(t *testing.T) {
	m := NewManager(DefaultConfig(), fixedRand{0})
	near := pair(0, 0, 50, 0)
	far := pair(0, 0, 400, 0)

	now := 0.0
	// Three valid bursts, each shorter than the creation delay
	for burst := 0; burst < 3; burst++ {
		for s := 0; s < 24; s++ {
			m.Update(near, now)
			now += step
		}
		m.Update(far, now)
		now += step
		require.False(t, m.HasEdge(0, 1))
		require.Equal(t, 0, m.PotentialCount())
	}
}

func TestEdgeSurvivesShortSeparation(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg, fixedRand{0})
	near := pair(0, 0, 50, 0)
	far := pair(0, 0, 400, 0)

	now := 0.0
	for ; now <= 0.6; now += step {
		m.Update(near, now)
	}
	require.True(t, m.HasEdge(0, 1))
	require.False(t, m.Edges()[0].SeenInvalid)
	lastValid := now - step

	// Invalid for less than the removal delay
	for ; now-lastValid < cfg.EdgeRemovalDelay-0.05; now += step {
		m.Update(far, now)
		require.True(t, m.HasEdge(0, 1), "edge removed early at %.3f", now)
	}
	e := m.Edges()[0]
	assert.True(t, e.SeenInvalid)
	assert.InDelta(t, now-step, e.LastInvalid, 1e-9)

	// Valid again resets the removal timer
	m.Update(near, now)
	lastValid = now
	now += step
	for ; now-lastValid < cfg.EdgeRemovalDelay-0.05; now += step {
		m.Update(far, now)
		require.True(t, m.HasEdge(0, 1))
	}

	// Continuous invalidity past the delay removes it
	for ; now-lastValid < cfg.EdgeRemovalDelay+0.05; now += step {
		m.Update(far, now)
	}
	assert.False(t, m.HasEdge(0, 1))
	assert.Equal(t, 1, m.Stats().Removed)
}

func TestSameDrawsSameEdges(t *testing.T) {
	rng := vmath.NewFastRand(3)
	ps := make([]core.Particle, 12)
	for i := range ps {
		ps[i] = core.Particle{Pos: vmath.Vec(rng.Float64()*300, rng.Float64()*300), Mass: 1}
	}

	a := NewManager(DefaultConfig(), vmath.NewFastRand(11))
	b := NewManager(DefaultConfig(), vmath.NewFastRand(11))
	for s := 0; s < 60; s++ {
		a.Update(ps, float64(s)*step)
		b.Update(ps, float64(s)*step)
	}
	require.NotEmpty(t, a.Edges())
	assert.Equal(t, a.Edges(), b.Edges())
}

func TestDrawAboveProbabilityIsInvalid(t *testing.T) {
	m := NewManager(DefaultConfig(), fixedRand{0.999})
	ps := pair(0, 0, 140, 0)
	for s := 0; s < 120; s++ {
		m.Update(ps, float64(s)*step)
	}
	assert.False(t, m.HasEdge(0, 1))
	// Still remembered even without an edge
	assert.Greater(t, m.FamiliarityScore(0, 1, 2), 0.0)
}

func TestFamiliarityWindow(t *testing.T) {
	const decay, maxAge = 30.0, 120.0
	f := Familiarity{LastSeen: 10, Encounters: 25}

	full := f.Score(10, decay, maxAge)
	assert.InDelta(t, 1.0, full, 1e-12)

	// Constant through the decay time
	for age := 0.0; age <= decay; age += 1 {
		assert.InDelta(t, full, f.Score(10+age, decay, maxAge), 1e-12)
	}

	// Non-increasing afterward
	prev := full
	for age := decay; age < maxAge; age += 0.5 {
		s := f.Score(10+age, decay, maxAge)
		require.LessOrEqual(t, s, prev+1e-12)
		require.GreaterOrEqual(t, s, 0.0)
		prev = s
	}

	// Zero once max age has elapsed
	assert.Equal(t, 0.0, f.Score(10+maxAge, decay, maxAge))
	assert.Equal(t, 0.0, f.Score(10+maxAge+50, decay, maxAge))
	assert.True(t, f.Expired(10+maxAge, maxAge))

	// Encounter normalization
	assert.InDelta(t, 0.3, Familiarity{LastSeen: 0, Encounters: 3}.Score(0, decay, maxAge), 1e-12)
	assert.Equal(t, 0.0, Familiarity{}.Score(0, decay, maxAge))
}

func TestManagerForgetsFamiliarity(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg, fixedRand{0})

	m.Update(pair(0, 0, 50, 0), 0)
	require.Equal(t, 1, m.FamiliarCount())
	assert.InDelta(t, 0.1, m.FamiliarityScore(0, 1, 0), 1e-12)

	far := pair(0, 0, 500, 0)
	m.Update(far, cfg.FamiliarityDecayTime)
	assert.InDelta(t, 0.1, m.FamiliarityScore(1, 0, cfg.FamiliarityDecayTime), 1e-12)

	m.Update(far, cfg.FamiliarityMaxAge)
	assert.Equal(t, 0, m.FamiliarCount())
	assert.Equal(t, 0.0, m.FamiliarityScore(0, 1, cfg.FamiliarityMaxAge))
}

func TestEdgeProbability(t *testing.T) {
	m := NewManager(DefaultConfig(), fixedRand{0})
	origin := vmath.Vec(0, 0)

	near := m.EdgeProbability(origin, vmath.Vec(30, 0), 0)
	mid := m.EdgeProbability(origin, vmath.Vec(90, 0), 0)
	assert.Greater(t, near, mid)
	assert.Equal(t, 0.0, m.EdgeProbability(origin, vmath.Vec(150, 0), 0))
	assert.Equal(t, 0.0, m.EdgeProbability(origin, vmath.Vec(400, 0), 0))

	// Familiarity raises probability
	assert.Greater(t, m.EdgeProbability(origin, vmath.Vec(90, 0), 1), mid)

	// Vertical pairs are preferred
	assert.Greater(t, m.EdgeProbability(origin, vmath.Vec(0, 90), 0), mid)

	// Always a probability
	assert.LessOrEqual(t, m.EdgeProbability(origin, origin, 1), 1.0)
}

func TestAdjacencySymmetricAndLoopFree(t *testing.T) {
	rng := vmath.NewFastRand(9)
	ps := make([]core.Particle, 40)
	for i := range ps {
		ps[i].Pos = vmath.Vec(rng.Float64()*400, rng.Float64()*400)
	}

	m := NewManager(DefaultConfig(), rng)
	for s := 0; s <= 60; s++ {
		m.Update(ps, float64(s)*step)
	}
	require.Greater(t, m.EdgeCount(), 0)

	adj := m.Adjacency()
	require.Len(t, adj, len(ps))
	degree := 0
	for i, nbs := range adj {
		for k, j := range nbs {
			assert.NotEqual(t, i, j, "self loop at %d", i)
			assert.Contains(t, adj[j], i, "asymmetric edge %d-%d", i, j)
			assert.True(t, m.HasEdge(i, j))
			if k > 0 {
				assert.Less(t, nbs[k-1], j)
			}
		}
		degree += len(nbs)
	}
	assert.Equal(t, 2*m.EdgeCount(), degree)

	for _, e := range m.Edges() {
		assert.Less(t, e.I, e.J)
		assert.Less(t, vmath.Distance(ps[e.I].Pos, ps[e.J].Pos), m.Config().MaxDistance)
	}
}

func TestParticleCountChangeResets(t *testing.T) {
	m := NewManager(DefaultConfig(), fixedRand{0})
	for s := 0; s <= 30; s++ {
		m.Update(pair(0, 0, 50, 0), float64(s)*step)
	}
	require.Equal(t, 1, m.EdgeCount())

	three := append(pair(0, 0, 50, 0), core.Particle{Pos: vmath.Vec(25, 25)})
	m.Update(three, 1)
	assert.Equal(t, 0, m.EdgeCount())
	assert.Len(t, m.Adjacency(), 3)
}

func TestUpdateActivity(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg, fixedRand{0})
	ps := pair(0, 0, 50, 0)
	for s := 0; s <= 30; s++ {
		m.Update(ps, float64(s)*step)
	}

	m.UpdateActivity([]float64{0.2, 0.8}, step)
	assert.InDelta(t, 0.8, m.Edges()[0].Activity, 1e-12)

	m.UpdateActivity([]float64{0, 0}, 0.1)
	assert.InDelta(t, 0.8-cfg.ActivityDecay*0.1, m.Edges()[0].Activity, 1e-12)

	m.UpdateActivity(nil, 10)
	assert.Equal(t, 0.0, m.Edges()[0].Activity)
}

func TestHopDistances(t *testing.T) {
	// 0-1-2 chain, 3-4 island, 5 isolated
	adj := [][]int{
		{1},
		{0, 2},
		{1},
		{4},
		{3},
		{},
	}

	dist := HopDistances(adj, 0)
	assert.Equal(t, []int{0, 1, 2, Unreachable, Unreachable, Unreachable}, dist)

	dist = HopDistances(adj, 3)
	assert.Equal(t, 0, dist[3])
	assert.Equal(t, 1, dist[4])
	assert.Equal(t, Unreachable, dist[0])

	for _, d := range HopDistances(adj, 99) {
		assert.Equal(t, Unreachable, d)
	}
}

func TestHopDistancesOnManagerGraph(t *testing.T) {
	rng := vmath.NewFastRand(21)
	ps := make([]core.Particle, 30)
	for i := range ps {
		ps[i].Pos = vmath.Vec(rng.Float64()*300, rng.Float64()*300)
	}
	m := NewManager(DefaultConfig(), fixedRand{0})
	for s := 0; s <= 30; s++ {
		m.Update(ps, float64(s)*step)
	}

	adj := m.Adjacency()
	dist := HopDistances(adj, 0)
	assert.Equal(t, 0, dist[0])
	for v, d := range dist {
		if v == 0 || d == Unreachable {
			continue
		}
		assert.Greater(t, d, 0)
		// Some neighbor is exactly one hop closer
		found := false
		for _, nb := range adj[v] {
			if dist[nb] == d-1 {
				found = true
			}
		}
		assert.True(t, found, "vertex %d has no predecessor", v)
	}
}

func TestComponents(t *testing.T) {
	adj := [][]int{{1}, {0}, {}, {4}, {3}}
	label, count := Components(adj)
	assert.Equal(t, 3, count)
	assert.Equal(t, label[0], label[1])
	assert.Equal(t, label[3], label[4])
	assert.NotEqual(t, label[0], label[2])
}
