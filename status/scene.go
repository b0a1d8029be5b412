package status

import (
	"sync/atomic"
)

// Scene metric keys
const (
	KeyTicks      = "sim.ticks"
	KeyResets     = "sim.resets"
	KeyParticles  = "sim.particles"
	KeyEnergy     = "sim.energy"
	KeyTickMillis = "sim.tick_ms"
	KeyFPS        = "sim.fps"

	KeyEdges        = "graph.edges"
	KeyPotential    = "graph.potential"
	KeyFamiliar     = "graph.familiar"
	KeyEdgesCreated = "graph.created"
	KeyEdgesRemoved = "graph.removed"

	KeyWaves      = "pulse.waves"
	KeyWavesTotal = "pulse.spawned"
	KeyPulsePeak  = "pulse.peak"

	KeyStrikes       = "lightning.strikes"
	KeyActiveStrikes = "lightning.active"
	KeyMode          = "lightning.mode"

	KeyClients = "stream.clients"
)

// SceneMetrics caches the metric pointers the frame loop writes every tick
type SceneMetrics struct {
	Ticks      *atomic.Int64
	Resets     *atomic.Int64
	Particles  *atomic.Int64
	Energy     *Gauge
	TickMillis *Gauge
	FPS        *Gauge

	Edges        *atomic.Int64
	Potential    *atomic.Int64
	Familiar     *atomic.Int64
	EdgesCreated *atomic.Int64
	EdgesRemoved *atomic.Int64

	Waves      *atomic.Int64
	WavesTotal *atomic.Int64
	PulsePeak  *Gauge

	Strikes       *atomic.Int64
	ActiveStrikes *atomic.Int64
	Mode          *Label
}

// NewSceneMetrics registers the scene metrics in reg
func NewSceneMetrics(reg *Registry) *SceneMetrics {
	return &SceneMetrics{
		Ticks:      reg.Counters.Get(KeyTicks),
		Resets:     reg.Counters.Get(KeyResets),
		Particles:  reg.Counters.Get(KeyParticles),
		Energy:     reg.Gauges.Get(KeyEnergy),
		TickMillis: reg.Gauges.Get(KeyTickMillis),
		FPS:        reg.Gauges.Get(KeyFPS),

		Edges:        reg.Counters.Get(KeyEdges),
		Potential:    reg.Counters.Get(KeyPotential),
		Familiar:     reg.Counters.Get(KeyFamiliar),
		EdgesCreated: reg.Counters.Get(KeyEdgesCreated),
		EdgesRemoved: reg.Counters.Get(KeyEdgesRemoved),

		Waves:      reg.Counters.Get(KeyWaves),
		WavesTotal: reg.Counters.Get(KeyWavesTotal),
		PulsePeak:  reg.Gauges.Get(KeyPulsePeak),

		Strikes:       reg.Counters.Get(KeyStrikes),
		ActiveStrikes: reg.Counters.Get(KeyActiveStrikes),
		Mode:          reg.Labels.Get(KeyMode),
	}
}
