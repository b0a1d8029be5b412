// Package scene runs the per-frame pipeline: positions, edges, pulses, lightning, snapshot.
package scene

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/force"
	"github.com/lixenwraith/synapse/graph"
	"github.com/lixenwraith/synapse/lightning"
	"github.com/lixenwraith/synapse/physics"
	"github.com/lixenwraith/synapse/pulse"
	"github.com/lixenwraith/synapse/status"
	"github.com/lixenwraith/synapse/vmath"
)

// inputBuffer bounds queued host input between ticks
const inputBuffer = 64

// InputKind selects what a host input does
type InputKind uint8

const (
	// InputClick spawns a pulse wave at the nearest vertex
	InputClick InputKind = iota
	// InputMove updates the pointer repulsion source
	InputMove
	// InputResize changes the canvas size
	InputResize
)

// Input is a host event queued for the next tick
type Input struct {
	Kind          InputKind
	Pos           r2.Vec
	Width, Height float64
}

// ParticleView is the render-facing state of one vertex
type ParticleView struct {
	Pos     r2.Vec
	Pulse   float64
	Inertia float64
}

// Snapshot is an immutable copy of one tick's output, safe to hand to other goroutines
type Snapshot struct {
	Time          float64
	Width, Height float64
	Particles     []ParticleView
	Edges         []graph.Edge
	Lightning     []lightning.Segment
	Mode          lightning.Mode
	Waves         int
}

// Scene owns every piece of simulation state
// All methods except Post and Stop must be called from one goroutine
type Scene struct {
	cfg     Config
	log     *zap.Logger
	rng     *vmath.FastRand
	metrics *status.SceneMetrics

	particles []core.Particle
	ctrl      *physics.Controller
	graph     *graph.Manager
	pulses    *pulse.Propagator
	bolts     *lightning.Controller
	pointer   *force.PointerState
	links     *force.Links

	width, height float64
	time          float64
	lastReset     float64

	started bool
	origin  time.Time
	last    time.Time

	inputs   chan Input
	stopped  atomic.Bool
	onStrike []func(*lightning.Strike)
}

// New builds a scene sized width×height; a zero size leaves it idle until Resize
func New(cfg Config, width, height float64, reg *status.Registry, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s := &Scene{
		cfg:       cfg,
		log:       log,
		rng:       vmath.NewFastRand(seed),
		metrics:   status.NewSceneMetrics(reg),
		particles: make([]core.Particle, max(cfg.Particles, 0)),
		pointer:   &force.PointerState{},
		links:     &force.Links{},
		inputs:    make(chan Input, inputBuffer),
	}

	s.ctrl = s.buildController(int64(seed))
	s.graph = graph.NewManager(cfg.Graph, s.rng)
	s.pulses = pulse.NewPropagator(cfg.Pulse, s.rng)
	s.bolts = lightning.NewController(cfg.Lightning, s.rng)
	s.bolts.OnStrike = s.handleStrike
	s.bolts.OnModeChange = s.handleModeChange

	s.metrics.Particles.Store(int64(len(s.particles)))
	s.metrics.Mode.Set(lightning.Quiet.String())

	s.width, s.height = width, height
	if s.active() {
		s.Reset()
	}
	return s
}

func (s *Scene) buildController(seed int64) *physics.Controller {
	hex := s.cfg.Forces
	var rep *force.Repulsion

	if f := s.cfg.Flow; f.Enabled {
		hex.Extra = append(hex.Extra, force.FieldConfig{Field: force.FlowField(f.Frequency, f.Amplitude), Weight: f.Weight})
	}
	if p := s.cfg.Perlin; p.Enabled {
		hex.Extra = append(hex.Extra, force.FieldConfig{Field: force.Perlin(seed, p.Scale, p.Speed, p.Magnitude), Weight: p.Weight})
	}
	if r := s.cfg.Repulsion; r.Enabled {
		rep = force.NewRepulsion(r.Theta, r.Softening)
		hex.Extra = append(hex.Extra, force.FieldConfig{Field: rep.Field(), Weight: r.Weight})
	}
	if p := s.cfg.Pointer; p.Enabled {
		hex.Extra = append(hex.Extra, force.FieldConfig{Field: force.Pointer(s.pointer, p.Radius, p.Timeout), Weight: p.Weight})
	}

	if sp := s.cfg.Spring; sp.Enabled {
		hex.Extra = append(hex.Extra, force.FieldConfig{Field: force.Spring(s.links, sp.RestLength), Weight: sp.Weight})
	}
	if g := s.cfg.Gravity; g.Enabled {
		hex.Extra = append(hex.Extra, force.FieldConfig{Field: force.CenterGravity(), Weight: g.Weight})
	}

	ctrl := physics.NewHexGridController(hex, s.rng)
	if rep != nil {
		ctrl.WithRepulsion(rep)
	}
	return ctrl
}

func (s *Scene) active() bool {
	return s.width > 0 && s.height > 0 && len(s.particles) > 0
}

// Reset scatters the particles again and clears edges, familiarity, waves and strikes
func (s *Scene) Reset() {
	physics.Scatter(s.particles, s.width, s.height, s.cfg.InitialSpeed, s.rng)
	s.graph.Reset(len(s.particles))
	s.links.Set(nil)
	s.pulses.Reset()
	s.bolts.Reset()
	s.lastReset = s.time
	s.metrics.Resets.Add(1)
	s.log.Info("scene reset",
		zap.Int("particles", len(s.particles)),
		zap.Float64("width", s.width),
		zap.Float64("height", s.height),
		zap.Float64("time", s.time))
}

// Resize changes the canvas; positions are rescaled to keep their relative layout
// A zero size idles the scene
func (s *Scene) Resize(width, height float64) {
	if width == s.width && height == s.height {
		return
	}
	wasActive := s.active()
	oldW, oldH := s.width, s.height
	s.width, s.height = width, height
	s.log.Info("scene resized", zap.Float64("width", width), zap.Float64("height", height))

	if !s.active() {
		return
	}
	if !wasActive {
		s.Reset()
		return
	}
	sx, sy := width/oldW, height/oldH
	for i := range s.particles {
		s.particles[i].Pos.X *= sx
		s.particles[i].Pos.Y *= sy
	}
}

// Size returns the canvas size
func (s *Scene) Size() (float64, float64) {
	return s.width, s.height
}

// SpawnWaveAt starts a pulse wave at the vertex nearest to point at scene time t
func (s *Scene) SpawnWaveAt(point r2.Vec, t float64) *pulse.Wave {
	if !s.active() {
		return nil
	}
	w := s.pulses.SpawnAt(point, t, s.particles, s.graph.Adjacency())
	if w != nil {
		s.log.Debug("wave spawned", zap.Int("source", w.Source), zap.Float64("time", t))
	}
	return w
}

// Post queues host input for the next tick without blocking, returns false when the queue is full
// Safe to call from any goroutine
func (s *Scene) Post(in Input) bool {
	select {
	case s.inputs <- in:
		return true
	default:
		return false
	}
}

// OnStrike registers a listener called synchronously on every strike
func (s *Scene) OnStrike(fn func(*lightning.Strike)) {
	s.onStrike = append(s.onStrike, fn)
}

func (s *Scene) handleStrike(st *lightning.Strike) {
	s.metrics.Strikes.Add(1)
	s.log.Debug("lightning strike",
		zap.Int("source", st.Source),
		zap.Int("branches", len(st.Paths)),
		zap.Float64("time", st.Start))
	for _, fn := range s.onStrike {
		fn(st)
	}
}

func (s *Scene) handleModeChange(m lightning.Mode, now float64) {
	s.metrics.Mode.Set(m.String())
	s.log.Debug("lightning mode", zap.Stringer("mode", m), zap.Float64("time", now))
}

func (s *Scene) drainInputs() {
	for {
		select {
		case in := <-s.inputs:
			switch in.Kind {
			case InputClick:
				s.SpawnWaveAt(in.Pos, s.time)
			case InputMove:
				s.pointer.Move(in.Pos, s.time)
			case InputResize:
				s.Resize(in.Width, in.Height)
			}
		default:
			return
		}
	}
}

// Tick advances the scene to clock time now; the first tick fixes the time origin
// Returns false while the scene is idle
func (s *Scene) Tick(now time.Time) (Snapshot, bool) {
	if !s.started {
		s.started = true
		s.origin = now
		s.last = now
	}
	t := now.Sub(s.origin).Seconds()
	dt := now.Sub(s.last).Seconds()
	s.last = now
	return s.Step(t, dt)
}

// Step advances the scene to scene time t with elapsed dt
// Order: positions, edges and adjacency, pulses, edge activity, lightning
func (s *Scene) Step(t, dt float64) (Snapshot, bool) {
	s.time = t
	s.drainInputs()
	if !s.active() {
		return Snapshot{}, false
	}
	begin := time.Now()

	if s.cfg.ResetInterval > 0 && t-s.lastReset >= s.cfg.ResetInterval {
		s.Reset()
	}

	frame := core.Frame{Width: s.width, Height: s.height, Time: t, DeltaTime: dt}
	if err := s.ctrl.UpdatePositions(s.particles, frame); err != nil {
		s.log.Debug("repulsion tree rebuild failed", zap.Error(err))
	}
	physics.Confine(s.particles, s.width, s.height)

	s.graph.Update(s.particles, t)
	adj := s.graph.Adjacency()
	s.links.Set(adj)

	s.pulses.MaybeSpawn(t, dt, adj)
	levels := s.pulses.Update(t, len(s.particles))
	s.graph.UpdateActivity(levels, dt)

	segments := s.bolts.UpdateSpatial(t, dt, adj, s.particles)

	snap := s.snapshot(levels, segments)
	s.record(snap, dt, time.Since(begin))
	return snap, true
}

func (s *Scene) snapshot(levels []float64, segments []lightning.Segment) Snapshot {
	views := make([]ParticleView, len(s.particles))
	for i := range s.particles {
		views[i] = ParticleView{Pos: s.particles[i].Pos, Inertia: s.particles[i].Inertia}
		if i < len(levels) {
			views[i].Pulse = levels[i]
		}
	}
	segs := make([]lightning.Segment, len(segments))
	copy(segs, segments)

	return Snapshot{
		Time:      s.time,
		Width:     s.width,
		Height:    s.height,
		Particles: views,
		Edges:     s.graph.Edges(),
		Lightning: segs,
		Mode:      s.bolts.Mode(),
		Waves:     len(s.pulses.Active()),
	}
}

func (s *Scene) record(snap Snapshot, dt float64, took time.Duration) {
	m := s.metrics
	m.Ticks.Add(1)
	m.Particles.Store(int64(len(s.particles)))
	m.Energy.Set(s.ctrl.Energy())
	m.TickMillis.Set(float64(took.Microseconds()) / 1000)
	if dt > 0 {
		// Exponential smoothing keeps the overlay readable
		fps := m.FPS.Get()
		m.FPS.Set(fps + (1/dt-fps)*0.1)
	}

	stats := s.graph.Stats()
	m.Edges.Store(int64(len(snap.Edges)))
	m.Potential.Store(int64(s.graph.PotentialCount()))
	m.Familiar.Store(int64(s.graph.FamiliarCount()))
	m.EdgesCreated.Store(int64(stats.Created))
	m.EdgesRemoved.Store(int64(stats.Removed))

	peak := 0.0
	for _, p := range snap.Particles {
		peak = max(peak, p.Pulse)
	}
	m.Waves.Store(int64(snap.Waves))
	m.WavesTotal.Store(int64(s.pulses.Spawned()))
	m.PulsePeak.Set(peak)
	m.ActiveStrikes.Store(int64(len(s.bolts.Active())))
}

// Run ticks the scene every interval until ctx is done or Stop is called
// sink receives every produced snapshot on the loop goroutine; the tick in flight always completes
func (s *Scene) Run(ctx context.Context, clock Clock, interval time.Duration, sink func(Snapshot)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("scene loop started", zap.Duration("interval", interval))
	defer s.log.Info("scene loop stopped", zap.Int64("ticks", s.metrics.Ticks.Load()))

	for !s.stopped.Load() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, ok := s.Tick(clock.Now())
			if ok && sink != nil {
				sink(snap)
			}
		}
	}
}

// Stop makes Run return after the current tick, safe to call from any goroutine
func (s *Scene) Stop() {
	s.stopped.Store(true)
}

// Stopped reports whether Stop was called
func (s *Scene) Stopped() bool {
	return s.stopped.Load()
}

// Particles exposes the particle array, owned by the loop goroutine
func (s *Scene) Particles() []core.Particle {
	return s.particles
}

// Graph exposes the edge manager
func (s *Scene) Graph() *graph.Manager {
	return s.graph
}

// Pulses exposes the wave propagator
func (s *Scene) Pulses() *pulse.Propagator {
	return s.pulses
}

// Lightning exposes the lightning controller
func (s *Scene) Lightning() *lightning.Controller {
	return s.bolts
}

// Time returns the scene time of the last tick
func (s *Scene) Time() float64 {
	return s.time
}
