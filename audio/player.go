// Package audio synthesizes the thunder cue played on lightning strikes.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/synapse/lightning"
	"github.com/lixenwraith/synapse/vmath"
)

// Config controls the audio cue
type Config struct {
	Enabled    bool
	Volume     float64 // Master gain in [0, 1]
	SampleRate int
	MaxVoices  int // Concurrent cues, extra strikes are dropped
}

// DefaultConfig returns audio disabled at a moderate volume
func DefaultConfig() Config {
	return Config{
		Volume:     0.5,
		SampleRate: 44100,
		MaxVoices:  3,
	}
}

// Player mixes thunder cues onto the speaker
// Every method is safe when the speaker could not be opened; the player is then silent
type Player struct {
	mu          sync.Mutex
	cfg         Config
	log         *zap.Logger
	rng         vmath.Rand
	mixer       *beep.Mixer
	initialized bool
	played      int
}

// NewPlayer creates an unopened player
func NewPlayer(cfg Config, rng vmath.Rand, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	if cfg.MaxVoices <= 0 {
		cfg.MaxVoices = DefaultConfig().MaxVoices
	}
	return &Player{
		cfg:   cfg,
		log:   log,
		rng:   rng,
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker; a failure is logged and leaves the player silent
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || !p.cfg.Enabled {
		return nil
	}

	rate := beep.SampleRate(p.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		p.log.Warn("audio unavailable, continuing silent", zap.Error(err))
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	p.log.Info("audio initialized", zap.Int("sample_rate", p.cfg.SampleRate))
	return nil
}

// Enabled reports whether cues reach the speaker
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Played returns the number of cues queued since creation
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// Strike queues the thunder cue for s, usable as a scene strike listener
func (p *Player) Strike(s *lightning.Strike) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || s == nil {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()
	if p.mixer.Len() >= p.cfg.MaxVoices {
		return
	}

	energy := 0.0
	for _, path := range s.Paths {
		energy = max(energy, path.Energy)
	}
	rate := beep.SampleRate(p.cfg.SampleRate)
	p.mixer.Add(Thunder(len(s.Paths), energy, p.cfg.Volume, rate, p.rng))
	p.played++
}

// Close silences every cue and releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Close()
	p.mixer.Clear()
	p.initialized = false
}
