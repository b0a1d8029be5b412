package config

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/synapse/audio"
	"github.com/lixenwraith/synapse/graph"
	"github.com/lixenwraith/synapse/lightning"
	"github.com/lixenwraith/synapse/physics"
	"github.com/lixenwraith/synapse/pulse"
	"github.com/lixenwraith/synapse/render"
	"github.com/lixenwraith/synapse/scene"
)

func probability(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must be in [0, 1], got %g", ErrInvalid, name, v)
	}
	return nil
}

func positive(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalid, name, v)
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalid, name, v)
	}
	return nil
}

// Validate reports every out-of-range setting, joined
func (c *Config) Validate() error {
	errs := []error{
		nonNegative("sim.particles", float64(c.Sim.Particles)),
		positive("sim.fps", float64(c.Sim.FPS)),
		nonNegative("sim.reset_interval", c.Sim.ResetInterval),

		positive("forces.grid_size", c.Forces.GridSize),
		positive("forces.cell_aspect", c.Forces.CellAspect),
		positive("forces.cell_scale", c.Forces.CellScale),
		nonNegative("forces.base_force", c.Forces.BaseForce),
		probability("forces.hex_weight", c.Forces.HexWeight),
		probability("forces.upward_bias", c.Forces.UpwardBias),
		nonNegative("forces.brownian_factor", c.Forces.BrownianFactor),
		positive("forces.coherence", c.Forces.Coherence),
		probability("forces.damping", c.Forces.Damping),
		positive("forces.spring.rest_length", c.Forces.Spring.RestLength),
		nonNegative("forces.gravity.weight", c.Forces.Gravity.Weight),

		positive("edges.max_distance", c.Edges.MaxDistance),
		positive("edges.creation_delay", c.Edges.CreationDelay),
		positive("edges.removal_delay", c.Edges.RemovalDelay),
		nonNegative("edges.familiarity_decay", c.Edges.FamiliarityDecay),
		nonNegative("edges.preference_weight", c.Edges.PreferenceWeight),
		probability("edges.upward_bias", c.Edges.UpwardBias),
		nonNegative("edges.activity_decay", c.Edges.ActivityDecay),

		positive("pulse.speed", c.Pulse.Speed),
		positive("pulse.wavelength", c.Pulse.Wavelength),
		nonNegative("pulse.decay", c.Pulse.Decay),
		positive("pulse.hop_scale", c.Pulse.HopScale),
		positive("pulse.interaction_radius", c.Pulse.InteractionRadius),
		nonNegative("pulse.spawn_rate", c.Pulse.SpawnRate),

		positive("lightning.median_interval", c.Lightning.MedianInterval),
		probability("lightning.burst_probability", c.Lightning.BurstProbability),
		positive("lightning.burst_duration", c.Lightning.BurstDuration),
		positive("lightning.quiet_duration", c.Lightning.QuietDuration),
		positive("lightning.burst_multiplier", c.Lightning.BurstMultiplier),
		nonNegative("lightning.min_interval", c.Lightning.MinInterval),
		probability("lightning.forking_probability", c.Lightning.ForkingProbability),
		nonNegative("lightning.max_forks", float64(c.Lightning.MaxForks)),
		probability("lightning.energy_floor", c.Lightning.EnergyFloor),
		positive("lightning.propagation_duration", c.Lightning.PropagationDuration),
		positive("lightning.fade_duration", c.Lightning.FadeDuration),

		positive("render.cell_width", c.Render.CellWidth),
		positive("render.cell_height", c.Render.CellHeight),
		probability("audio.volume", c.Audio.Volume),
	}

	if c.Edges.FamiliarityMaxAge <= c.Edges.FamiliarityDecay {
		errs = append(errs, fmt.Errorf("%w: edges.familiarity_max_age must exceed edges.familiarity_decay", ErrInvalid))
	}
	if d := c.Lightning.DecayFactor; d <= 0 || d >= 1 {
		errs = append(errs, fmt.Errorf("%w: lightning.decay_factor must be in (0, 1), got %g", ErrInvalid, d))
	}
	if len(c.Lightning.Colors) == 0 {
		errs = append(errs, fmt.Errorf("%w: lightning.colors must list at least one variation", ErrInvalid))
	}
	if _, err := c.palettes(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if _, err := render.ParseGlyphs(c.Render.Glyphs); err != nil {
		errs = append(errs, fmt.Errorf("%w: render.glyphs: %w", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

func (c *Config) palettes() ([]lightning.Palette, error) {
	out := make([]lightning.Palette, 0, len(c.Lightning.Colors))
	for i, v := range c.Lightning.Colors {
		p, err := lightning.ParsePalette(v.Start, v.Peak, v.End)
		if err != nil {
			return nil, fmt.Errorf("lightning.colors[%d]: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Scene maps the configuration to the runtime scene tuning
func (c *Config) Scene() (scene.Config, error) {
	palettes, err := c.palettes()
	if err != nil {
		return scene.Config{}, err
	}
	f := c.Forces
	return scene.Config{
		Particles:     c.Sim.Particles,
		Seed:          c.Sim.Seed,
		ResetInterval: c.Sim.ResetInterval,
		InitialSpeed:  c.Sim.InitialSpeed,
		Forces: physics.HexGridConfig{
			GridSize:       f.GridSize,
			CellAspect:     f.CellAspect,
			CellScale:      f.CellScale,
			BaseForce:      f.BaseForce,
			BrownianFactor: f.BrownianFactor,
			HexWeight:      f.HexWeight,
			UpwardBias:     f.UpwardBias,
			Coherence:      f.Coherence,
			Damping:        f.Damping,
		},
		Flow: scene.FlowOptions{
			Enabled: f.Flow.Enabled, Weight: f.Flow.Weight,
			Frequency: f.Flow.Frequency, Amplitude: f.Flow.Amplitude,
		},
		Perlin: scene.PerlinOptions{
			Enabled: f.Perlin.Enabled, Weight: f.Perlin.Weight,
			Scale: f.Perlin.Scale, Speed: f.Perlin.Speed, Magnitude: f.Perlin.Magnitude,
		},
		Repulsion: scene.RepulsionOptions{
			Enabled: f.Repulsion.Enabled, Weight: f.Repulsion.Weight,
			Theta: f.Repulsion.Theta, Softening: f.Repulsion.Softening,
		},
		Pointer: scene.PointerOptions{
			Enabled: f.Pointer.Enabled, Weight: f.Pointer.Weight,
			Radius: f.Pointer.Radius, Timeout: f.Pointer.Timeout,
		},
		Spring: scene.SpringOptions{
			Enabled: f.Spring.Enabled, Weight: f.Spring.Weight,
			RestLength: f.Spring.RestLength,
		},
		Gravity: scene.GravityOptions{Enabled: f.Gravity.Enabled, Weight: f.Gravity.Weight},
		Graph: graph.Config{
			MaxDistance:          c.Edges.MaxDistance,
			EdgeCreationDelay:    c.Edges.CreationDelay,
			EdgeRemovalDelay:     c.Edges.RemovalDelay,
			FamiliarityDecayTime: c.Edges.FamiliarityDecay,
			FamiliarityMaxAge:    c.Edges.FamiliarityMaxAge,
			DistanceExponent:     c.Edges.DistanceExponent,
			PreferenceWeight:     c.Edges.PreferenceWeight,
			UpwardBias:           c.Edges.UpwardBias,
			ActivityDecay:        c.Edges.ActivityDecay,
		},
		Pulse: pulse.Config{
			Strength:          c.Pulse.Strength,
			Speed:             c.Pulse.Speed,
			Wavelength:        c.Pulse.Wavelength,
			Decay:             c.Pulse.Decay,
			HopScale:          c.Pulse.HopScale,
			InteractionRadius: c.Pulse.InteractionRadius,
			SpawnRate:         c.Pulse.SpawnRate,
		},
		Lightning: lightning.Config{
			MedianInterval:      c.Lightning.MedianInterval,
			BurstModeProb:       c.Lightning.BurstProbability,
			BurstDuration:       c.Lightning.BurstDuration,
			QuietDuration:       c.Lightning.QuietDuration,
			BurstMultiplier:     c.Lightning.BurstMultiplier,
			MinInterval:         c.Lightning.MinInterval,
			ForkingProb:         c.Lightning.ForkingProbability,
			MaxForks:            c.Lightning.MaxForks,
			DecayFactor:         c.Lightning.DecayFactor,
			EnergyFloor:         c.Lightning.EnergyFloor,
			PropagationDuration: c.Lightning.PropagationDuration,
			FadeDuration:        c.Lightning.FadeDuration,
			Palettes:            palettes,
		},
	}, nil
}

// AudioPlayer maps the audio section
func (c *Config) AudioPlayer() audio.Config {
	return audio.Config{
		Enabled:    c.Audio.Enabled,
		Volume:     c.Audio.Volume,
		SampleRate: c.Audio.SampleRate,
		MaxVoices:  c.Audio.MaxVoices,
	}
}

// Glyphs returns the parsed render glyph set
func (c *Config) Glyphs() render.Glyphs {
	g, _ := render.ParseGlyphs(c.Render.Glyphs)
	return g
}
