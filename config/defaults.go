package config

import (
	"github.com/spf13/viper"

	"github.com/lixenwraith/synapse/audio"
	"github.com/lixenwraith/synapse/lightning"
	"github.com/lixenwraith/synapse/scene"
)

// SetDefaults registers every key with the stock value
func SetDefaults(v *viper.Viper) {
	sc := scene.DefaultConfig()
	ac := audio.DefaultConfig()

	// Sim
	v.SetDefault("sim.particles", sc.Particles)
	v.SetDefault("sim.seed", 0)
	v.SetDefault("sim.fps", 60)
	v.SetDefault("sim.reset_interval", 0.0)
	v.SetDefault("sim.initial_speed", sc.InitialSpeed)

	// Forces
	f := sc.Forces
	v.SetDefault("forces.base_force", f.BaseForce)
	v.SetDefault("forces.grid_size", f.GridSize)
	v.SetDefault("forces.cell_aspect", f.CellAspect)
	v.SetDefault("forces.cell_scale", f.CellScale)
	v.SetDefault("forces.upward_bias", f.UpwardBias)
	v.SetDefault("forces.brownian_factor", f.BrownianFactor)
	v.SetDefault("forces.hex_weight", f.HexWeight)
	v.SetDefault("forces.coherence", f.Coherence)
	v.SetDefault("forces.damping", f.Damping)

	v.SetDefault("forces.flow.enabled", sc.Flow.Enabled)
	v.SetDefault("forces.flow.weight", sc.Flow.Weight)
	v.SetDefault("forces.flow.frequency", sc.Flow.Frequency)
	v.SetDefault("forces.flow.amplitude", sc.Flow.Amplitude)

	v.SetDefault("forces.perlin.enabled", sc.Perlin.Enabled)
	v.SetDefault("forces.perlin.weight", sc.Perlin.Weight)
	v.SetDefault("forces.perlin.scale", sc.Perlin.Scale)
	v.SetDefault("forces.perlin.speed", sc.Perlin.Speed)
	v.SetDefault("forces.perlin.magnitude", sc.Perlin.Magnitude)

	v.SetDefault("forces.repulsion.enabled", sc.Repulsion.Enabled)
	v.SetDefault("forces.repulsion.weight", sc.Repulsion.Weight)
	v.SetDefault("forces.repulsion.theta", sc.Repulsion.Theta)
	v.SetDefault("forces.repulsion.softening", sc.Repulsion.Softening)

	v.SetDefault("forces.pointer.enabled", sc.Pointer.Enabled)
	v.SetDefault("forces.pointer.weight", sc.Pointer.Weight)
	v.SetDefault("forces.pointer.radius", sc.Pointer.Radius)
	v.SetDefault("forces.pointer.timeout", sc.Pointer.Timeout)

	v.SetDefault("forces.spring.enabled", sc.Spring.Enabled)
	v.SetDefault("forces.spring.weight", sc.Spring.Weight)
	v.SetDefault("forces.spring.rest_length", sc.Spring.RestLength)

	v.SetDefault("forces.gravity.enabled", sc.Gravity.Enabled)
	v.SetDefault("forces.gravity.weight", sc.Gravity.Weight)

	// Edges
	g := sc.Graph
	v.SetDefault("edges.max_distance", g.MaxDistance)
	v.SetDefault("edges.creation_delay", g.EdgeCreationDelay)
	v.SetDefault("edges.removal_delay", g.EdgeRemovalDelay)
	v.SetDefault("edges.familiarity_decay", g.FamiliarityDecayTime)
	v.SetDefault("edges.familiarity_max_age", g.FamiliarityMaxAge)
	v.SetDefault("edges.distance_exponent", g.DistanceExponent)
	v.SetDefault("edges.preference_weight", g.PreferenceWeight)
	v.SetDefault("edges.upward_bias", g.UpwardBias)
	v.SetDefault("edges.activity_decay", g.ActivityDecay)

	// Pulse
	p := sc.Pulse
	v.SetDefault("pulse.strength", p.Strength)
	v.SetDefault("pulse.speed", p.Speed)
	v.SetDefault("pulse.wavelength", p.Wavelength)
	v.SetDefault("pulse.decay", p.Decay)
	v.SetDefault("pulse.hop_scale", p.HopScale)
	v.SetDefault("pulse.interaction_radius", p.InteractionRadius)
	v.SetDefault("pulse.spawn_rate", p.SpawnRate)

	// Lightning
	l := sc.Lightning
	v.SetDefault("lightning.median_interval", l.MedianInterval)
	v.SetDefault("lightning.burst_probability", l.BurstModeProb)
	v.SetDefault("lightning.burst_duration", l.BurstDuration)
	v.SetDefault("lightning.quiet_duration", l.QuietDuration)
	v.SetDefault("lightning.burst_multiplier", l.BurstMultiplier)
	v.SetDefault("lightning.min_interval", l.MinInterval)
	v.SetDefault("lightning.forking_probability", l.ForkingProb)
	v.SetDefault("lightning.max_forks", l.MaxForks)
	v.SetDefault("lightning.decay_factor", l.DecayFactor)
	v.SetDefault("lightning.energy_floor", l.EnergyFloor)
	v.SetDefault("lightning.propagation_duration", l.PropagationDuration)
	v.SetDefault("lightning.fade_duration", l.FadeDuration)
	colors := make([]map[string]any, len(lightning.DefaultPaletteHex))
	for i, h := range lightning.DefaultPaletteHex {
		colors[i] = map[string]any{"start": h[0], "peak": h[1], "end": h[2]}
	}
	v.SetDefault("lightning.colors", colors)

	// Render
	v.SetDefault("render.glyphs", "quadrant")
	v.SetDefault("render.truecolor", true)
	v.SetDefault("render.cell_width", 8.0)
	v.SetDefault("render.cell_height", 16.0)
	v.SetDefault("render.overlay", false)

	// Audio
	v.SetDefault("audio.enabled", ac.Enabled)
	v.SetDefault("audio.volume", ac.Volume)
	v.SetDefault("audio.sample_rate", ac.SampleRate)
	v.SetDefault("audio.max_voices", ac.MaxVoices)

	// Stream
	v.SetDefault("stream.addr", "127.0.0.1:8088")
	v.SetDefault("stream.path", "/ws")

	// Logger
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "synapse")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")
}
