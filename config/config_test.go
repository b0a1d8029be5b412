package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/synapse/lightning"
	"github.com/lixenwraith/synapse/render"
	"github.com/lixenwraith/synapse/scene"
)

func defaults(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	return cfg
}

func TestDefaultsValidate(t *testing.T) {
	cfg := defaults(t)
	stock := scene.DefaultConfig()

	assert.Equal(t, stock.Particles, cfg.Sim.Particles)
	assert.Equal(t, 60, cfg.Sim.FPS)
	assert.Equal(t, stock.Forces.BaseForce, cfg.Forces.BaseForce)
	assert.Equal(t, stock.Graph.MaxDistance, cfg.Edges.MaxDistance)
	assert.Equal(t, stock.Lightning.MaxForks, cfg.Lightning.MaxForks)
	assert.True(t, cfg.Forces.Pointer.Enabled)
	assert.False(t, cfg.Forces.Perlin.Enabled)
	assert.False(t, cfg.Forces.Spring.Enabled)
	assert.Equal(t, stock.Spring.RestLength, cfg.Forces.Spring.RestLength)
	require.Len(t, cfg.Lightning.Colors, len(lightning.DefaultPaletteHex))
	assert.Equal(t, "#7c3aed", cfg.Lightning.Colors[0].Start)
	assert.Equal(t, "synapse", cfg.Logger.ServiceName)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synapse.yaml")
	yaml := []byte(`
sim:
  particles: 12
  seed: 99
forces:
  perlin:
    enabled: true
    weight: 0.5
lightning:
  max_forks: 4
  colors:
    - {start: "#000000", peak: "#ffffff", end: "#ff0000"}
render:
  glyphs: ascii
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Sim.Particles)
	assert.Equal(t, uint64(99), cfg.Sim.Seed)
	assert.True(t, cfg.Forces.Perlin.Enabled)
	assert.Equal(t, 0.5, cfg.Forces.Perlin.Weight)
	assert.Equal(t, scene.DefaultConfig().Perlin.Scale, cfg.Forces.Perlin.Scale)
	assert.Equal(t, 4, cfg.Lightning.MaxForks)
	require.Len(t, cfg.Lightning.Colors, 1)
	assert.Equal(t, render.GlyphASCII, cfg.Glyphs())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SYNAPSE_SIM_PARTICLES", "25")
	t.Setenv("SYNAPSE_LIGHTNING_MEDIAN_INTERVAL", "2.5")
	t.Setenv("SYNAPSE_FORCES_REPULSION_ENABLED", "true")

	cfg := defaults(t)
	assert.Equal(t, 25, cfg.Sim.Particles)
	assert.Equal(t, 2.5, cfg.Lightning.MedianInterval)
	assert.True(t, cfg.Forces.Repulsion.Enabled)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"probability above one", func(c *Config) { c.Lightning.ForkingProbability = 1.5 }},
		{"negative burst probability", func(c *Config) { c.Lightning.BurstProbability = -0.1 }},
		{"zero creation delay", func(c *Config) { c.Edges.CreationDelay = 0 }},
		{"negative fork budget", func(c *Config) { c.Lightning.MaxForks = -1 }},
		{"decay factor of one", func(c *Config) { c.Lightning.DecayFactor = 1 }},
		{"familiarity window inverted", func(c *Config) { c.Edges.FamiliarityMaxAge = 10 }},
		{"bad color", func(c *Config) { c.Lightning.Colors[0].Peak = "white" }},
		{"no colors", func(c *Config) { c.Lightning.Colors = nil }},
		{"unknown glyphs", func(c *Config) { c.Render.Glyphs = "braille" }},
		{"zero fps", func(c *Config) { c.Sim.FPS = 0 }},
		{"zero spring rest length", func(c *Config) { c.Forces.Spring.RestLength = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestSceneMapping(t *testing.T) {
	cfg := defaults(t)
	cfg.Edges.CreationDelay = 0.75
	cfg.Forces.Flow.Enabled = true
	cfg.Forces.Spring.Enabled = true
	cfg.Forces.Spring.RestLength = 64
	cfg.Forces.Gravity.Enabled = true

	sc, err := cfg.Scene()
	require.NoError(t, err)
	assert.Equal(t, 0.75, sc.Graph.EdgeCreationDelay)
	assert.True(t, sc.Flow.Enabled)
	assert.Equal(t, scene.SpringOptions{Enabled: true, RestLength: 64, Weight: cfg.Forces.Spring.Weight}, sc.Spring)
	assert.True(t, sc.Gravity.Enabled)
	assert.Equal(t, scene.DefaultConfig().Gravity.Weight, sc.Gravity.Weight)
	assert.Equal(t, cfg.Forces.Damping, sc.Forces.Damping)
	assert.Len(t, sc.Lightning.Palettes, len(cfg.Lightning.Colors))
	assert.Equal(t, cfg.Lightning.BurstProbability, sc.Lightning.BurstModeProb)

	ac := cfg.AudioPlayer()
	assert.Equal(t, cfg.Audio.SampleRate, ac.SampleRate)
}

func TestFrameInterval(t *testing.T) {
	assert.Equal(t, time.Second/30, SimConfig{FPS: 30}.FrameInterval())
	assert.Equal(t, time.Second/60, SimConfig{}.FrameInterval())
}
