// Package config loads the typed synapse configuration through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config is the root configuration
type Config struct {
	Sim       SimConfig       `mapstructure:"sim" json:"sim" yaml:"sim"`
	Forces    ForcesConfig    `mapstructure:"forces" json:"forces" yaml:"forces"`
	Edges     EdgesConfig     `mapstructure:"edges" json:"edges" yaml:"edges"`
	Pulse     PulseConfig     `mapstructure:"pulse" json:"pulse" yaml:"pulse"`
	Lightning LightningConfig `mapstructure:"lightning" json:"lightning" yaml:"lightning"`
	Render    RenderConfig    `mapstructure:"render" json:"render" yaml:"render"`
	Audio     AudioConfig     `mapstructure:"audio" json:"audio" yaml:"audio"`
	Stream    StreamConfig    `mapstructure:"stream" json:"stream" yaml:"stream"`
	Logger    LoggerConfig    `mapstructure:"logger" json:"logger" yaml:"logger"`
}

// SimConfig holds the frame loop settings
type SimConfig struct {
	Particles     int     `mapstructure:"particles" json:"particles" yaml:"particles"`
	Seed          uint64  `mapstructure:"seed" json:"seed" yaml:"seed"`
	FPS           int     `mapstructure:"fps" json:"fps" yaml:"fps"`
	ResetInterval float64 `mapstructure:"reset_interval" json:"reset_interval" yaml:"reset_interval"`
	InitialSpeed  float64 `mapstructure:"initial_speed" json:"initial_speed" yaml:"initial_speed"`
}

// FrameInterval returns the tick period for the configured rate
func (s SimConfig) FrameInterval() time.Duration {
	if s.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(s.FPS)
}

// FieldToggle enables one optional force field at a combination weight
type FieldToggle struct {
	Enabled bool    `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Weight  float64 `mapstructure:"weight" json:"weight" yaml:"weight"`
}

// FlowConfig tunes the sinusoidal flow field
type FlowConfig struct {
	FieldToggle `mapstructure:",squash" yaml:",inline"`
	Frequency   float64 `mapstructure:"frequency" json:"frequency" yaml:"frequency"`
	Amplitude   float64 `mapstructure:"amplitude" json:"amplitude" yaml:"amplitude"`
}

// PerlinConfig tunes the noise field
type PerlinConfig struct {
	FieldToggle `mapstructure:",squash" yaml:",inline"`
	Scale       float64 `mapstructure:"scale" json:"scale" yaml:"scale"`
	Speed       float64 `mapstructure:"speed" json:"speed" yaml:"speed"`
	Magnitude   float64 `mapstructure:"magnitude" json:"magnitude" yaml:"magnitude"`
}

// RepulsionConfig tunes inter-particle repulsion
type RepulsionConfig struct {
	FieldToggle `mapstructure:",squash" yaml:",inline"`
	Theta       float64 `mapstructure:"theta" json:"theta" yaml:"theta"`
	Softening   float64 `mapstructure:"softening" json:"softening" yaml:"softening"`
}

// PointerConfig tunes pointer repulsion
type PointerConfig struct {
	FieldToggle `mapstructure:",squash" yaml:",inline"`
	Radius      float64 `mapstructure:"radius" json:"radius" yaml:"radius"`
	Timeout     float64 `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
}

// SpringConfig tunes springs along graph edges
type SpringConfig struct {
	FieldToggle `mapstructure:",squash" yaml:",inline"`
	RestLength  float64 `mapstructure:"rest_length" json:"rest_length" yaml:"rest_length"`
}

// ForcesConfig holds the hex-grid balance and the optional fields
type ForcesConfig struct {
	BaseForce      float64 `mapstructure:"base_force" json:"base_force" yaml:"base_force"`
	GridSize       float64 `mapstructure:"grid_size" json:"grid_size" yaml:"grid_size"`
	CellAspect     float64 `mapstructure:"cell_aspect" json:"cell_aspect" yaml:"cell_aspect"`
	CellScale      float64 `mapstructure:"cell_scale" json:"cell_scale" yaml:"cell_scale"`
	UpwardBias     float64 `mapstructure:"upward_bias" json:"upward_bias" yaml:"upward_bias"`
	BrownianFactor float64 `mapstructure:"brownian_factor" json:"brownian_factor" yaml:"brownian_factor"`
	HexWeight      float64 `mapstructure:"hex_weight" json:"hex_weight" yaml:"hex_weight"`
	Coherence      float64 `mapstructure:"coherence" json:"coherence" yaml:"coherence"`
	Damping        float64 `mapstructure:"damping" json:"damping" yaml:"damping"`

	Flow      FlowConfig      `mapstructure:"flow" json:"flow" yaml:"flow"`
	Perlin    PerlinConfig    `mapstructure:"perlin" json:"perlin" yaml:"perlin"`
	Repulsion RepulsionConfig `mapstructure:"repulsion" json:"repulsion" yaml:"repulsion"`
	Pointer   PointerConfig   `mapstructure:"pointer" json:"pointer" yaml:"pointer"`
	Spring    SpringConfig    `mapstructure:"spring" json:"spring" yaml:"spring"`
	Gravity   FieldToggle     `mapstructure:"gravity" json:"gravity" yaml:"gravity"`
}

// EdgesConfig holds the edge hysteresis and familiarity settings
type EdgesConfig struct {
	MaxDistance       float64 `mapstructure:"max_distance" json:"max_distance" yaml:"max_distance"`
	CreationDelay     float64 `mapstructure:"creation_delay" json:"creation_delay" yaml:"creation_delay"`
	RemovalDelay      float64 `mapstructure:"removal_delay" json:"removal_delay" yaml:"removal_delay"`
	FamiliarityDecay  float64 `mapstructure:"familiarity_decay" json:"familiarity_decay" yaml:"familiarity_decay"`
	FamiliarityMaxAge float64 `mapstructure:"familiarity_max_age" json:"familiarity_max_age" yaml:"familiarity_max_age"`
	DistanceExponent  float64 `mapstructure:"distance_exponent" json:"distance_exponent" yaml:"distance_exponent"`
	PreferenceWeight  float64 `mapstructure:"preference_weight" json:"preference_weight" yaml:"preference_weight"`
	UpwardBias        float64 `mapstructure:"upward_bias" json:"upward_bias" yaml:"upward_bias"`
	ActivityDecay     float64 `mapstructure:"activity_decay" json:"activity_decay" yaml:"activity_decay"`
}

// PulseConfig holds the wave settings
type PulseConfig struct {
	Strength          float64 `mapstructure:"strength" json:"strength" yaml:"strength"`
	Speed             float64 `mapstructure:"speed" json:"speed" yaml:"speed"`
	Wavelength        float64 `mapstructure:"wavelength" json:"wavelength" yaml:"wavelength"`
	Decay             float64 `mapstructure:"decay" json:"decay" yaml:"decay"`
	HopScale          float64 `mapstructure:"hop_scale" json:"hop_scale" yaml:"hop_scale"`
	InteractionRadius float64 `mapstructure:"interaction_radius" json:"interaction_radius" yaml:"interaction_radius"`
	SpawnRate         float64 `mapstructure:"spawn_rate" json:"spawn_rate" yaml:"spawn_rate"`
}

// ColorVariation is one lightning palette as hex strings
type ColorVariation struct {
	Start string `mapstructure:"start" json:"start" yaml:"start"`
	Peak  string `mapstructure:"peak" json:"peak" yaml:"peak"`
	End   string `mapstructure:"end" json:"end" yaml:"end"`
}

// LightningConfig holds strike timing, forking and palettes
type LightningConfig struct {
	MedianInterval      float64          `mapstructure:"median_interval" json:"median_interval" yaml:"median_interval"`
	BurstProbability    float64          `mapstructure:"burst_probability" json:"burst_probability" yaml:"burst_probability"`
	BurstDuration       float64          `mapstructure:"burst_duration" json:"burst_duration" yaml:"burst_duration"`
	QuietDuration       float64          `mapstructure:"quiet_duration" json:"quiet_duration" yaml:"quiet_duration"`
	BurstMultiplier     float64          `mapstructure:"burst_multiplier" json:"burst_multiplier" yaml:"burst_multiplier"`
	MinInterval         float64          `mapstructure:"min_interval" json:"min_interval" yaml:"min_interval"`
	ForkingProbability  float64          `mapstructure:"forking_probability" json:"forking_probability" yaml:"forking_probability"`
	MaxForks            int              `mapstructure:"max_forks" json:"max_forks" yaml:"max_forks"`
	DecayFactor         float64          `mapstructure:"decay_factor" json:"decay_factor" yaml:"decay_factor"`
	EnergyFloor         float64          `mapstructure:"energy_floor" json:"energy_floor" yaml:"energy_floor"`
	PropagationDuration float64          `mapstructure:"propagation_duration" json:"propagation_duration" yaml:"propagation_duration"`
	FadeDuration        float64          `mapstructure:"fade_duration" json:"fade_duration" yaml:"fade_duration"`
	Colors              []ColorVariation `mapstructure:"colors" json:"colors" yaml:"colors"`
}

// RenderConfig holds terminal drawing settings
type RenderConfig struct {
	Glyphs     string  `mapstructure:"glyphs" json:"glyphs" yaml:"glyphs"`
	TrueColor  bool    `mapstructure:"truecolor" json:"truecolor" yaml:"truecolor"`
	CellWidth  float64 `mapstructure:"cell_width" json:"cell_width" yaml:"cell_width"`
	CellHeight float64 `mapstructure:"cell_height" json:"cell_height" yaml:"cell_height"`
	Overlay    bool    `mapstructure:"overlay" json:"overlay" yaml:"overlay"`
}

// AudioConfig holds the thunder cue settings
type AudioConfig struct {
	Enabled    bool    `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Volume     float64 `mapstructure:"volume" json:"volume" yaml:"volume"`
	SampleRate int     `mapstructure:"sample_rate" json:"sample_rate" yaml:"sample_rate"`
	MaxVoices  int     `mapstructure:"max_voices" json:"max_voices" yaml:"max_voices"`
}

// StreamConfig holds the WebSocket endpoint
type StreamConfig struct {
	Addr string `mapstructure:"addr" json:"addr" yaml:"addr"`
	Path string `mapstructure:"path" json:"path" yaml:"path"`
}

// LoggerConfig holds the zap and lumberjack settings
type LoggerConfig struct {
	Level       string      `mapstructure:"level" json:"level" yaml:"level"`
	Format      string      `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" json:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" json:"colors" yaml:"colors"`
}

// ColorConfig names the console color per level
type ColorConfig struct {
	Debug  string `mapstructure:"debug" json:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" json:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" json:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" json:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" json:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" json:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" json:"fatal" yaml:"fatal"`
}

// Prepare installs defaults and the SYNAPSE_ environment binding on v
func Prepare(v *viper.Viper) {
	SetDefaults(v)
	v.SetEnvPrefix("SYNAPSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the optional file at path into v, then unmarshals and validates
// An empty path searches ./synapse.{yaml,toml,json} and tolerates its absence
func Load(v *viper.Viper, path string) (*Config, error) {
	Prepare(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("synapse")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
