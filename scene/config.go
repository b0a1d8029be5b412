package scene

import (
	"github.com/lixenwraith/synapse/graph"
	"github.com/lixenwraith/synapse/lightning"
	"github.com/lixenwraith/synapse/physics"
	"github.com/lixenwraith/synapse/pulse"
)

// FlowOptions enables the sinusoidal flow field
type FlowOptions struct {
	Enabled   bool
	Frequency float64
	Amplitude float64
	Weight    float64
}

// PerlinOptions enables the noise flow field
type PerlinOptions struct {
	Enabled   bool
	Scale     float64
	Speed     float64
	Magnitude float64
	Weight    float64
}

// RepulsionOptions enables inter-particle repulsion
type RepulsionOptions struct {
	Enabled   bool
	Theta     float64
	Softening float64
	Weight    float64
}

// PointerOptions enables pointer repulsion
type PointerOptions struct {
	Enabled bool
	Radius  float64
	Timeout float64
	Weight  float64
}

// SpringOptions enables springs along the current graph edges
type SpringOptions struct {
	Enabled    bool
	RestLength float64
	Weight     float64
}

// GravityOptions enables the pull toward the canvas center
type GravityOptions struct {
	Enabled bool
	Weight  float64
}

// Config assembles the tuning of every stage
type Config struct {
	Particles     int
	Seed          uint64  // 0 seeds from the clock
	ResetInterval float64 // Seconds between full reseeds, 0 disables
	InitialSpeed  float64 // Velocity spread at scatter time

	Forces    physics.HexGridConfig
	Flow      FlowOptions
	Perlin    PerlinOptions
	Repulsion RepulsionOptions
	Pointer   PointerOptions
	Spring    SpringOptions
	Gravity   GravityOptions

	Graph     graph.Config
	Pulse     pulse.Config
	Lightning lightning.Config
}

// DefaultConfig returns the stock scene
func DefaultConfig() Config {
	return Config{
		Particles:    60,
		InitialSpeed: 20,
		Forces:       physics.DefaultHexGridConfig(),
		Flow:         FlowOptions{Frequency: 0.01, Amplitude: 10, Weight: 1},
		Perlin:       PerlinOptions{Scale: 0.005, Speed: 0.1, Magnitude: 15, Weight: 1},
		Repulsion:    RepulsionOptions{Theta: 0.5, Softening: 5, Weight: 400},
		Pointer:      PointerOptions{Enabled: true, Radius: 120, Timeout: 2, Weight: 150},
		Spring:       SpringOptions{RestLength: 80, Weight: 20},
		Gravity:      GravityOptions{Weight: 8},
		Graph:        graph.DefaultConfig(),
		Pulse:        pulse.DefaultConfig(),
		Lightning:    lightning.DefaultConfig(),
	}
}
