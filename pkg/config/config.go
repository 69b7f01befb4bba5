// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"math"
	"os"

	"github.com/opd-ai/go-physbox/pkg/validation"
)

// SandboxConfig contains configuration for a sandbox run
type SandboxConfig struct {
	Physics    PhysicsConfig    `json:"physics"`
	Simulation SimulationConfig `json:"simulation"`
	Render     RenderConfig     `json:"render"`
	Audio      AudioConfig      `json:"audio"`
}

// PhysicsConfig contains the world-level physics parameters
type PhysicsConfig struct {
	GravityX       float64 `json:"gravityX"`
	GravityY       float64 `json:"gravityY"`
	LinearDamping  float64 `json:"linearDamping"`
	AngularDamping float64 `json:"angularDamping"`
	// BiasFactor is the fraction of penetration removed per step
	BiasFactor float64 `json:"biasFactor"`
	// Slop is the penetration depth tolerated without correction
	Slop               float64 `json:"slop"`
	ImpulseLogCapacity int     `json:"impulseLogCapacity"`
	// ImpulseLifetime is how many steps an impulse record stays visible
	ImpulseLifetime int `json:"impulseLifetime"`
}

// SimulationConfig controls how a runner drives the world
type SimulationConfig struct {
	TimeStep float64 `json:"timeStep"`
	Steps    int     `json:"steps"`
	Scene    string  `json:"scene"`
}

// RenderConfig contains viewer configuration
type RenderConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// Scale is pixels per world unit in the window viewer
	Scale float64 `json:"scale"`
	// CellSize is world units per character cell in the terminal view
	CellSize float64 `json:"cellSize"`
}

// AudioConfig contains impulse sonification settings
type AudioConfig struct {
	Enabled    bool `json:"enabled"`
	SampleRate int  `json:"sampleRate"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*SandboxConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	data, err := ioutil.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// fields missing from the file keep their defaults
	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SandboxConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := ioutil.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default sandbox configuration
func DefaultConfig() *SandboxConfig {
	return &SandboxConfig{
		Physics: DefaultPhysicsConfig(),
		Simulation: SimulationConfig{
			TimeStep: 0.01,
			Steps:    1000,
			Scene:    "springs",
		},
		Render: RenderConfig{
			Width:    800,
			Height:   600,
			Scale:    1,
			CellSize: 10,
		},
		Audio: AudioConfig{
			Enabled:    false,
			SampleRate: 44100,
		},
	}
}

// DefaultPhysicsConfig returns zero gravity, no damping, 40% positional
// correction with no slop, and a 256-entry impulse log kept for 30 steps.
func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		GravityX:           0,
		GravityY:           0,
		LinearDamping:      0,
		AngularDamping:     0,
		BiasFactor:         0.4,
		Slop:               0,
		ImpulseLogCapacity: 256,
		ImpulseLifetime:    30,
	}
}

// Validate checks every section and reports all problems at once
func (c *SandboxConfig) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	var errs []error
	errs = append(errs, c.Physics.Validate())

	if !finite(c.Simulation.TimeStep) || c.Simulation.TimeStep <= 0 {
		errs = append(errs, fmt.Errorf("simulation.timeStep must be positive, got %v", c.Simulation.TimeStep))
	}
	if c.Simulation.Steps < 0 {
		errs = append(errs, fmt.Errorf("simulation.steps cannot be negative, got %d", c.Simulation.Steps))
	}
	if _, err := validation.ValidateSceneName(c.Simulation.Scene); err != nil {
		errs = append(errs, fmt.Errorf("simulation.scene: %w", err))
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if !finite(c.Render.Scale) || c.Render.Scale <= 0 {
		errs = append(errs, fmt.Errorf("render.scale must be positive, got %v", c.Render.Scale))
	}
	if !finite(c.Render.CellSize) || c.Render.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("render.cellSize must be positive, got %v", c.Render.CellSize))
	}

	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sampleRate must be positive, got %d", c.Audio.SampleRate))
	}

	return errors.Join(errs...)
}

// Validate checks the physics parameters
func (p PhysicsConfig) Validate() error {
	var errs []error
	if !finite(p.GravityX) || !finite(p.GravityY) {
		errs = append(errs, fmt.Errorf("gravity must be finite, got (%v, %v)", p.GravityX, p.GravityY))
	}
	if !finite(p.LinearDamping) || p.LinearDamping < 0 {
		errs = append(errs, fmt.Errorf("physics.linearDamping cannot be negative, got %v", p.LinearDamping))
	}
	if !finite(p.AngularDamping) || p.AngularDamping < 0 {
		errs = append(errs, fmt.Errorf("physics.angularDamping cannot be negative, got %v", p.AngularDamping))
	}
	if !finite(p.BiasFactor) || p.BiasFactor < 0 || p.BiasFactor > 1 {
		errs = append(errs, fmt.Errorf("physics.biasFactor must be in [0, 1], got %v", p.BiasFactor))
	}
	if !finite(p.Slop) || p.Slop < 0 {
		errs = append(errs, fmt.Errorf("physics.slop cannot be negative, got %v", p.Slop))
	}
	if p.ImpulseLogCapacity < 0 {
		errs = append(errs, fmt.Errorf("physics.impulseLogCapacity cannot be negative, got %d", p.ImpulseLogCapacity))
	}
	if p.ImpulseLifetime < 1 {
		errs = append(errs, fmt.Errorf("physics.impulseLifetime must be at least 1, got %d", p.ImpulseLifetime))
	}
	return errors.Join(errs...)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
