// pkg/render/engo/scene_test.go
package engo

import (
	"errors"
	"testing"

	"github.com/opd-ai/go-physbox/pkg/config"
	"github.com/opd-ai/go-physbox/pkg/logging"
	"github.com/opd-ai/go-physbox/pkg/scene"
)

func TestNewSandboxScene(t *testing.T) {
	tests := []struct {
		name    string
		scene   string
		bodies  int
		springs int
	}{
		{"springs", "springs", 3, 2},
		{"stack", "stack", 7, 0},
		{"pendulum", "pendulum", 5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Simulation.Scene = tt.scene

			s, err := NewSandboxScene(cfg, logging.Discard())
			if err != nil {
				t.Fatalf("NewSandboxScene() unexpected error: %v", err)
			}
			if s.Type() != "PhysboxSandbox" {
				t.Errorf("Type() = %q, want %q", s.Type(), "PhysboxSandbox")
			}
			w := s.World()
			if w.BodyCount() != tt.bodies || w.SpringCount() != tt.springs {
				t.Errorf("counts = %d/%d, want %d/%d", w.BodyCount(), w.SpringCount(), tt.bodies, tt.springs)
			}
		})
	}
}

func TestNewSandboxScene_UnknownScene(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Simulation.Scene = "orbit"

	if _, err := NewSandboxScene(cfg, logging.Discard()); !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("NewSandboxScene() error = %v, want %v", err, scene.ErrUnknownScene)
	}
}

func TestSandboxScene_ResetRebuilds(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Simulation.Scene = "pendulum"
	s, err := NewSandboxScene(cfg, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}

	camera := NewCameraSystem(cfg.Render.Scale)
	sim := NewSimulationSystem(s.World(), camera, cfg.Simulation.TimeStep, s.rebuild, logging.Discard())
	sim.Update(0.5)
	if s.World().Step() == 0 {
		t.Fatal("expected the world to advance")
	}

	if err := sim.Reset(); err != nil {
		t.Fatalf("Reset() unexpected error: %v", err)
	}
	if s.World().BodyCount() != 5 || s.World().SpringCount() != 4 {
		t.Errorf("counts after reset = %d/%d, want 5/4", s.World().BodyCount(), s.World().SpringCount())
	}

	// Preload and Exit need no running engine
	s.Preload()
	s.Exit()
}
