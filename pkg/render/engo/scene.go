// pkg/render/engo/scene.go
package engo

import (
	"context"
	"fmt"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-physbox/pkg/config"
	"github.com/opd-ai/go-physbox/pkg/engine"
	"github.com/opd-ai/go-physbox/pkg/logging"
	"github.com/opd-ai/go-physbox/pkg/scene"
)

var background = color.RGBA{R: 20, G: 22, B: 30, A: 255}

// SandboxScene is the engo scene showing one demo world
type SandboxScene struct {
	cfg    *config.SandboxConfig
	logger *logging.Logger

	world *engine.World
	demo  scene.Scene

	camera *CameraSystem
	sim    *SimulationSystem
	input  *InputSystem
}

// NewSandboxScene builds the configured demo scene. Errors surface here
// rather than inside engo's Setup.
func NewSandboxScene(cfg *config.SandboxConfig, logger *logging.Logger) (*SandboxScene, error) {
	if logger == nil {
		logger = logging.NewLogger()
	}
	world := engine.NewWorld(
		engine.WithPhysicsConfig(cfg.Physics),
		engine.WithLogger(logger),
	)
	demo, err := scene.Load(cfg.Simulation.Scene, world)
	if err != nil {
		return nil, fmt.Errorf("loading scene: %w", err)
	}
	return &SandboxScene{
		cfg:    cfg,
		logger: logger,
		world:  world,
		demo:   demo,
	}, nil
}

// Type returns the scene type (required by Engo)
func (s *SandboxScene) Type() string {
	return "PhysboxSandbox"
}

// Preload is called before the scene starts (required by Engo). The
// viewer draws primitives only and has no assets.
func (s *SandboxScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (s *SandboxScene) Setup(u engo.Updater) {
	w, ok := u.(*ecs.World)
	if !ok {
		s.logger.Error(context.Background(), "unexpected updater", fmt.Errorf("%T is not *ecs.World", u))
		return
	}

	SetupInputBindings()
	common.SetBackground(background)

	s.camera = NewCameraSystem(s.cfg.Render.Scale)
	s.camera.SetViewport(float32(s.cfg.Render.Width), float32(s.cfg.Render.Height))
	s.sim = NewSimulationSystem(s.world, s.camera, s.cfg.Simulation.TimeStep, s.rebuild, s.logger)
	s.input = NewInputSystem(s.sim, s.logger)

	s.systems(w)

	s.logger.Info(context.Background(), "viewer started",
		"scene", s.demo.Name,
		"bodies", s.world.BodyCount(),
		"springs", s.world.SpringCount(),
	)
}

// systems adds the scene's systems in update order
func (s *SandboxScene) systems(w *ecs.World) {
	w.AddSystem(&common.RenderSystem{})
	w.AddSystem(s.input)
	w.AddSystem(s.sim)
	w.AddSystem(s.camera)
}

func (s *SandboxScene) rebuild(w *engine.World) error {
	return s.demo.Build(w)
}

// World returns the simulated world
func (s *SandboxScene) World() *engine.World {
	return s.world
}

// Exit is called when the scene is exiting (required by Engo)
func (s *SandboxScene) Exit() {
	s.logger.Info(context.Background(), "viewer exiting", "steps", s.world.Step())
}
