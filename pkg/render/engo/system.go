// pkg/render/engo/system.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-physbox/pkg/engine"
	"github.com/opd-ai/go-physbox/pkg/entity"
	"github.com/opd-ai/go-physbox/pkg/logging"
	"github.com/opd-ai/go-physbox/pkg/render"
)

// maxSubSteps bounds the physics steps taken for one slow frame
const maxSubSteps = 8

// SimulationSystem steps a physics world at a fixed time step from the
// engo frame loop and mirrors it into sprites
type SimulationSystem struct {
	world    *engine.World
	renderer *EngoRenderer
	camera   *CameraSystem
	logger   *logging.Logger

	timeStep    float64
	accumulator float64
	paused      bool
	queued      int

	follow    entity.ID
	following bool

	reload func(w *engine.World) error
}

// NewSimulationSystem creates a system stepping world every timeStep
// seconds. reload rebuilds the world on Reset and may be nil.
func NewSimulationSystem(world *engine.World, camera *CameraSystem, timeStep float64, reload func(*engine.World) error, logger *logging.Logger) *SimulationSystem {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &SimulationSystem{
		world:    world,
		renderer: NewEngoRenderer(camera),
		camera:   camera,
		logger:   logger,
		timeStep: timeStep,
		reload:   reload,
	}
}

// New is called by ecs when the system is added and attaches the
// renderer to the world's render system
func (s *SimulationSystem) New(w *ecs.World) {
	for _, sys := range w.Systems() {
		if rs, ok := sys.(*common.RenderSystem); ok {
			s.renderer.Attach(rs)
			return
		}
	}
	s.logger.Warn(context.Background(), "no render system in world, sprites will not be drawn")
}

// Remove satisfies the ecs.System interface
func (s *SimulationSystem) Remove(basic ecs.BasicEntity) {}

// Update advances the world by whole time steps and redraws it
func (s *SimulationSystem) Update(dt float32) {
	steps := s.queued
	s.queued = 0

	if !s.paused {
		s.accumulator += float64(dt)
		for s.accumulator >= s.timeStep {
			s.accumulator -= s.timeStep
			steps++
		}
		if steps > maxSubSteps {
			s.logger.Debug(context.Background(), "dropping physics steps", "wanted", steps, "max", maxSubSteps)
			steps = maxSubSteps
			s.accumulator = 0
		}
	}

	for i := 0; i < steps; i++ {
		if err := s.world.Update(s.timeStep); err != nil {
			s.logger.Error(context.Background(), "physics step failed, pausing", err, "step", s.world.Step())
			s.paused = true
			break
		}
	}

	s.trackFollowed()
	render.DrawWorld(s.renderer, s.world)
}

func (s *SimulationSystem) trackFollowed() {
	if !s.following {
		return
	}
	body, ok := s.world.Body(s.follow)
	if !ok {
		s.Unfollow()
		return
	}
	s.camera.SetTarget(body.State.Position)
}

// TogglePause pauses or resumes stepping
func (s *SimulationSystem) TogglePause() {
	s.paused = !s.paused
	s.accumulator = 0
}

// Paused reports whether stepping is paused
func (s *SimulationSystem) Paused() bool {
	return s.paused
}

// StepOnce queues a single step for the next frame, paused or not
func (s *SimulationSystem) StepOnce() {
	s.queued++
}

// Pick follows the body under a window position
func (s *SimulationSystem) Pick(screen engo.Point) (entity.ID, bool) {
	ids := s.world.QueryPoint(s.camera.ScreenToWorld(screen))
	if len(ids) == 0 {
		return 0, false
	}
	s.follow = ids[0]
	s.following = true
	return ids[0], true
}

// Unfollow stops tracking the picked body
func (s *SimulationSystem) Unfollow() {
	s.following = false
	s.camera.ClearTarget()
}

// Reset clears the world and rebuilds it
func (s *SimulationSystem) Reset() error {
	if err := s.world.Clear(); err != nil {
		return err
	}
	s.accumulator = 0
	s.queued = 0
	s.Unfollow()
	if s.reload == nil {
		return nil
	}
	return s.reload(s.world)
}

// World returns the stepped world
func (s *SimulationSystem) World() *engine.World {
	return s.world
}
