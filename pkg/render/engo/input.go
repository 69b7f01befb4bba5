// pkg/render/engo/input.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-physbox/pkg/logging"
)

// Button names registered by SetupInputBindings
const (
	buttonPause     = "pause"
	buttonStep      = "step"
	buttonReset     = "reset"
	buttonZoomIn    = "zoomIn"
	buttonZoomOut   = "zoomOut"
	buttonResetZoom = "resetZoom"
)

// InputSystem turns keys and clicks into simulation controls
type InputSystem struct {
	sim    *SimulationSystem
	logger *logging.Logger
}

// NewInputSystem creates an input system driving sim
func NewInputSystem(sim *SimulationSystem, logger *logging.Logger) *InputSystem {
	return &InputSystem{sim: sim, logger: logger}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update processes this frame's input
func (is *InputSystem) Update(dt float32) {
	if engo.Input == nil {
		return
	}

	if engo.Input.Button(buttonPause).JustPressed() {
		is.sim.TogglePause()
		is.logger.Info(context.Background(), "simulation paused", "paused", is.sim.Paused())
	}
	if engo.Input.Button(buttonStep).JustPressed() {
		is.sim.StepOnce()
	}
	if engo.Input.Button(buttonReset).JustPressed() {
		if err := is.sim.Reset(); err != nil {
			is.logger.Error(context.Background(), "scene reset failed", err)
		}
	}

	mouse := engo.Input.Mouse
	if mouse.Action != engo.Press {
		return
	}
	switch mouse.Button {
	case engo.MouseButtonLeft:
		is.handleClick(engo.Point{X: mouse.X, Y: mouse.Y})
	case engo.MouseButtonRight:
		is.sim.Unfollow()
	}
}

// handleClick follows the clicked body, or stops following on empty space
func (is *InputSystem) handleClick(at engo.Point) {
	id, ok := is.sim.Pick(at)
	if !ok {
		is.sim.Unfollow()
		return
	}
	is.logger.Debug(context.Background(), "following body", "body_id", uint64(id))
}

// SetupInputBindings registers the viewer's key bindings
func SetupInputBindings() {
	engo.Input.RegisterButton(buttonPause, engo.KeySpace, engo.KeyP)
	engo.Input.RegisterButton(buttonStep, engo.KeyPeriod, engo.KeyN)
	engo.Input.RegisterButton(buttonReset, engo.KeyR)
	engo.Input.RegisterButton(buttonZoomIn, engo.KeyEquals, engo.KeyArrowUp)
	engo.Input.RegisterButton(buttonZoomOut, engo.KeyDash, engo.KeyArrowDown)
	engo.Input.RegisterButton(buttonResetZoom, engo.KeyZero)
}
