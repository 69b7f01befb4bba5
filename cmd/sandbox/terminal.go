// cmd/sandbox/terminal.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-physbox/pkg/audio"
	"github.com/opd-ai/go-physbox/pkg/config"
	"github.com/opd-ai/go-physbox/pkg/engine"
	"github.com/opd-ai/go-physbox/pkg/logging"
	"github.com/opd-ai/go-physbox/pkg/physics"
	"github.com/opd-ai/go-physbox/pkg/render"
	"github.com/opd-ai/go-physbox/pkg/scene"
)

const (
	zoomFactor = 1.25
	panCells   = 5
)

// terminalApp drives a world from tcell key events and a frame ticker
type terminalApp struct {
	screen   tcell.Screen
	renderer *render.TerminalRenderer
	world    *engine.World
	demo     scene.Scene
	son      *audio.Sonifier
	logger   *logging.Logger

	timeStep float64
	center   physics.Vector2D
	paused   bool
	lastErr  error
}

func newTerminalApp(screen tcell.Screen, cfg *config.SandboxConfig, world *engine.World, demo scene.Scene, son *audio.Sonifier, logger *logging.Logger) *terminalApp {
	return &terminalApp{
		screen:   screen,
		renderer: render.NewTerminalRenderer(screen, cfg.Render.CellSize),
		world:    world,
		demo:     demo,
		son:      son,
		logger:   logger,
		timeStep: cfg.Simulation.TimeStep,
	}
}

func (a *terminalApp) run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(a.timeStep * float64(time.Second)))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	a.draw()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !a.handleEvent(ev) {
				return
			}
			a.draw()
		case <-ticker.C:
			if !a.paused {
				a.step()
			}
			a.draw()
		}
	}
}

// handleEvent reacts to one input event and reports whether to keep running
func (a *terminalApp) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			a.pan(-panCells, 0)
		case tcell.KeyRight:
			a.pan(panCells, 0)
		case tcell.KeyUp:
			a.pan(0, panCells)
		case tcell.KeyDown:
			a.pan(0, -panCells)
		case tcell.KeyRune:
			return a.handleRune(ev.Rune())
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *terminalApp) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ' ', 'p':
		a.paused = !a.paused
	case 'n':
		a.step()
	case 'r':
		a.reset()
	case '+', '=':
		a.renderer.SetCellSize(a.renderer.CellSize() / zoomFactor)
	case '-':
		a.renderer.SetCellSize(a.renderer.CellSize() * zoomFactor)
	case 'c':
		a.center = physics.Vector2D{}
		a.renderer.SetCenter(a.center)
	}
	return true
}

func (a *terminalApp) pan(dx, dy float64) {
	cell := a.renderer.CellSize()
	a.center = a.center.Add(physics.Vector2D{X: dx * cell, Y: dy * cell})
	a.renderer.SetCenter(a.center)
}

// step advances one time step, pausing on failure
func (a *terminalApp) step() {
	if err := a.world.Update(a.timeStep); err != nil {
		a.logger.Error(context.Background(), "Simulation step failed, pausing", err, "step", a.world.Step())
		a.lastErr = err
		a.paused = true
		return
	}
	if a.son != nil {
		a.son.Observe(a.world.Impulses())
	}
}

func (a *terminalApp) reset() {
	if err := a.world.Clear(); err != nil {
		a.lastErr = err
		return
	}
	if err := a.demo.Build(a.world); err != nil {
		a.logger.Error(context.Background(), "Scene rebuild failed", err, "scene", a.demo.Name)
		a.lastErr = err
		return
	}
	a.lastErr = nil
}

func (a *terminalApp) draw() {
	render.DrawWorld(a.renderer, a.world)
	a.renderer.DrawStatus(a.status())
	a.screen.Show()
}

func (a *terminalApp) status() string {
	state := "running"
	if a.paused {
		state = "paused"
	}
	s := fmt.Sprintf(" %s | %s | step %d | bodies %d | springs %d | contacts %d | energy %.1f ",
		a.demo.Name, state, a.world.Step(), a.world.BodyCount(), a.world.SpringCount(),
		a.world.LastStats().Overlapping, a.world.KineticEnergy())
	if a.lastErr != nil {
		s += "| " + a.lastErr.Error() + " "
	}
	return s
}
