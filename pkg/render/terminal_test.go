package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-physbox/pkg/engine"
	"github.com/opd-ai/go-physbox/pkg/entity"
	"github.com/opd-ai/go-physbox/pkg/logging"
	"github.com/opd-ai/go-physbox/pkg/physics"
)

func newScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() error: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(width, height)
	return screen
}

func glyphAt(screen tcell.Screen, x, y int) rune {
	mainc, _, _, _ := screen.GetContent(x, y)
	return mainc
}

func TestNewTerminalRenderer_UsesScreenSize(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		height   int
		cellSize float64
		wantCell float64
	}{
		{"small renderer", 10, 5, 1.0, 1.0},
		{"medium renderer", 80, 24, 10.0, 10.0},
		{"non-positive cell size", 40, 20, 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := NewTerminalRenderer(newScreen(t, tt.width, tt.height), tt.cellSize)
			if renderer.width != tt.width || renderer.height != tt.height {
				t.Errorf("size = %dx%d, want %dx%d", renderer.width, renderer.height, tt.width, tt.height)
			}
			if renderer.CellSize() != tt.wantCell {
				t.Errorf("CellSize() = %v, want %v", renderer.CellSize(), tt.wantCell)
			}
		})
	}
}

func TestWorldToScreen_ConvertsCoordinates_Correctly(t *testing.T) {
	renderer := NewTerminalRenderer(newScreen(t, 80, 24), 10.0)

	tests := []struct {
		name      string
		centerPos physics.Vector2D
		worldPos  physics.Vector2D
		expectedX int
		expectedY int
	}{
		{
			name:      "center at origin, world at origin",
			centerPos: physics.Vector2D{X: 0, Y: 0},
			worldPos:  physics.Vector2D{X: 0, Y: 0},
			expectedX: 40,
			expectedY: 12,
		},
		{
			name:      "center at origin, world offset",
			centerPos: physics.Vector2D{X: 0, Y: 0},
			worldPos:  physics.Vector2D{X: 100, Y: 50},
			expectedX: 50, // 40 + 100/10
			expectedY: 7,  // 12 - 50/10, y up
		},
		{
			name:      "center offset, world at origin",
			centerPos: physics.Vector2D{X: 50, Y: 25},
			worldPos:  physics.Vector2D{X: 0, Y: 0},
			expectedX: 35,
			expectedY: 14, // floor(12 + 2.5)
		},
		{
			name:      "negative fractions round down",
			centerPos: physics.Vector2D{X: 0, Y: 0},
			worldPos:  physics.Vector2D{X: -5, Y: 0},
			expectedX: 39,
			expectedY: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer.SetCenter(tt.centerPos)
			x, y := renderer.worldToScreen(tt.worldPos)
			if x != tt.expectedX || y != tt.expectedY {
				t.Errorf("worldToScreen(%v) = (%d, %d), want (%d, %d)", tt.worldPos, x, y, tt.expectedX, tt.expectedY)
			}
		})
	}
}

func TestTerminalRenderer_RenderBody(t *testing.T) {
	screen := newScreen(t, 40, 20)
	renderer := NewTerminalRenderer(screen, 1)

	w := engine.NewWorld(engine.WithLogger(logging.Discard()))
	wood := entity.Wood
	shape, err := entity.NewShape(physics.Box(4, 4), &wood)
	if err != nil {
		t.Fatal(err)
	}
	crate, _ := entity.NewCollider(shape, physics.Vector2D{}, 0, 1, 1)
	floorShape, _ := entity.NewShape(physics.Box(40, 2), &wood)
	floor, _ := entity.NewStaticCollider(floorShape, physics.Vector2D{Y: -8})
	ball, _ := entity.NewBody(physics.Vector2D{X: 5, Y: 5}, 0, 1, 1)
	if err := w.Add(crate, floor, ball); err != nil {
		t.Fatal(err)
	}

	DrawWorld(renderer, w)

	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{"crate_centre", 20, 10, GlyphDynamic},
		{"crate_corner", 18, 8, GlyphDynamic},
		{"crate_far_corner", 21, 11, GlyphDynamic},
		{"left_of_crate", 17, 10, ' '},
		{"above_crate", 20, 7, ' '},
		{"floor", 5, 18, GlyphStatic},
		{"ball", 25, 5, GlyphPoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := glyphAt(screen, tt.x, tt.y); got != tt.want {
				t.Errorf("cell (%d, %d) = %q, want %q", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestTerminalRenderer_RenderSpring(t *testing.T) {
	screen := newScreen(t, 40, 20)
	renderer := NewTerminalRenderer(screen, 1)
	renderer.Clear()

	renderer.RenderSpring(engine.SpringView{
		Join1: physics.Vector2D{X: -5, Y: 0},
		Join2: physics.Vector2D{X: 5, Y: 0},
	})
	for x := 15; x <= 25; x++ {
		if got := glyphAt(screen, x, 10); got != GlyphSpring {
			t.Errorf("cell (%d, 10) = %q, want %q", x, got, GlyphSpring)
		}
	}

	renderer.RenderSpring(engine.SpringView{
		Join1: physics.Vector2D{X: 0, Y: 5},
		Join2: physics.Vector2D{X: 0, Y: 7},
		Slack: true,
	})
	if got := glyphAt(screen, 20, 4); got != GlyphSlack {
		t.Errorf("slack spring cell = %q, want %q", got, GlyphSlack)
	}
}

func TestTerminalRenderer_RenderImpulseAndStatus(t *testing.T) {
	screen := newScreen(t, 20, 10)
	renderer := NewTerminalRenderer(screen, 1)
	renderer.Clear()

	renderer.RenderImpulse(engine.ImpulseRecord{Point: physics.Vector2D{X: 1, Y: 1}, Lifetime: 3})
	if got := glyphAt(screen, 11, 4); got != GlyphImpulse {
		t.Errorf("impulse cell = %q, want %q", got, GlyphImpulse)
	}

	renderer.DrawStatus("step 42 with a very long status line")
	if got := glyphAt(screen, 0, 0); got != 's' {
		t.Errorf("status cell = %q, want 's'", got)
	}
	if got := glyphAt(screen, 19, 0); got == ' ' {
		t.Error("status line should fill the row")
	}

	// off-screen drawing is ignored
	renderer.RenderImpulse(engine.ImpulseRecord{Point: physics.Vector2D{X: 1000, Y: -1000}})
}

func TestTerminalRenderer_Clear(t *testing.T) {
	screen := newScreen(t, 10, 5)
	renderer := NewTerminalRenderer(screen, 1)
	renderer.RenderImpulse(engine.ImpulseRecord{})
	renderer.Clear()

	for y := 0; y < 5; y++ {
		for x := 0; x < 10; x++ {
			if got := glyphAt(screen, x, y); got == GlyphImpulse {
				t.Errorf("cell (%d, %d) not cleared", x, y)
			}
		}
	}
}
