package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-physbox/pkg/engine"
	"github.com/opd-ai/go-physbox/pkg/entity"
	"github.com/opd-ai/go-physbox/pkg/physics"
)

// Cell glyphs used by the terminal renderer
const (
	GlyphDynamic = '#'
	GlyphStatic  = '='
	GlyphPoint   = 'o'
	GlyphSpring  = '.'
	GlyphSlack   = ':'
	GlyphImpulse = '*'
)

// maxLineCells skips springs stretched far beyond any screen
const maxLineCells = 1 << 14

// TerminalRenderer draws a world into a tcell screen, one character cell
// per cellSize world units, y pointing up
type TerminalRenderer struct {
	screen    tcell.Screen
	width     int
	height    int
	cellSize  float64
	centerPos physics.Vector2D
}

// NewTerminalRenderer creates a terminal renderer on an initialized screen
func NewTerminalRenderer(screen tcell.Screen, cellSize float64) *TerminalRenderer {
	if cellSize <= 0 {
		cellSize = 1
	}
	width, height := screen.Size()
	return &TerminalRenderer{
		screen:   screen,
		width:    width,
		height:   height,
		cellSize: cellSize,
	}
}

// SetCenter sets the world position shown in the middle of the screen
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// SetCellSize sets the number of world units per cell
func (r *TerminalRenderer) SetCellSize(size float64) {
	if size > 0 {
		r.cellSize = size
	}
}

// CellSize returns the number of world units per cell
func (r *TerminalRenderer) CellSize() float64 {
	return r.cellSize
}

// worldToScreen converts world coordinates to a cell
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screenX := int(math.Floor((pos.X-r.centerPos.X)/r.cellSize + float64(r.width)/2))
	screenY := int(math.Floor(float64(r.height)/2 - (pos.Y-r.centerPos.Y)/r.cellSize))
	return screenX, screenY
}

// cellCenter converts a cell to the world position of its centre
func (r *TerminalRenderer) cellCenter(x, y int) physics.Vector2D {
	return physics.Vector2D{
		X: r.centerPos.X + (float64(x)+0.5-float64(r.width)/2)*r.cellSize,
		Y: r.centerPos.Y + (float64(r.height)/2-float64(y)-0.5)*r.cellSize,
	}
}

func (r *TerminalRenderer) inBounds(x, y int) bool {
	return x >= 0 && x < r.width && y >= 0 && y < r.height
}

func (r *TerminalRenderer) set(x, y int, glyph rune, style tcell.Style) {
	if r.inBounds(x, y) {
		r.screen.SetContent(x, y, glyph, nil, style)
	}
}

// Clear implements Renderer
func (r *TerminalRenderer) Clear() {
	r.width, r.height = r.screen.Size()
	r.screen.Clear()
}

// Present implements Renderer
func (r *TerminalRenderer) Present() {
	r.screen.Show()
}

// RenderBody fills every cell whose centre lies inside the body's
// polygon. Point bodies are a single glyph.
func (r *TerminalRenderer) RenderBody(body engine.BodyView) {
	style := styleFor(body.Style)

	if !body.Bounds.Min.IsFinite() || !body.Bounds.Max.IsFinite() {
		return
	}
	if !body.HasShape() {
		x, y := r.worldToScreen(body.State.Position)
		r.set(x, y, GlyphPoint, style)
		return
	}

	glyph := GlyphDynamic
	if body.Mode == entity.ModeStatic {
		glyph = GlyphStatic
	}

	minX, maxY := r.worldToScreen(body.Bounds.Min)
	maxX, minY := r.worldToScreen(body.Bounds.Max)
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, r.width-1), min(maxY, r.height-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			d, err := physics.PointToPolygonDistance(r.cellCenter(x, y), body.Polygon)
			if err == nil && d <= 0 {
				r.set(x, y, glyph, style)
			}
		}
	}
}

// RenderSpring draws a dotted line between the joins
func (r *TerminalRenderer) RenderSpring(spring engine.SpringView) {
	glyph := GlyphSpring
	if spring.Slack {
		glyph = GlyphSlack
	}
	if !spring.Join1.IsFinite() || !spring.Join2.IsFinite() {
		return
	}
	x0, y0 := r.worldToScreen(spring.Join1)
	x1, y1 := r.worldToScreen(spring.Join2)
	if abs(x1-x0) > maxLineCells || abs(y1-y0) > maxLineCells {
		return
	}
	r.line(x0, y0, x1, y1, glyph, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

// RenderImpulse marks an impulse application point
func (r *TerminalRenderer) RenderImpulse(impulse engine.ImpulseRecord) {
	x, y := r.worldToScreen(impulse.Point)
	r.set(x, y, GlyphImpulse, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
}

// DrawStatus writes text on the top row
func (r *TerminalRenderer) DrawStatus(text string) {
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, ch := range text {
		if x >= r.width {
			break
		}
		r.set(x, 0, ch, style)
		x++
	}
}

// line draws a Bresenham line
func (r *TerminalRenderer) line(x0, y0, x1, y1 int, glyph rune, style tcell.Style) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		r.set(x0, y0, glyph, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func styleFor(s entity.RenderStyle) tcell.Style {
	c := s.Color
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}
