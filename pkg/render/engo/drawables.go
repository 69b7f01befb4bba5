// pkg/render/engo/drawables.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-physbox/pkg/physics"
)

const (
	springThickness = 2
	impulseRadius   = 4
	pointRadius     = 3
)

var (
	springColor      = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	slackSpringColor = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	impulseColor     = color.RGBA{R: 255, G: 220, B: 40, A: 255}
)

// polygonDrawable fans a convex world-space polygon into triangles whose
// points are relative to the polygon's bounding box, the layout
// common.ComplexTriangles expects. y is flipped for the window.
func polygonDrawable(poly physics.Polygon, bounds physics.AABB) common.ComplexTriangles {
	w := bounds.Max.X - bounds.Min.X
	h := bounds.Max.Y - bounds.Min.Y
	if w <= 0 || h <= 0 || len(poly) < 3 {
		return common.ComplexTriangles{}
	}

	relative := func(v physics.Vector2D) engo.Point {
		return engo.Point{
			X: float32((v.X - bounds.Min.X) / w),
			Y: float32((bounds.Max.Y - v.Y) / h),
		}
	}

	points := make([]engo.Point, 0, 3*(len(poly)-2))
	for i := 1; i < len(poly)-1; i++ {
		points = append(points, relative(poly[0]), relative(poly[i]), relative(poly[i+1]))
	}
	return common.ComplexTriangles{Points: points}
}

// bodySpace places a body's bounding box in window pixels
func bodySpace(cam *CameraSystem, bounds physics.AABB) common.SpaceComponent {
	topLeft := cam.WorldToScreen(physics.Vector2D{X: bounds.Min.X, Y: bounds.Max.Y})
	ppu := cam.PixelsPerUnit()
	return common.SpaceComponent{
		Position: topLeft,
		Width:    float32((bounds.Max.X - bounds.Min.X) * ppu),
		Height:   float32((bounds.Max.Y - bounds.Min.Y) * ppu),
	}
}

// markerSpace centres a square marker of the given pixel radius on pos
func markerSpace(cam *CameraSystem, pos physics.Vector2D, radius float32) common.SpaceComponent {
	p := cam.WorldToScreen(pos)
	return common.SpaceComponent{
		Position: engo.Point{X: p.X - radius, Y: p.Y - radius},
		Width:    2 * radius,
		Height:   2 * radius,
	}
}

// lineSpace lays a thin rectangle from a to b. engo rotates clockwise in
// degrees around the top-left corner.
func lineSpace(cam *CameraSystem, a, b physics.Vector2D) common.SpaceComponent {
	p0, p1 := cam.WorldToScreen(a), cam.WorldToScreen(b)
	dx, dy := float64(p1.X-p0.X), float64(p1.Y-p0.Y)
	return common.SpaceComponent{
		Position: p0,
		Width:    float32(math.Hypot(dx, dy)),
		Height:   springThickness,
		Rotation: float32(math.Atan2(dy, dx) * 180 / math.Pi),
	}
}
