// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-physbox/pkg/physics"
)

// CameraSystem maps world coordinates (y up) to window pixels (y down)
// and optionally follows a target
type CameraSystem struct {
	// Target to follow
	target    physics.Vector2D
	targetSet bool

	// scale is pixels per world unit at zoom 1
	scale float64

	zoom    float32
	minZoom float32
	maxZoom float32

	// Smooth following
	followSpeed float32
	smoothing   bool

	currentPos physics.Vector2D
	viewport   engo.Point
}

// NewCameraSystem creates a camera drawing scale pixels per world unit
func NewCameraSystem(scale float64) *CameraSystem {
	if scale <= 0 {
		scale = 1
	}
	return &CameraSystem{
		scale:       scale,
		zoom:        1.0,
		minZoom:     0.1,
		maxZoom:     10.0,
		followSpeed: 2.0,
		smoothing:   true,
	}
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update updates the camera position and zoom
func (cs *CameraSystem) Update(dt float32) {
	if w, h := engo.GameWidth(), engo.GameHeight(); w > 0 && h > 0 {
		cs.viewport = engo.Point{X: w, Y: h}
	}

	cs.handleZoomInput()

	if cs.targetSet {
		cs.updateCameraPosition(dt)
	}
}

// handleZoomInput processes zoom-related input
func (cs *CameraSystem) handleZoomInput() {
	if engo.Input == nil {
		return
	}

	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.SetZoom(cs.zoom * (1.0 + scrollY*0.1))
	}
	if engo.Input.Button(buttonZoomIn).Down() {
		cs.SetZoom(cs.zoom * 1.02)
	}
	if engo.Input.Button(buttonZoomOut).Down() {
		cs.SetZoom(cs.zoom * 0.98)
	}
	if engo.Input.Button(buttonResetZoom).JustPressed() {
		cs.SetZoom(1.0)
	}
}

// updateCameraPosition moves the camera toward the target
func (cs *CameraSystem) updateCameraPosition(dt float32) {
	if !cs.smoothing {
		cs.currentPos = cs.target
		return
	}
	step := float64(cs.followSpeed) * float64(dt)
	if step > 1 {
		step = 1
	}
	cs.currentPos = cs.currentPos.Add(cs.target.Sub(cs.currentPos).Scale(step))
}

// SetTarget sets the position the camera follows
func (cs *CameraSystem) SetTarget(target physics.Vector2D) {
	first := !cs.targetSet
	cs.target = target
	cs.targetSet = true
	if first || !cs.smoothing {
		cs.currentPos = target
	}
}

// ClearTarget stops following and leaves the camera where it is
func (cs *CameraSystem) ClearTarget() {
	cs.targetSet = false
}

// HasTarget reports whether the camera is following a target
func (cs *CameraSystem) HasTarget() bool {
	return cs.targetSet
}

// CenterOn moves the camera immediately
func (cs *CameraSystem) CenterOn(pos physics.Vector2D) {
	cs.currentPos = pos
}

// SetViewport sets the window size in pixels
func (cs *CameraSystem) SetViewport(width, height float32) {
	cs.viewport = engo.Point{X: width, Y: height}
}

// SetZoom sets the camera zoom level
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
}

// GetZoom returns the current zoom level
func (cs *CameraSystem) GetZoom() float32 {
	return cs.zoom
}

func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// SetZoomLimits sets the minimum and maximum zoom levels
func (cs *CameraSystem) SetZoomLimits(min, max float32) {
	cs.minZoom = min
	cs.maxZoom = max
	cs.zoom = cs.clampZoom(cs.zoom)
}

// EnableSmoothing enables or disables camera smoothing
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// GetCurrentPosition returns the world position at the window centre
func (cs *CameraSystem) GetCurrentPosition() physics.Vector2D {
	return cs.currentPos
}

// PixelsPerUnit returns the effective scale including zoom
func (cs *CameraSystem) PixelsPerUnit() float64 {
	return cs.scale * float64(cs.zoom)
}

// WorldToScreen converts world coordinates to window pixels
func (cs *CameraSystem) WorldToScreen(worldPos physics.Vector2D) engo.Point {
	ppu := cs.PixelsPerUnit()
	return engo.Point{
		X: float32((worldPos.X-cs.currentPos.X)*ppu) + cs.viewport.X/2,
		Y: cs.viewport.Y/2 - float32((worldPos.Y-cs.currentPos.Y)*ppu),
	}
}

// ScreenToWorld converts window pixels to world coordinates
func (cs *CameraSystem) ScreenToWorld(screenPos engo.Point) physics.Vector2D {
	ppu := cs.PixelsPerUnit()
	return physics.Vector2D{
		X: float64(screenPos.X-cs.viewport.X/2)/ppu + cs.currentPos.X,
		Y: float64(cs.viewport.Y/2-screenPos.Y)/ppu + cs.currentPos.Y,
	}
}
