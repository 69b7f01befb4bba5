// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-physbox/pkg/engine"
	"github.com/opd-ai/go-physbox/pkg/logging"
)

// Renderer draws read-only views of a world. A frame is Clear, any
// number of Render calls, then Present.
type Renderer interface {
	Clear()
	RenderSpring(spring engine.SpringView)
	RenderBody(body engine.BodyView)
	RenderImpulse(impulse engine.ImpulseRecord)
	Present()
}

// DrawWorld renders one frame of w: springs first, then bodies, then
// live impulses on top
func DrawWorld(r Renderer, w *engine.World) {
	r.Clear()
	for _, s := range w.Springs() {
		r.RenderSpring(s)
	}
	for _, b := range w.Bodies() {
		r.RenderBody(b)
	}
	for _, imp := range w.Impulses() {
		r.RenderImpulse(imp)
	}
	r.Present()
}

// NullRenderer logs every call at debug level and draws nothing
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return NewNullRendererWithLogger(logging.NewLogger())
}

// NewNullRendererWithLogger creates a NullRenderer writing to logger
func NewNullRendererWithLogger(logger *logging.Logger) *NullRenderer {
	return &NullRenderer{logger: logger}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements Renderer.
func (d *NullRenderer) Present() {
	d.logger.Debug(context.Background(), "Present called")
}

// RenderBody implements Renderer.
func (d *NullRenderer) RenderBody(body engine.BodyView) {
	d.logger.Debug(context.Background(), "RenderBody called",
		"body_id", uint64(body.ID),
		"mode", body.Mode.String(),
		"x", body.State.Position.X,
		"y", body.State.Position.Y,
		"vertices", len(body.Polygon),
	)
}

// RenderSpring implements Renderer.
func (d *NullRenderer) RenderSpring(spring engine.SpringView) {
	d.logger.Debug(context.Background(), "RenderSpring called",
		"end1", uint64(spring.End1),
		"end2", uint64(spring.End2),
		"length", spring.Length(),
		"slack", spring.Slack,
	)
}

// RenderImpulse implements Renderer.
func (d *NullRenderer) RenderImpulse(impulse engine.ImpulseRecord) {
	d.logger.Debug(context.Background(), "RenderImpulse called",
		"x", impulse.Point.X,
		"y", impulse.Point.Y,
		"magnitude", impulse.Impulse.Length(),
		"lifetime", impulse.Lifetime,
	)
}
