// pkg/engine/views.go
package engine

import (
	"github.com/opd-ai/go-physbox/pkg/entity"
	"github.com/opd-ai/go-physbox/pkg/physics"
)

// BodyView is a read-only copy of a body's committed state for
// renderers and other observers
type BodyView struct {
	ID       entity.ID
	Mode     entity.Mode
	Mass     float64
	Moment   float64
	State    entity.State
	Material string
	// Polygon holds world-space vertices, nil for point bodies
	Polygon physics.Polygon
	Bounds  physics.AABB
	Style   entity.RenderStyle
}

// HasShape reports whether the body collides
func (v BodyView) HasShape() bool {
	return v.Polygon != nil
}

// SpringView is a read-only copy of a spring with world-space joins
type SpringView struct {
	End1        entity.ID
	End2        entity.ID
	Join1       physics.Vector2D
	Join2       physics.Vector2D
	Stiffness   float64
	SlackLength float64
	Slack       bool
	Force       physics.Vector2D
}

// Length returns the current distance between the joins
func (v SpringView) Length() float64 {
	return v.Join1.Distance(v.Join2)
}

func newBodyView(b *entity.Body) BodyView {
	v := BodyView{
		ID:     b.ID(),
		Mode:   b.Mode(),
		Mass:   b.Mass(),
		Moment: b.Moment(),
		State:  b.State(),
		Style:  entity.DefaultStyle,
	}
	if m := b.Material(); m != nil {
		v.Material = m.Name
	}
	if b.Style != nil {
		v.Style = *b.Style
	}
	if p := b.WorldPolygon(); p != nil {
		v.Polygon = p
		v.Bounds = physics.BoundingBox(p)
	} else {
		v.Bounds = physics.AABB{Min: b.Position(), Max: b.Position()}
	}
	return v
}

// Bodies returns views of every body in insertion order
func (w *World) Bodies() []BodyView {
	views := make([]BodyView, len(w.bodies))
	for i, b := range w.bodies {
		views[i] = newBodyView(b)
	}
	return views
}

// Body returns the view of one body
func (w *World) Body(id entity.ID) (BodyView, bool) {
	b := w.lookup(id)
	if b == nil {
		return BodyView{}, false
	}
	return newBodyView(b), true
}

// Springs returns views of every spring in insertion order
func (w *World) Springs() []SpringView {
	views := make([]SpringView, len(w.springs))
	for i, s := range w.springs {
		views[i] = SpringView{
			End1:        s.End1,
			End2:        s.End2,
			Join1:       w.lookup(s.End1).WorldPoint(s.End1Join),
			Join2:       w.lookup(s.End2).WorldPoint(s.End2Join),
			Stiffness:   s.Stiffness,
			SlackLength: s.SlackLength,
			Slack:       s.Slack,
			Force:       s.LastForce,
		}
	}
	return views
}

// Impulses returns the live impulse records, oldest first
func (w *World) Impulses() []ImpulseRecord {
	return w.impulses.snapshot()
}

// Step returns the number of completed steps
func (w *World) Step() uint64 {
	return w.step
}

// BodyCount returns the number of bodies
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// SpringCount returns the number of springs
func (w *World) SpringCount() int {
	return len(w.springs)
}

// LastStats returns the broad phase counters of the most recent step
func (w *World) LastStats() physics.Stats {
	return w.stats
}
