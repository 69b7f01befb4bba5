// pkg/render/engo/renderer.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-physbox/pkg/engine"
	"github.com/opd-ai/go-physbox/pkg/entity"
)

// sprite is one drawn ecs entity
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// EngoRenderer implements render.Renderer by keeping one ecs entity per
// body, spring and live impulse in sync with the world views
type EngoRenderer struct {
	// renderSystem is nil until the renderer is attached to a world;
	// sprites are still tracked so the mapping can be tested headless
	renderSystem *common.RenderSystem
	camera       *CameraSystem

	bodies   map[entity.ID]*sprite
	seen     map[entity.ID]bool
	springs  []*sprite
	impulses []*sprite

	springCount  int
	impulseCount int
}

// NewEngoRenderer creates a renderer placing sprites through camera
func NewEngoRenderer(camera *CameraSystem) *EngoRenderer {
	return &EngoRenderer{
		camera: camera,
		bodies: make(map[entity.ID]*sprite),
		seen:   make(map[entity.ID]bool),
	}
}

// Attach sets the render system sprites are added to
func (r *EngoRenderer) Attach(rs *common.RenderSystem) {
	r.renderSystem = rs
	if rs == nil {
		return
	}
	for _, s := range r.bodies {
		r.show(s)
	}
	for _, s := range r.springs {
		r.show(s)
	}
	for _, s := range r.impulses {
		r.show(s)
	}
}

// Clear implements render.Renderer
func (r *EngoRenderer) Clear() {
	clear(r.seen)
	r.springCount = 0
	r.impulseCount = 0
}

// RenderBody implements render.Renderer
func (r *EngoRenderer) RenderBody(body engine.BodyView) {
	s, ok := r.bodies[body.ID]
	if !ok {
		s = &sprite{BasicEntity: ecs.NewBasic()}
		r.bodies[body.ID] = s
		defer r.show(s)
	}
	r.seen[body.ID] = true

	s.Color = body.Style.Color
	if body.HasShape() {
		s.Drawable = polygonDrawable(body.Polygon, body.Bounds)
		s.SpaceComponent = bodySpace(r.camera, body.Bounds)
		return
	}
	s.Drawable = common.Circle{}
	s.SpaceComponent = markerSpace(r.camera, body.State.Position, pointRadius)
}

// RenderSpring implements render.Renderer
func (r *EngoRenderer) RenderSpring(spring engine.SpringView) {
	s := r.pooled(&r.springs, r.springCount, common.Rectangle{})
	r.springCount++

	s.Color = springColor
	if spring.Slack {
		s.Color = slackSpringColor
	}
	s.SpaceComponent = lineSpace(r.camera, spring.Join1, spring.Join2)
}

// RenderImpulse implements render.Renderer
func (r *EngoRenderer) RenderImpulse(impulse engine.ImpulseRecord) {
	s := r.pooled(&r.impulses, r.impulseCount, common.Circle{})
	r.impulseCount++

	s.Color = impulseColor
	s.SpaceComponent = markerSpace(r.camera, impulse.Point, impulseRadius)
}

// Present implements render.Renderer. Sprites not drawn this frame are
// dropped.
func (r *EngoRenderer) Present() {
	for id, s := range r.bodies {
		if !r.seen[id] {
			r.hide(s)
			delete(r.bodies, id)
		}
	}
	r.springs = r.trim(r.springs, r.springCount)
	r.impulses = r.trim(r.impulses, r.impulseCount)
}

// SpriteCounts returns how many bodies, springs and impulses are drawn
func (r *EngoRenderer) SpriteCounts() (bodies, springs, impulses int) {
	return len(r.bodies), len(r.springs), len(r.impulses)
}

// pooled returns the i-th sprite of pool, creating it with drawable d.
// The render system picks a shader from the drawable when the sprite is
// added, so d is set first.
func (r *EngoRenderer) pooled(pool *[]*sprite, i int, d common.Drawable) *sprite {
	if i < len(*pool) {
		return (*pool)[i]
	}
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.Drawable = d
	*pool = append(*pool, s)
	r.show(s)
	return s
}

func (r *EngoRenderer) trim(pool []*sprite, n int) []*sprite {
	for _, s := range pool[n:] {
		r.hide(s)
	}
	return pool[:n]
}

func (r *EngoRenderer) show(s *sprite) {
	if r.renderSystem != nil {
		r.renderSystem.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
}

func (r *EngoRenderer) hide(s *sprite) {
	if r.renderSystem != nil {
		r.renderSystem.Remove(s.BasicEntity)
	}
}
