// pkg/engine/springs.go
package engine

import (
	"github.com/opd-ai/go-physbox/pkg/entity"
	"github.com/opd-ai/go-physbox/pkg/physics"
)

// applySpringForces adds every spring's force to the pending
// accelerations of its ends. Join positions come from committed state.
func (w *World) applySpringForces() {
	for _, s := range w.springs {
		b1, b2 := w.lookup(s.End1), w.lookup(s.End2)
		force, ok := springForce(s, b1, b2)
		s.LastForce = force
		if !ok {
			if !s.Slack {
				w.logger.Debug(w.ctx, "spring skipped, joins coincide", "end1", uint64(s.End1), "end2", uint64(s.End2))
			}
			continue
		}

		j1 := b1.WorldPoint(s.End1Join)
		j2 := b2.WorldPoint(s.End2Join)
		b1.ApplyForce(force, j1.Sub(b1.Position()))
		b2.ApplyForce(force.Neg(), j2.Sub(b2.Position()))
	}
}

// springForce returns the force the spring exerts on End1; End2 gets the
// negation. It also updates the spring's Slack flag. ok is false when the
// spring contributes nothing this step.
func springForce(s *entity.Spring, b1, b2 *entity.Body) (physics.Vector2D, bool) {
	delta := b2.WorldPoint(s.End2Join).Sub(b1.WorldPoint(s.End1Join))
	length := delta.Length()

	s.Slack = length < s.SlackLength
	if s.Slack {
		return physics.Vector2D{}, false
	}

	direction, err := delta.Unit()
	if err != nil {
		// coincident joins with zero slack length
		return physics.Vector2D{}, false
	}

	extension := length - s.SlackLength
	return direction.Scale(s.Stiffness * extension * (extension / length)), true
}
