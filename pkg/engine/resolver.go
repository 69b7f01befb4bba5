// pkg/engine/resolver.go
package engine

import (
	"math"

	"github.com/opd-ai/go-physbox/pkg/entity"
	"github.com/opd-ai/go-physbox/pkg/event"
	"github.com/opd-ai/go-physbox/pkg/physics"
)

// contact is an overlapping pair that produced a contact point
type contact struct {
	pair    physics.Pair
	a, b    *entity.Body
	point   physics.Vector2D
	impulse float64
}

func (c contact) event(source interface{}) *event.CollisionEvent {
	e := event.NewCollisionEvent(source, uint64(c.a.ID()), uint64(c.b.ID()))
	e.PointX, e.PointY = c.point.X, c.point.Y
	e.NormalX, e.NormalY = c.pair.Normal.X, c.pair.Normal.Y
	e.Separation = c.pair.Separation
	e.Impulse = c.impulse
	return e
}

// resolveCollisions finds the overlapping pairs among the committed
// world polygons, applies an impulse to every pair in pair order, and
// only then applies positional correction to every pair, using the
// separations measured before any impulse.
func (w *World) resolveCollisions() ([]contact, error) {
	polygons := make([]physics.Polygon, len(w.bodies))
	for i, b := range w.bodies {
		polygons[i] = b.WorldPolygon()
	}

	pairs, stats, err := physics.CollideAll(polygons)
	w.stats = stats
	if err != nil {
		return nil, err
	}

	contacts := make([]contact, 0, len(pairs))
	for _, pair := range pairs {
		a, b := w.bodies[pair.I], w.bodies[pair.J]
		if a.IsImmovable() && b.IsImmovable() {
			continue
		}

		point, ok, err := physics.OverlapContactPoint(polygons[pair.I], polygons[pair.J])
		if err != nil {
			return nil, err
		}
		if !ok {
			w.logger.Debug(w.ctx, "overlap without contact point",
				"body_a", uint64(a.ID()), "body_b", uint64(b.ID()), "separation", pair.Separation)
			continue
		}

		c := contact{pair: pair, a: a, b: b, point: point}
		c.impulse = w.applyContactImpulse(c)
		contacts = append(contacts, c)
	}

	for _, c := range contacts {
		w.correctPosition(c)
	}
	return contacts, nil
}

// applyContactImpulse applies the normal and friction impulses for one
// contact to the pending velocities and returns the normal impulse
// magnitude. Bodies already separating along the normal get nothing.
func (w *World) applyContactImpulse(c contact) float64 {
	a, b := c.a, c.b
	n := c.pair.Normal
	r1 := c.point.Sub(a.Position())
	r2 := c.point.Sub(b.Position())

	dv := b.PendingVelocityAt(r2).Sub(a.PendingVelocityAt(r1))
	vn := dv.Dot(n)
	if vn > 0 {
		return 0
	}

	ma, mb := a.Material(), b.Material()
	restitution := math.Min(ma.Restitution, mb.Restitution)

	rn1, rn2 := r1.Cross(n), r2.Cross(n)
	k := a.InverseMass() + b.InverseMass() +
		rn1*rn1*a.InverseMoment() + rn2*rn2*b.InverseMoment()

	j := -(1 + restitution) * vn / k
	impulse := n.Scale(j)
	a.ApplyImpulse(impulse.Neg(), r1)
	b.ApplyImpulse(impulse, r2)
	w.impulses.add(c.point, impulse, n)

	// friction acts along the post-impulse tangential velocity
	dv = b.PendingVelocityAt(r2).Sub(a.PendingVelocityAt(r1))
	tangent, err := dv.Sub(n.Scale(dv.Dot(n))).Unit()
	if err != nil {
		return j
	}

	staticFriction := math.Sqrt(ma.StaticFriction*ma.StaticFriction + mb.StaticFriction*mb.StaticFriction)
	dynamicFriction := math.Sqrt(ma.DynamicFriction*ma.DynamicFriction + mb.DynamicFriction*mb.DynamicFriction)

	jt := -dv.Dot(tangent) / k
	var friction physics.Vector2D
	if math.Abs(jt) < j*staticFriction {
		friction = tangent.Scale(jt)
	} else {
		friction = tangent.Scale(-j * dynamicFriction)
	}
	if friction == (physics.Vector2D{}) {
		return j
	}
	a.ApplyImpulse(friction.Neg(), r1)
	b.ApplyImpulse(friction, r2)
	w.impulses.add(c.point, friction, n)

	return j
}

// correctPosition pushes the pair apart along the normal by a fraction
// of the penetration beyond the slop, split by inverse mass
func (w *World) correctPosition(c contact) {
	depth := -c.pair.Separation - w.physics.Slop
	if depth <= 0 {
		return
	}

	ima, imb := c.a.InverseMass(), c.b.InverseMass()
	correction := c.pair.Normal.Scale(w.physics.BiasFactor * depth / (ima + imb))
	c.a.Translate(correction.Scale(-ima))
	c.b.Translate(correction.Scale(imb))
}
