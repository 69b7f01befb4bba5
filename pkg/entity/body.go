// pkg/entity/body.go
package entity

import (
	"fmt"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/opd-ai/go-physbox/pkg/physics"
)

// Body is a rigid body. Committed state is what the rest of the world
// observes; pending state accumulates the current step's changes and is
// committed by Integrate.
type Body struct {
	ecs.BasicEntity

	committed State
	pending   State

	mass   float64
	moment float64
	mode   Mode
	shape  *Shape

	// Style is optional presentation data for renderers
	Style *RenderStyle
}

// NewBody creates a shapeless point body. mass and moment must be
// positive; +Inf makes the body immovable.
func NewBody(position physics.Vector2D, orientation, mass, moment float64) (*Body, error) {
	if !validMass(mass) {
		return nil, fmt.Errorf("mass %v: %w", mass, ErrInvalidMass)
	}
	if !validMass(moment) {
		return nil, fmt.Errorf("moment %v: %w", moment, ErrInvalidMoment)
	}

	b := &Body{
		BasicEntity: ecs.NewBasic(),
		mass:        mass,
		moment:      moment,
		mode:        ModeDynamic,
	}
	b.committed.Position = position
	b.committed.Orientation = orientation
	b.pending = b.committed
	return b, nil
}

// NewPin creates a fixed, shapeless anchor point
func NewPin(position physics.Vector2D) *Body {
	return &Body{
		BasicEntity: ecs.NewBasic(),
		committed:   State{Position: position},
		pending:     State{Position: position},
		mass:        math.Inf(1),
		moment:      math.Inf(1),
		mode:        ModeStatic,
	}
}

// NewCollider creates a dynamic body with the given shape
func NewCollider(shape *Shape, position physics.Vector2D, orientation, mass, moment float64) (*Body, error) {
	if shape == nil {
		return nil, ErrNoShape
	}
	b, err := NewBody(position, orientation, mass, moment)
	if err != nil {
		return nil, err
	}
	b.shape = shape
	return b, nil
}

// NewColliderFromDensity derives mass from the material density and
// polygon area, and the moment of inertia from the polygon about its
// local origin.
func NewColliderFromDensity(shape *Shape, position physics.Vector2D, orientation float64) (*Body, error) {
	if shape == nil {
		return nil, ErrNoShape
	}
	mass := shape.Material.Density * shape.Area()
	if !validMass(mass) {
		return nil, fmt.Errorf("density %v gives mass %v: %w", shape.Material.Density, mass, ErrInvalidMass)
	}
	return NewCollider(shape, position, orientation, mass, shape.Polygon.MomentOfInertia(mass))
}

// NewStaticCollider creates a frozen collider such as a floor or wall
func NewStaticCollider(shape *Shape, position physics.Vector2D) (*Body, error) {
	if shape == nil {
		return nil, ErrNoShape
	}
	b := NewPin(position)
	b.shape = shape
	return b, nil
}

// ID returns the body's stable handle
func (b *Body) ID() ID {
	return ID(b.BasicEntity.ID())
}

// String identifies the body in logs
func (b *Body) String() string {
	return fmt.Sprintf("body %d (%s) at %v", b.ID(), b.mode, b.committed.Position)
}

// Mass returns the mass, possibly +Inf
func (b *Body) Mass() float64 { return b.mass }

// Moment returns the moment of inertia, possibly +Inf
func (b *Body) Moment() float64 { return b.moment }

// Mode returns the body's mode
func (b *Body) Mode() Mode { return b.mode }

// Shape returns the collision shape, or nil for point bodies
func (b *Body) Shape() *Shape { return b.shape }

// Material returns the shape's material, or nil for point bodies
func (b *Body) Material() *Material {
	if b.shape == nil {
		return nil
	}
	return b.shape.Material
}

// IsImmovable reports whether forces and impulses have no effect
func (b *Body) IsImmovable() bool {
	return b.mode == ModeStatic || math.IsInf(b.mass, 1)
}

// InverseMass returns 1/mass, zero for immovable bodies
func (b *Body) InverseMass() float64 {
	if b.IsImmovable() {
		return 0
	}
	return inverse(b.mass)
}

// InverseMoment returns 1/moment, zero for static bodies or an
// infinite moment
func (b *Body) InverseMoment() float64 {
	if b.mode == ModeStatic {
		return 0
	}
	return inverse(b.moment)
}

// State returns the committed state
func (b *Body) State() State { return b.committed }

// PendingState returns the in-progress state of the current step
func (b *Body) PendingState() State { return b.pending }

// Position returns the committed position
func (b *Body) Position() physics.Vector2D { return b.committed.Position }

// Velocity returns the committed velocity
func (b *Body) Velocity() physics.Vector2D { return b.committed.Velocity }

// Orientation returns the committed orientation in radians
func (b *Body) Orientation() float64 { return b.committed.Orientation }

// AngularVelocity returns the committed angular velocity
func (b *Body) AngularVelocity() float64 { return b.committed.AngularVelocity }

// SetState overwrites committed and pending state. Static bodies keep
// zero velocity and orientation.
func (b *Body) SetState(s State) {
	if b.mode == ModeStatic {
		s = State{Position: s.Position}
	}
	b.committed = s
	b.pending = s
}

// SetPosition moves the body outside of a step
func (b *Body) SetPosition(p physics.Vector2D) {
	b.committed.Position = p
	b.pending.Position = p
}

// SetVelocity sets the linear velocity outside of a step.
// Ignored for static bodies.
func (b *Body) SetVelocity(v physics.Vector2D) {
	if b.mode == ModeStatic {
		return
	}
	b.committed.Velocity = v
	b.pending.Velocity = v
}

// SetAngularVelocity sets the angular velocity outside of a step.
// Ignored for static bodies.
func (b *Body) SetAngularVelocity(w float64) {
	if b.mode == ModeStatic {
		return
	}
	b.committed.AngularVelocity = w
	b.pending.AngularVelocity = w
}

// Transform returns the local-to-world transform of the committed state
func (b *Body) Transform() physics.Transform {
	return physics.NewTransform(b.committed.Position, b.committed.Orientation)
}

// WorldPolygon returns the shape's vertices in world space, or nil for
// point bodies
func (b *Body) WorldPolygon() physics.Polygon {
	if b.shape == nil {
		return nil
	}
	return b.Transform().ApplyPolygon(b.shape.Polygon)
}

// WorldPoint maps a point in the body's local frame to world space
func (b *Body) WorldPoint(local physics.Vector2D) physics.Vector2D {
	return b.Transform().Apply(local)
}

// BeginStep copies committed into pending and clears pending accelerations
func (b *Body) BeginStep() {
	b.pending = b.committed
	b.pending.Acceleration = physics.Vector2D{}
	b.pending.AngularAcceleration = 0
}

// AddPendingAcceleration accumulates linear acceleration for this step
func (b *Body) AddPendingAcceleration(a physics.Vector2D) {
	if b.IsImmovable() {
		return
	}
	b.pending.Acceleration = b.pending.Acceleration.Add(a)
}

// AddPendingAngularAcceleration accumulates angular acceleration for this step
func (b *Body) AddPendingAngularAcceleration(alpha float64) {
	if b.IsImmovable() {
		return
	}
	b.pending.AngularAcceleration += alpha
}

// ApplyForce converts a force acting at offset r from the body origin
// into pending linear and angular acceleration.
func (b *Body) ApplyForce(force, r physics.Vector2D) {
	if b.IsImmovable() {
		return
	}
	b.pending.Acceleration = b.pending.Acceleration.Add(force.Scale(b.InverseMass()))
	b.pending.AngularAcceleration += r.Cross(force) * b.InverseMoment()
}

// ApplyImpulse changes pending velocities by an impulse acting at offset
// r from the body origin.
func (b *Body) ApplyImpulse(impulse, r physics.Vector2D) {
	if b.IsImmovable() {
		return
	}
	b.pending.Velocity = b.pending.Velocity.Add(impulse.Scale(b.InverseMass()))
	b.pending.AngularVelocity += r.Cross(impulse) * b.InverseMoment()
}

// PendingVelocityAt returns the pending velocity of the material point at
// offset r: v + w × r.
func (b *Body) PendingVelocityAt(r physics.Vector2D) physics.Vector2D {
	return b.pending.Velocity.Add(physics.CrossScalar(b.pending.AngularVelocity, r))
}

// Translate shifts the pending position
func (b *Body) Translate(offset physics.Vector2D) {
	if b.IsImmovable() {
		return
	}
	b.pending.Position = b.pending.Position.Add(offset)
}

// DampVelocity removes a fraction of the committed velocities from the
// pending ones: v -= v0*linear*dt, w -= w0*angular*dt.
func (b *Body) DampVelocity(linear, angular, dt float64) {
	if b.IsImmovable() {
		return
	}
	b.pending.Velocity = b.pending.Velocity.Sub(b.committed.Velocity.Scale(linear * dt))
	b.pending.AngularVelocity -= b.committed.AngularVelocity * angular * dt
}

// Integrate advances the body by dt with Velocity Verlet and commits the
// pending state. Gravity is added to the pending linear acceleration.
// Immovable bodies are left where they are.
func (b *Body) Integrate(dt float64, gravity physics.Vector2D) {
	if b.IsImmovable() {
		b.pending = b.committed
		return
	}

	p := b.pending
	c := b.committed

	// angular
	w := p.AngularVelocity + (c.AngularAcceleration+p.AngularAcceleration)*dt/2
	theta := p.Orientation + w*dt + p.AngularAcceleration*dt*dt/2

	// linear
	acc := p.Acceleration.Add(gravity)
	v := p.Velocity.Add(c.Acceleration.Add(acc).Scale(dt / 2))
	pos := p.Position.Add(v.Scale(dt)).Add(acc.Scale(dt * dt / 2))

	b.committed = State{
		Position:            pos,
		Velocity:            v,
		Acceleration:        acc,
		Orientation:         theta,
		AngularVelocity:     w,
		AngularAcceleration: p.AngularAcceleration,
	}
	b.pending = b.committed
	b.pending.Acceleration = physics.Vector2D{}
	b.pending.AngularAcceleration = 0
}

// KineticEnergy returns the committed linear plus rotational kinetic
// energy. Immovable bodies have none.
func (b *Body) KineticEnergy() float64 {
	if b.IsImmovable() {
		return 0
	}
	e := 0.5 * b.mass * b.committed.Velocity.LengthSquared()
	if !math.IsInf(b.moment, 1) {
		e += 0.5 * b.moment * b.committed.AngularVelocity * b.committed.AngularVelocity
	}
	return e
}
