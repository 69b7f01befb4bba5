// pkg/entity/body_test.go
package entity

import (
	"errors"
	"math"
	"testing"

	"github.com/opd-ai/go-physbox/pkg/physics"
)

func mustShape(t *testing.T, polygon physics.Polygon, material Material) *Shape {
	t.Helper()
	shape, err := NewShape(polygon, &material)
	if err != nil {
		t.Fatalf("NewShape() unexpected error: %v", err)
	}
	return shape
}

func near(a, b physics.Vector2D) bool {
	return a.Distance(b) < 1e-9
}

func TestNewBody_Validation(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name    string
		mass    float64
		moment  float64
		wantErr error
	}{
		{"finite", 2, 3, nil},
		{"infinite_moment", 1, inf, nil},
		{"infinite_mass", inf, inf, nil},
		{"zero_mass", 0, 1, ErrInvalidMass},
		{"negative_mass", -1, 1, ErrInvalidMass},
		{"nan_mass", math.NaN(), 1, ErrInvalidMass},
		{"zero_moment", 1, 0, ErrInvalidMoment},
		{"nan_moment", 1, math.NaN(), ErrInvalidMoment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := NewBody(physics.Vector2D{}, 0, tt.mass, tt.moment)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewBody() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBody() unexpected error: %v", err)
			}
			if body.Mode() != ModeDynamic {
				t.Errorf("Mode() = %v, want dynamic", body.Mode())
			}
		})
	}
}

func TestBody_UniqueIDs(t *testing.T) {
	a, _ := NewBody(physics.Vector2D{}, 0, 1, 1)
	b, _ := NewBody(physics.Vector2D{}, 0, 1, 1)
	pin := NewPin(physics.Vector2D{})

	if a.ID() == b.ID() || a.ID() == pin.ID() || b.ID() == pin.ID() {
		t.Errorf("IDs not unique: %d, %d, %d", a.ID(), b.ID(), pin.ID())
	}
	if uint64(a.ID()) != a.BasicEntity.ID() {
		t.Errorf("ID() = %d, want the ecs entity id %d", a.ID(), a.BasicEntity.ID())
	}
}

func TestBody_Immovable(t *testing.T) {
	heavy, err := NewBody(physics.Vector2D{X: 1, Y: 2}, 0.5, math.Inf(1), 1)
	if err != nil {
		t.Fatalf("NewBody() unexpected error: %v", err)
	}
	pin := NewPin(physics.Vector2D{X: -3, Y: 4})

	for _, b := range []*Body{heavy, pin} {
		t.Run(b.Mode().String(), func(t *testing.T) {
			before := b.State()
			if !b.IsImmovable() {
				t.Fatal("IsImmovable() = false, want true")
			}
			if b.InverseMass() != 0 {
				t.Errorf("InverseMass() = %v, want 0", b.InverseMass())
			}

			b.BeginStep()
			b.AddPendingAcceleration(physics.Vector2D{X: 100})
			b.AddPendingAngularAcceleration(5)
			b.ApplyImpulse(physics.Vector2D{X: 10, Y: 10}, physics.Vector2D{X: 1})
			b.ApplyForce(physics.Vector2D{Y: 7}, physics.Vector2D{X: 1})
			b.Translate(physics.Vector2D{X: 1})
			b.Integrate(0.1, physics.Vector2D{Y: -9.8})

			if b.State() != before {
				t.Errorf("State() = %+v, want unchanged %+v", b.State(), before)
			}
			if b.KineticEnergy() != 0 {
				t.Errorf("KineticEnergy() = %v, want 0", b.KineticEnergy())
			}
		})
	}
}

func TestBody_StaticIgnoresVelocity(t *testing.T) {
	pin := NewPin(physics.Vector2D{})
	pin.SetVelocity(physics.Vector2D{X: 5})
	pin.SetAngularVelocity(2)
	pin.SetState(State{Position: physics.Vector2D{X: 1}, Orientation: 3, Velocity: physics.Vector2D{Y: 1}})

	s := pin.State()
	if s.Velocity != (physics.Vector2D{}) || s.AngularVelocity != 0 || s.Orientation != 0 {
		t.Errorf("State() = %+v, want only the position set", s)
	}
	if !s.Position.Equal(physics.Vector2D{X: 1}) {
		t.Errorf("Position = %v, want (1, 0)", s.Position)
	}
}

func TestBody_IntegrateVelocityVerlet(t *testing.T) {
	body, _ := NewBody(physics.Vector2D{}, 0, 1, 1)
	gravity := physics.Vector2D{Y: -10}

	steps := []struct {
		position physics.Vector2D
		velocity physics.Vector2D
	}{
		// v += (a_old + a_new)*dt/2; x += v*dt + a_new*dt^2/2
		{physics.Vector2D{Y: -0.1}, physics.Vector2D{Y: -0.5}},
		{physics.Vector2D{Y: -0.3}, physics.Vector2D{Y: -1.5}},
		{physics.Vector2D{Y: -0.6}, physics.Vector2D{Y: -2.5}},
	}

	for i, want := range steps {
		body.BeginStep()
		body.Integrate(0.1, gravity)

		if !near(body.Position(), want.position) {
			t.Errorf("step %d: Position() = %v, want %v", i+1, body.Position(), want.position)
		}
		if !near(body.Velocity(), want.velocity) {
			t.Errorf("step %d: Velocity() = %v, want %v", i+1, body.Velocity(), want.velocity)
		}
		if !near(body.State().Acceleration, gravity) {
			t.Errorf("step %d: Acceleration = %v, want %v", i+1, body.State().Acceleration, gravity)
		}
	}
}

func TestBody_IntegrateAngular(t *testing.T) {
	body, _ := NewBody(physics.Vector2D{}, 0, 1, 2)

	body.BeginStep()
	// unit force along +y at (1, 0): torque 1, alpha 0.5
	body.ApplyForce(physics.Vector2D{Y: 1}, physics.Vector2D{X: 1})
	if got := body.PendingState().AngularAcceleration; math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("pending angular acceleration = %v, want 0.5", got)
	}
	body.Integrate(1, physics.Vector2D{})

	// w = 0 + (0 + 0.5)/2 = 0.25; theta = 0.25 + 0.5/2 = 0.5
	if math.Abs(body.AngularVelocity()-0.25) > 1e-12 {
		t.Errorf("AngularVelocity() = %v, want 0.25", body.AngularVelocity())
	}
	if math.Abs(body.Orientation()-0.5) > 1e-12 {
		t.Errorf("Orientation() = %v, want 0.5", body.Orientation())
	}
	if body.PendingState().AngularAcceleration != 0 {
		t.Error("pending angular acceleration not reset after Integrate")
	}
}

func TestBody_ApplyImpulse(t *testing.T) {
	body, _ := NewBody(physics.Vector2D{}, 0, 2, 4)
	body.BeginStep()
	body.ApplyImpulse(physics.Vector2D{X: 0, Y: 8}, physics.Vector2D{X: 2})

	p := body.PendingState()
	if !near(p.Velocity, physics.Vector2D{Y: 4}) {
		t.Errorf("pending velocity = %v, want (0, 4)", p.Velocity)
	}
	// r x J = 2*8 = 16, / I = 4
	if math.Abs(p.AngularVelocity-4) > 1e-12 {
		t.Errorf("pending angular velocity = %v, want 4", p.AngularVelocity)
	}
	if body.Velocity() != (physics.Vector2D{}) {
		t.Error("ApplyImpulse() changed committed velocity")
	}

	v := body.PendingVelocityAt(physics.Vector2D{X: 0, Y: 1})
	if !near(v, physics.Vector2D{X: -4, Y: 4}) {
		t.Errorf("PendingVelocityAt() = %v, want (-4, 4)", v)
	}
}

func TestBody_DampVelocity(t *testing.T) {
	body, _ := NewBody(physics.Vector2D{}, 0, 1, 1)
	body.SetVelocity(physics.Vector2D{X: 10})
	body.SetAngularVelocity(4)

	body.BeginStep()
	body.DampVelocity(0.5, 0.25, 0.1)

	p := body.PendingState()
	if !near(p.Velocity, physics.Vector2D{X: 9.5}) {
		t.Errorf("pending velocity = %v, want (9.5, 0)", p.Velocity)
	}
	if math.Abs(p.AngularVelocity-3.9) > 1e-12 {
		t.Errorf("pending angular velocity = %v, want 3.9", p.AngularVelocity)
	}
}

func TestBody_WorldPolygon(t *testing.T) {
	shape := mustShape(t, physics.Box(2, 2), Wood)
	body, err := NewCollider(shape, physics.Vector2D{X: 10}, math.Pi/2, 1, 1)
	if err != nil {
		t.Fatalf("NewCollider() unexpected error: %v", err)
	}

	world := body.WorldPolygon()
	// (-1,-1) rotated a quarter turn is (1,-1)
	if !near(world[0], physics.Vector2D{X: 11, Y: -1}) {
		t.Errorf("WorldPolygon()[0] = %v, want (11, -1)", world[0])
	}
	if err := physics.ValidatePolygon(world); err != nil {
		t.Errorf("WorldPolygon() invalid: %v", err)
	}

	point, _ := NewBody(physics.Vector2D{}, 0, 1, 1)
	if point.WorldPolygon() != nil {
		t.Error("WorldPolygon() of a point body should be nil")
	}
}

func TestNewColliderFromDensity(t *testing.T) {
	shape := mustShape(t, physics.Box(2, 3), Material{Name: "dense", Density: 2})
	body, err := NewColliderFromDensity(shape, physics.Vector2D{}, 0)
	if err != nil {
		t.Fatalf("NewColliderFromDensity() unexpected error: %v", err)
	}
	if math.Abs(body.Mass()-12) > 1e-9 {
		t.Errorf("Mass() = %v, want 12", body.Mass())
	}
	// m(w^2+h^2)/12
	if math.Abs(body.Moment()-13) > 1e-9 {
		t.Errorf("Moment() = %v, want 13", body.Moment())
	}

	weightless := mustShape(t, physics.Box(1, 1), Material{Name: "ghost"})
	if _, err := NewColliderFromDensity(weightless, physics.Vector2D{}, 0); !errors.Is(err, ErrInvalidMass) {
		t.Errorf("NewColliderFromDensity() error = %v, want ErrInvalidMass", err)
	}
}

func TestNewStaticCollider(t *testing.T) {
	shape := mustShape(t, physics.Box(100, 1), Steel)
	floor, err := NewStaticCollider(shape, physics.Vector2D{Y: -5})
	if err != nil {
		t.Fatalf("NewStaticCollider() unexpected error: %v", err)
	}
	if floor.Mode() != ModeStatic || !floor.IsImmovable() {
		t.Errorf("Mode() = %v, IsImmovable() = %v, want static and immovable", floor.Mode(), floor.IsImmovable())
	}
	if floor.Material() != shape.Material {
		t.Error("Material() does not return the shape's material")
	}

	if _, err := NewStaticCollider(nil, physics.Vector2D{}); !errors.Is(err, ErrNoShape) {
		t.Errorf("NewStaticCollider(nil) error = %v, want ErrNoShape", err)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeDynamic, ModeStatic} {
		got, ok := ParseMode(m.String())
		if !ok || got != m {
			t.Errorf("ParseMode(%q) = %v, %v, want %v, true", m.String(), got, ok, m)
		}
	}
	if _, ok := ParseMode("kinematic"); ok {
		t.Error("ParseMode(\"kinematic\") ok = true, want false")
	}
}
