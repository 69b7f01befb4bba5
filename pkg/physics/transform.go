package physics

import "github.com/go-gl/mathgl/mgl64"

// Transform maps a body's local frame into world space: rotate about the
// local origin, then translate. Stored as a homogeneous 3x3 matrix.
type Transform struct {
	m mgl64.Mat3
}

// NewTransform builds the local-to-world transform for a body at
// position with the given orientation.
func NewTransform(position Vector2D, angle float64) Transform {
	return Transform{
		m: mgl64.Translate2D(position.X, position.Y).Mul3(mgl64.HomogRotate2D(angle)),
	}
}

// IdentityTransform leaves points unchanged
func IdentityTransform() Transform {
	return Transform{m: mgl64.Ident3()}
}

// Apply maps a local point into world space
func (t Transform) Apply(v Vector2D) Vector2D {
	w := t.m.Mul3x1(mgl64.Vec3{v.X, v.Y, 1})
	return Vector2D{X: w[0], Y: w[1]}
}

// ApplyVector rotates a direction without translating it
func (t Transform) ApplyVector(v Vector2D) Vector2D {
	w := t.m.Mul3x1(mgl64.Vec3{v.X, v.Y, 0})
	return Vector2D{X: w[0], Y: w[1]}
}

// ApplyPolygon maps every vertex of a local polygon into world space.
// The result is a fresh slice.
func (t Transform) ApplyPolygon(p Polygon) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = t.Apply(v)
	}
	return out
}
