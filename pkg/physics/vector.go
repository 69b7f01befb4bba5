// pkg/physics/vector.go
package physics

import (
	"fmt"
	"math"
)

// Vector2D represents a 2D vector with x and y components.
// All operations return a new vector; none mutate the receiver.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// String formats the vector for logs and test failures
func (v Vector2D) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Equal reports exact component equality
func (v Vector2D) Equal(other Vector2D) bool {
	return v.X == other.X && v.Y == other.Y
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Div divides the vector by a scalar. A divisor of exactly zero is
// rejected with ErrDivideByZero.
func (v Vector2D) Div(divisor float64) (Vector2D, error) {
	if divisor == 0 {
		return Vector2D{}, fmt.Errorf("divide %v: %w", v, ErrDivideByZero)
	}
	return Vector2D{
		X: v.X / divisor,
		Y: v.Y / divisor,
	}, nil
}

// Neg returns the vector pointing the opposite way
func (v Vector2D) Neg() Vector2D {
	return Vector2D{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product of two vectors
// lying in the plane: x1*y2 - y1*x2.
func (v Vector2D) Cross(other Vector2D) float64 {
	return v.X*other.Y - v.Y*other.X
}

// CrossScalar returns w × v for an angular velocity w, i.e. the linear
// velocity of a point at offset v on a body spinning at w.
func CrossScalar(w float64, v Vector2D) Vector2D {
	return Vector2D{X: -w * v.Y, Y: w * v.X}
}

// Perp returns the vector rotated by +90 degrees
func (v Vector2D) Perp() Vector2D {
	return Vector2D{X: -v.Y, Y: v.X}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the same direction, or the zero
// vector when v has zero length.
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{
		X: v.X / length,
		Y: v.Y / length,
	}
}

// Unit returns a unit vector in the same direction. Unlike Normalize it
// refuses the zero vector.
func (v Vector2D) Unit() (Vector2D, error) {
	return v.Div(v.Length())
}

// Distance returns the distance between two vectors
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// Angle returns the angle of the vector in radians
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// FromAngle creates a vector from an angle and magnitude
func FromAngle(angle float64, magnitude float64) Vector2D {
	return Vector2D{
		X: magnitude * math.Cos(angle),
		Y: magnitude * math.Sin(angle),
	}
}

// Rotate rotates the vector anticlockwise by angle (in radians) around
// the origin.
func (v Vector2D) Rotate(angle float64) Vector2D {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// IsFinite reports whether both components are finite numbers
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
