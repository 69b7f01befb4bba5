package physics

import "errors"

// Geometry errors. All of them describe programming errors in the
// caller's input rather than transient conditions.
var (
	ErrDivideByZero   = errors.New("division by zero")
	ErrDegenerateEdge = errors.New("polygon has a zero-length edge")
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")
	ErrNotConvex      = errors.New("polygon is not convex")
	ErrClockwise      = errors.New("polygon vertices are not counter-clockwise")
)
