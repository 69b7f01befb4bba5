// pkg/physics/polygon.go
package physics

import (
	"fmt"
	"math"
)

// Polygon is an ordered, counter-clockwise list of vertices describing a
// convex shape. Edge i runs from vertex i to vertex (i+1) mod n.
type Polygon []Vector2D

// ValidatePolygon checks the preconditions every SAT routine relies on:
// at least three vertices, no zero-length edge, convex, counter-clockwise.
func ValidatePolygon(p Polygon) error {
	n := len(p)
	if n < 3 {
		return fmt.Errorf("%d vertices: %w", n, ErrTooFewVertices)
	}

	for i := 0; i < n; i++ {
		if !p[i].IsFinite() {
			return fmt.Errorf("vertex %d is %v: %w", i, p[i], ErrDegenerateEdge)
		}
		if p.Edge(i).LengthSquared() == 0 {
			return fmt.Errorf("edge %d: %w", i, ErrDegenerateEdge)
		}
	}

	if p.Area() <= 0 {
		return ErrClockwise
	}

	for i := 0; i < n; i++ {
		turn := p.Edge(i).Cross(p.Edge((i + 1) % n))
		if turn < 0 {
			return fmt.Errorf("turn at vertex %d: %w", (i+1)%n, ErrNotConvex)
		}
	}
	return nil
}

// Edge returns the vector from vertex i to vertex i+1 (wrapping)
func (p Polygon) Edge(i int) Vector2D {
	return p[(i+1)%len(p)].Sub(p[i])
}

// EdgeNormal returns the outward unit normal of edge i: the edge vector
// rotated by -90 degrees and normalized.
func (p Polygon) EdgeNormal(i int) (Vector2D, error) {
	edge := p.Edge(i)
	n, err := Vector2D{X: edge.Y, Y: -edge.X}.Unit()
	if err != nil {
		return Vector2D{}, fmt.Errorf("edge %d: %w", i, ErrDegenerateEdge)
	}
	return n, nil
}

// Area returns the signed area (positive for counter-clockwise winding)
func (p Polygon) Area() float64 {
	var sum float64
	for i := range p {
		sum += p[i].Cross(p[(i+1)%len(p)])
	}
	return sum / 2
}

// Centroid returns the area centroid of the polygon
func (p Polygon) Centroid() Vector2D {
	var sum Vector2D
	var area float64
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		c := a.Cross(b)
		area += c
		sum = sum.Add(a.Add(b).Scale(c))
	}
	if area == 0 {
		return p.mean()
	}
	return sum.Scale(1 / (3 * area))
}

func (p Polygon) mean() Vector2D {
	var sum Vector2D
	for _, v := range p {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(p)))
}

// MomentOfInertia returns the moment of a solid polygon of the given
// mass about the local origin.
func (p Polygon) MomentOfInertia(mass float64) float64 {
	var num, den float64
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		c := math.Abs(a.Cross(b))
		num += c * (a.Dot(a) + a.Dot(b) + b.Dot(b))
		den += c
	}
	if den == 0 {
		return 0
	}
	return mass * num / (6 * den)
}

// Recentered returns a copy translated so the centroid sits at the origin
func (p Polygon) Recentered() Polygon {
	c := p.Centroid()
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = v.Sub(c)
	}
	return out
}

// Clone returns an independent copy of the vertex list
func (p Polygon) Clone() Polygon {
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// Box returns a counter-clockwise rectangle of the given size centred on
// the origin.
func Box(width, height float64) Polygon {
	w, h := width/2, height/2
	return Polygon{
		{X: -w, Y: -h},
		{X: w, Y: -h},
		{X: w, Y: h},
		{X: -w, Y: h},
	}
}

// RegularPolygon returns a regular polygon with the given circumradius,
// first vertex on the positive x axis.
func RegularPolygon(radius float64, sides int) (Polygon, error) {
	if sides < 3 {
		return nil, fmt.Errorf("%d sides: %w", sides, ErrTooFewVertices)
	}
	p := make(Polygon, sides)
	for i := range p {
		p[i] = FromAngle(2*math.Pi*float64(i)/float64(sides), radius)
	}
	return p, nil
}
