// pkg/physics/sat.go
package physics

import (
	"fmt"
	"math"
)

// Separation describes the axis of least penetration between two polygons.
// Distance is negative when the polygons overlap; its magnitude is then
// the penetration depth along Normal.
type Separation struct {
	Distance float64
	Normal   Vector2D
	// Edge is the index of the reference edge on the polygon that owns
	// the axis.
	Edge int
	// Vertex is the index of the support vertex on the other polygon.
	Vertex int
	// Reference is 1 when the axis came from the first polygon passed to
	// Collide and 2 when it came from the second.
	Reference int
}

// Overlapping reports whether the separation describes interpenetration
func (s Separation) Overlapping() bool {
	return s.Distance < 0
}

// Support returns the vertex of polygon furthest along direction.
// Ties go to the first such vertex in iteration order.
func Support(direction Vector2D, polygon Polygon) Vector2D {
	_, v := supportIndex(direction, polygon)
	return v
}

// DeepestVertex is Support returning the vertex index as well
func DeepestVertex(direction Vector2D, polygon Polygon) (int, Vector2D) {
	return supportIndex(direction, polygon)
}

func supportIndex(direction Vector2D, polygon Polygon) (int, Vector2D) {
	best := -1
	bestProjection := math.Inf(-1)
	for i, v := range polygon {
		projection := v.Dot(direction)
		if best < 0 || projection > bestProjection {
			best = i
			bestProjection = projection
		}
	}
	if best < 0 {
		return -1, Vector2D{}
	}
	return best, polygon[best]
}

// SeparationAlong measures, for every edge of p1, how far p2's deepest
// point along the inward normal lies from that edge, and returns the
// largest such distance. Ties keep the first edge.
func SeparationAlong(p1, p2 Polygon) (Separation, error) {
	if len(p1) < 3 || len(p2) < 3 {
		return Separation{}, ErrTooFewVertices
	}

	result := Separation{Distance: math.Inf(-1), Edge: -1, Vertex: -1, Reference: 1}
	for i := range p1 {
		normal, err := p1.EdgeNormal(i)
		if err != nil {
			return Separation{}, err
		}

		index, support := supportIndex(normal.Neg(), p2)
		distance := normal.Dot(support.Sub(p1[i]))

		if distance > result.Distance {
			result.Distance = distance
			result.Normal = normal
			result.Edge = i
			result.Vertex = index
		}
	}
	return result, nil
}

// Collide runs SeparationAlong both ways and keeps the shallower axis.
// The returned normal always points from p1 towards p2.
func Collide(p1, p2 Polygon) (Separation, error) {
	first, err := SeparationAlong(p1, p2)
	if err != nil {
		return Separation{}, fmt.Errorf("reference polygon 1: %w", err)
	}
	second, err := SeparationAlong(p2, p1)
	if err != nil {
		return Separation{}, fmt.Errorf("reference polygon 2: %w", err)
	}

	if first.Distance > second.Distance {
		return first, nil
	}

	second.Normal = second.Normal.Neg()
	second.Reference = 2
	return second, nil
}

// IncidentNormal picks, of the two incident-polygon edges meeting at
// vertexIndex, the one whose outward normal is most anti-parallel to the
// reference normal. It returns that normal and the edge index.
func IncidentNormal(referenceNormal Vector2D, incident Polygon, vertexIndex int) (Vector2D, int, error) {
	n := len(incident)
	if n < 3 {
		return Vector2D{}, -1, ErrTooFewVertices
	}
	if vertexIndex < 0 || vertexIndex >= n {
		return Vector2D{}, -1, fmt.Errorf("vertex index %d out of range [0,%d)", vertexIndex, n)
	}

	before := (vertexIndex - 1 + n) % n
	after := vertexIndex

	beforeNormal, err := incident.EdgeNormal(before)
	if err != nil {
		return Vector2D{}, -1, err
	}
	afterNormal, err := incident.EdgeNormal(after)
	if err != nil {
		return Vector2D{}, -1, err
	}

	if afterNormal.Dot(referenceNormal) < beforeNormal.Dot(referenceNormal) {
		return afterNormal, after, nil
	}
	return beforeNormal, before, nil
}

// PointToPolygonDistance returns the largest signed distance from point
// to any edge line of polygon. Negative means the point is inside.
func PointToPolygonDistance(point Vector2D, polygon Polygon) (float64, error) {
	if len(polygon) < 3 {
		return 0, ErrTooFewVertices
	}

	best := math.Inf(-1)
	for i := range polygon {
		normal, err := polygon.EdgeNormal(i)
		if err != nil {
			return 0, err
		}
		if d := normal.Dot(point.Sub(polygon[i])); d > best {
			best = d
		}
	}
	return best, nil
}

// ContactPoint estimates a single contact point for two overlapping
// polygons: the mean of p1's vertices strictly inside p2 and p2's
// vertices strictly inside p1. ok is false when no vertex is strictly
// inside, e.g. for edge-on-edge or grazing contact.
func ContactPoint(p1, p2 Polygon) (point Vector2D, ok bool, err error) {
	var sum Vector2D
	count := 0

	for _, v := range p1 {
		d, err := PointToPolygonDistance(v, p2)
		if err != nil {
			return Vector2D{}, false, err
		}
		if d < 0 {
			sum = sum.Add(v)
			count++
		}
	}
	for _, v := range p2 {
		d, err := PointToPolygonDistance(v, p1)
		if err != nil {
			return Vector2D{}, false, err
		}
		if d < 0 {
			sum = sum.Add(v)
			count++
		}
	}

	if count == 0 {
		return Vector2D{}, false, nil
	}
	point, err = sum.Div(float64(count))
	return point, err == nil, err
}

// OverlapContactPoint is ContactPoint for a pair Collide reported as
// overlapping. When no vertex is strictly inside the other polygon, as
// for boxes with aligned faces, it averages the vertices lying on the
// other polygon's boundary instead. ok is false only when neither
// polygon has a vertex inside or on the other, e.g. two triangles
// crossing in a star.
func OverlapContactPoint(p1, p2 Polygon) (point Vector2D, ok bool, err error) {
	point, ok, err = ContactPoint(p1, p2)
	if ok || err != nil {
		return point, ok, err
	}

	var sum Vector2D
	count := 0
	for _, pair := range [2][2]Polygon{{p1, p2}, {p2, p1}} {
		for _, v := range pair[0] {
			d, err := PointToPolygonDistance(v, pair[1])
			if err != nil {
				return Vector2D{}, false, err
			}
			if d <= 0 {
				sum = sum.Add(v)
				count++
			}
		}
	}
	if count == 0 {
		return Vector2D{}, false, nil
	}
	point, err = sum.Div(float64(count))
	return point, err == nil, err
}
