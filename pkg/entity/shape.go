// pkg/entity/shape.go
package entity

import (
	"fmt"
	"sync/atomic"

	"github.com/opd-ai/go-physbox/pkg/physics"
)

// ShapeID identifies a shape so bodies can share geometry
type ShapeID uint64

var shapeCounter uint64

// Shape is a convex polygon in a body's local frame plus its material.
// Several bodies may share one Shape.
type Shape struct {
	ID       ShapeID
	Polygon  physics.Polygon
	Material *Material
}

// NewShape validates the polygon and material and assigns a fresh ShapeID.
// The polygon is copied.
func NewShape(polygon physics.Polygon, material *Material) (*Shape, error) {
	if err := physics.ValidatePolygon(polygon); err != nil {
		return nil, fmt.Errorf("shape polygon: %w", err)
	}
	if err := material.Validate(); err != nil {
		return nil, err
	}
	return &Shape{
		ID:       ShapeID(atomic.AddUint64(&shapeCounter, 1)),
		Polygon:  polygon.Clone(),
		Material: material,
	}, nil
}

// Area returns the polygon area
func (s *Shape) Area() float64 {
	return s.Polygon.Area()
}
