// pkg/entity/material.go
package entity

import (
	"fmt"
	"math"
)

// Material holds the surface and bulk coefficients of a collider.
// Name is the key used in snapshot material tables.
type Material struct {
	Name            string  `json:"name"`
	StaticFriction  float64 `json:"staticFriction"`
	DynamicFriction float64 `json:"dynamicFriction"`
	Restitution     float64 `json:"restitution"`
	Density         float64 `json:"density"`
}

// Validate rejects negative or non-finite coefficients
func (m *Material) Validate() error {
	if m == nil {
		return fmt.Errorf("nil material: %w", ErrInvalidMaterial)
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"static friction", m.StaticFriction},
		{"dynamic friction", m.DynamicFriction},
		{"restitution", m.Restitution},
		{"density", m.Density},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("material %q: %s = %v: %w", m.Name, f.name, f.value, ErrInvalidMaterial)
		}
	}
	return nil
}

// Stock materials used by the demo scenes
var (
	Wood = Material{Name: "wood", StaticFriction: 0.5, DynamicFriction: 0.3, Restitution: 0.3, Density: 0.6}

	Rubber = Material{Name: "rubber", StaticFriction: 1.0, DynamicFriction: 0.8, Restitution: 0.8, Density: 1.1}

	Steel = Material{Name: "steel", StaticFriction: 0.74, DynamicFriction: 0.57, Restitution: 0.6, Density: 7.8}

	Ice = Material{Name: "ice", StaticFriction: 0.1, DynamicFriction: 0.03, Restitution: 0.1, Density: 0.9}

	// Bouncy is perfectly elastic and frictionless
	Bouncy = Material{Name: "bouncy", Restitution: 1, Density: 1}
)
