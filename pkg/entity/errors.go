// pkg/entity/errors.go
package entity

import "errors"

var (
	// ErrInvalidMass is returned for a zero, negative or NaN mass
	ErrInvalidMass = errors.New("mass must be positive or +Inf")
	// ErrInvalidMoment is returned for a zero, negative or NaN moment of inertia
	ErrInvalidMoment = errors.New("moment of inertia must be positive or +Inf")
	// ErrInvalidMaterial is returned for negative or non-finite material coefficients
	ErrInvalidMaterial = errors.New("invalid material")
	// ErrSelfSpring is returned when both spring ends are the same body
	ErrSelfSpring = errors.New("spring ends must be different bodies")
	// ErrInvalidSpring is returned for negative stiffness or slack length, or a missing end
	ErrInvalidSpring = errors.New("invalid spring")
	// ErrNoShape is returned when a collider is built without a shape
	ErrNoShape = errors.New("collider requires a shape")
)
