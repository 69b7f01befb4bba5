// pkg/entity/entity.go
package entity

import (
	"math"

	"github.com/opd-ai/go-physbox/pkg/physics"
)

// ID is a unique identifier for a body
type ID uint64

// Mode selects how the engine treats a body
type Mode int

const (
	// ModeDynamic bodies respond to forces, impulses and gravity
	ModeDynamic Mode = iota
	// ModeStatic bodies are frozen in place with infinite mass and moment
	ModeStatic
)

// String returns the mode name used in logs and snapshots
func (m Mode) String() string {
	switch m {
	case ModeDynamic:
		return "dynamic"
	case ModeStatic:
		return "static"
	default:
		return "unknown"
	}
}

// ParseMode is the inverse of Mode.String
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "dynamic":
		return ModeDynamic, true
	case "static":
		return ModeStatic, true
	default:
		return ModeDynamic, false
	}
}

// State holds the linear and angular kinematics of a body at one instant
type State struct {
	Position            physics.Vector2D `json:"position"`
	Velocity            physics.Vector2D `json:"velocity"`
	Acceleration        physics.Vector2D `json:"acceleration"`
	Orientation         float64          `json:"orientation"`
	AngularVelocity     float64          `json:"angularVelocity"`
	AngularAcceleration float64          `json:"angularAcceleration"`
}

func validMass(m float64) bool {
	return !math.IsNaN(m) && m > 0
}

func inverse(m float64) float64 {
	if math.IsInf(m, 1) {
		return 0
	}
	return 1 / m
}
