// pkg/entity/spring.go
package entity

import (
	"fmt"
	"math"

	"github.com/opd-ai/go-physbox/pkg/physics"
)

// Spring connects two bodies by handle. Joins are attachment points in
// each body's local frame. Slack and LastForce are diagnostics written by
// the engine every step.
type Spring struct {
	End1        ID               `json:"end1"`
	End2        ID               `json:"end2"`
	Stiffness   float64          `json:"stiffness"`
	SlackLength float64          `json:"slackLength"`
	End1Join    physics.Vector2D `json:"end1Join"`
	End2Join    physics.Vector2D `json:"end2Join"`

	Slack     bool             `json:"-"`
	LastForce physics.Vector2D `json:"-"`
}

// NewSpring creates a spring between the origins of two bodies
func NewSpring(stiffness, slackLength float64, end1, end2 *Body) (*Spring, error) {
	if end1 == nil || end2 == nil {
		return nil, fmt.Errorf("missing end: %w", ErrInvalidSpring)
	}
	s := &Spring{
		End1:        end1.ID(),
		End2:        end2.ID(),
		Stiffness:   stiffness,
		SlackLength: slackLength,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// WithJoins sets the local attachment points and returns the spring
func (s *Spring) WithJoins(end1Join, end2Join physics.Vector2D) *Spring {
	s.End1Join = end1Join
	s.End2Join = end2Join
	return s
}

// Validate checks the spring parameters
func (s *Spring) Validate() error {
	if s.End1 == s.End2 {
		return fmt.Errorf("body %d: %w", s.End1, ErrSelfSpring)
	}
	if math.IsNaN(s.Stiffness) || math.IsInf(s.Stiffness, 0) || s.Stiffness < 0 {
		return fmt.Errorf("stiffness %v: %w", s.Stiffness, ErrInvalidSpring)
	}
	if math.IsNaN(s.SlackLength) || math.IsInf(s.SlackLength, 0) || s.SlackLength < 0 {
		return fmt.Errorf("slack length %v: %w", s.SlackLength, ErrInvalidSpring)
	}
	if !s.End1Join.IsFinite() || !s.End2Join.IsFinite() {
		return fmt.Errorf("non-finite join: %w", ErrInvalidSpring)
	}
	return nil
}

// Connects reports whether id is one of the spring's ends
func (s *Spring) Connects(id ID) bool {
	return s.End1 == id || s.End2 == id
}
