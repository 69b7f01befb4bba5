package health

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/opd-ai/go-physbox/pkg/engine"
	"github.com/opd-ai/go-physbox/pkg/entity"
)

// Sampler holds the latest facts about a world. Record runs on the
// simulation goroutine; checks read from HTTP handlers.
type Sampler struct {
	mu       sync.RWMutex
	step     uint64
	energy   float64
	diverged entity.ID
	hasBad   bool
	recorded time.Time
	now      func() time.Time
}

// NewSampler creates an empty sampler
func NewSampler() *Sampler {
	return &Sampler{now: time.Now}
}

// Record samples w after a step
func (p *Sampler) Record(w *engine.World) {
	var bad entity.ID
	hasBad := false
	for _, b := range w.Bodies() {
		s := b.State
		if !s.Position.IsFinite() || !s.Velocity.IsFinite() || !finite(s.Orientation) || !finite(s.AngularVelocity) {
			bad, hasBad = b.ID, true
			break
		}
	}
	energy := w.KineticEnergy()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.step = w.Step()
	p.energy = energy
	p.diverged, p.hasBad = bad, hasBad
	p.recorded = p.now()
}

// Step returns the last recorded step
func (p *Sampler) Step() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.step
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// StabilityHealthCheck fails once any body's state is non-finite
type StabilityHealthCheck struct {
	sampler *Sampler
}

// NewStabilityHealthCheck creates a divergence check
func NewStabilityHealthCheck(sampler *Sampler) *StabilityHealthCheck {
	return &StabilityHealthCheck{sampler: sampler}
}

// Name returns the name of this health check.
func (s *StabilityHealthCheck) Name() string {
	return "stability"
}

// Check verifies that every body state is finite.
func (s *StabilityHealthCheck) Check(ctx context.Context) error {
	s.sampler.mu.RLock()
	defer s.sampler.mu.RUnlock()
	if s.sampler.hasBad {
		return fmt.Errorf("body %d diverged at step %d", s.sampler.diverged, s.sampler.step)
	}
	return nil
}

// EnergyHealthCheck fails when kinetic energy exceeds a limit, the usual
// symptom of an unstable spring or time step
type EnergyHealthCheck struct {
	sampler *Sampler
	limit   float64
}

// NewEnergyHealthCheck creates an energy check
func NewEnergyHealthCheck(sampler *Sampler, limit float64) *EnergyHealthCheck {
	return &EnergyHealthCheck{sampler: sampler, limit: limit}
}

// Name returns the name of this health check.
func (e *EnergyHealthCheck) Name() string {
	return "energy"
}

// Check verifies that kinetic energy is within the limit.
func (e *EnergyHealthCheck) Check(ctx context.Context) error {
	e.sampler.mu.RLock()
	defer e.sampler.mu.RUnlock()
	if !(e.sampler.energy <= e.limit) {
		return fmt.Errorf("kinetic energy %v exceeds limit %v at step %d", e.sampler.energy, e.limit, e.sampler.step)
	}
	return nil
}

// ProgressHealthCheck fails when no step has been recorded recently
type ProgressHealthCheck struct {
	sampler *Sampler
	maxAge  time.Duration
}

// NewProgressHealthCheck creates a stall check
func NewProgressHealthCheck(sampler *Sampler, maxAge time.Duration) *ProgressHealthCheck {
	return &ProgressHealthCheck{sampler: sampler, maxAge: maxAge}
}

// Name returns the name of this health check.
func (p *ProgressHealthCheck) Name() string {
	return "progress"
}

// Check verifies that the simulation stepped within maxAge.
func (p *ProgressHealthCheck) Check(ctx context.Context) error {
	p.sampler.mu.RLock()
	defer p.sampler.mu.RUnlock()
	if p.sampler.recorded.IsZero() {
		return fmt.Errorf("no step recorded yet")
	}
	if age := p.sampler.now().Sub(p.sampler.recorded); age > p.maxAge {
		return fmt.Errorf("last step %d was %v ago", p.sampler.step, age.Round(time.Millisecond))
	}
	return nil
}
