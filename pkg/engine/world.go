// pkg/engine/world.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/opd-ai/go-physbox/pkg/config"
	"github.com/opd-ai/go-physbox/pkg/entity"
	"github.com/opd-ai/go-physbox/pkg/event"
	"github.com/opd-ai/go-physbox/pkg/logging"
	"github.com/opd-ai/go-physbox/pkg/physics"
)

// World errors
var (
	ErrTypeMismatch     = errors.New("item is neither a body nor a spring")
	ErrUnknownEntity    = errors.New("body is not in the world")
	ErrDuplicate        = errors.New("item is already in the world")
	ErrNegativeTimeStep = errors.New("time step must be a finite non-negative number")
	ErrReentrantStep    = errors.New("world is already stepping")
)

// World owns the bodies and springs of a simulation and advances them
// with Update. Bodies and springs are kept in insertion order, which
// fixes the order of spring forces and collision pairs.
//
// A World is not safe for concurrent use. Event handlers run
// synchronously inside Update and must not mutate the world.
type World struct {
	bodies  []*entity.Body
	index   map[entity.ID]int
	springs []*entity.Spring

	gravity  physics.Vector2D
	physics  config.PhysicsConfig
	step     uint64
	impulses *impulseLog
	stats    physics.Stats

	spatial      *physics.QuadTree
	spatialDirty bool

	logger   *logging.Logger
	eventBus *event.Bus
	ctx      context.Context
	stepping bool
}

// Option configures a World
type Option func(*World)

// WithLogger sets the logger used for membership and step messages
func WithLogger(logger *logging.Logger) Option {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithPhysicsConfig sets gravity, damping, positional correction and
// impulse log parameters
func WithPhysicsConfig(cfg config.PhysicsConfig) Option {
	return func(w *World) {
		w.physics = cfg
		w.gravity = physics.Vector2D{X: cfg.GravityX, Y: cfg.GravityY}
	}
}

// WithEventBus publishes world events on bus instead of a private one
func WithEventBus(bus *event.Bus) Option {
	return func(w *World) {
		if bus != nil {
			w.eventBus = bus
		}
	}
}

// WithContext sets the context whose run ID is attached to log entries
func WithContext(ctx context.Context) Option {
	return func(w *World) {
		if ctx != nil {
			w.ctx = ctx
		}
	}
}

// NewWorld creates an empty world
func NewWorld(opts ...Option) *World {
	w := &World{
		index:        make(map[entity.ID]int),
		physics:      config.DefaultPhysicsConfig(),
		logger:       logging.NewLogger(),
		eventBus:     event.NewEventBus(),
		ctx:          context.Background(),
		spatialDirty: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.impulses = newImpulseLog(w.physics.ImpulseLogCapacity, w.physics.ImpulseLifetime)
	return w
}

// EventBus returns the bus the world publishes on
func (w *World) EventBus() *event.Bus {
	return w.eventBus
}

// PhysicsConfig returns the world's physics parameters
func (w *World) PhysicsConfig() config.PhysicsConfig {
	return w.physics
}

// Gravity returns the uniform acceleration applied to dynamic bodies
func (w *World) Gravity() physics.Vector2D {
	return w.gravity
}

// SetGravity changes gravity from the next step on
func (w *World) SetGravity(g physics.Vector2D) {
	w.gravity = g
	w.physics.GravityX, w.physics.GravityY = g.X, g.Y
}

// Add adds bodies and springs in argument order. Bodies should come
// before the springs that reference them. It stops at the first item
// that fails; earlier items stay added.
func (w *World) Add(items ...any) error {
	for i, item := range items {
		var err error
		switch v := item.(type) {
		case *entity.Body:
			err = w.AddEntity(v)
		case *entity.Spring:
			err = w.AddSpring(v)
		default:
			err = fmt.Errorf("item %d (%T): %w", i, item, ErrTypeMismatch)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Remove removes bodies and springs in argument order, stopping at the
// first item that fails
func (w *World) Remove(items ...any) error {
	for i, item := range items {
		var err error
		switch v := item.(type) {
		case *entity.Body:
			err = w.RemoveEntity(v)
		case *entity.Spring:
			err = w.RemoveSpring(v)
		default:
			err = fmt.Errorf("item %d (%T): %w", i, item, ErrTypeMismatch)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// AddEntity appends bodies to the world. Every body is checked first;
// on error nothing is added.
func (w *World) AddEntity(bodies ...*entity.Body) error {
	if w.stepping {
		return ErrReentrantStep
	}
	seen := make(map[entity.ID]bool, len(bodies))
	for _, b := range bodies {
		if b == nil {
			return fmt.Errorf("nil body: %w", ErrTypeMismatch)
		}
		if _, exists := w.index[b.ID()]; exists || seen[b.ID()] {
			return fmt.Errorf("body %d: %w", b.ID(), ErrDuplicate)
		}
		seen[b.ID()] = true
	}

	for _, b := range bodies {
		w.index[b.ID()] = len(w.bodies)
		w.bodies = append(w.bodies, b)
		w.spatialDirty = true

		w.logger.Info(w.ctx, "body added", "body_id", uint64(b.ID()), "mode", b.Mode().String(), "mass", b.Mass())
		w.eventBus.Publish(event.NewBodyEvent(event.BodyAdded, w, uint64(b.ID())))
	}
	return nil
}

// RemoveEntity removes bodies and every spring attached to them. Every
// body is checked first; on error nothing is removed.
func (w *World) RemoveEntity(bodies ...*entity.Body) error {
	if w.stepping {
		return ErrReentrantStep
	}
	seen := make(map[entity.ID]bool, len(bodies))
	for _, b := range bodies {
		if b == nil {
			return fmt.Errorf("nil body: %w", ErrTypeMismatch)
		}
		if _, exists := w.index[b.ID()]; !exists || seen[b.ID()] {
			return fmt.Errorf("body %d: %w", b.ID(), ErrUnknownEntity)
		}
		seen[b.ID()] = true
	}

	for _, b := range bodies {
		i := w.index[b.ID()]

		kept := w.springs[:0]
		var dropped []*entity.Spring
		for _, s := range w.springs {
			if s.Connects(b.ID()) {
				dropped = append(dropped, s)
				continue
			}
			kept = append(kept, s)
		}
		clear(w.springs[len(kept):])
		w.springs = kept

		w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
		w.reindex()
		w.spatialDirty = true

		for _, s := range dropped {
			w.eventBus.Publish(event.NewSpringEvent(event.SpringRemoved, w, uint64(s.End1), uint64(s.End2)))
		}
		w.logger.Info(w.ctx, "body removed", "body_id", uint64(b.ID()), "springs_removed", len(dropped))
		w.eventBus.Publish(event.NewBodyEvent(event.BodyRemoved, w, uint64(b.ID())))
	}
	return nil
}

// AddSpring appends springs whose ends are already in the world. Every
// spring is checked first; on error nothing is added.
func (w *World) AddSpring(springs ...*entity.Spring) error {
	if w.stepping {
		return ErrReentrantStep
	}
	for i, s := range springs {
		if s == nil {
			return fmt.Errorf("nil spring: %w", ErrTypeMismatch)
		}
		if err := s.Validate(); err != nil {
			return err
		}
		for _, end := range []entity.ID{s.End1, s.End2} {
			if _, exists := w.index[end]; !exists {
				return fmt.Errorf("spring end %d: %w", end, ErrUnknownEntity)
			}
		}
		if w.springIndex(s) >= 0 || slices.Contains(springs[:i], s) {
			return fmt.Errorf("spring %d-%d: %w", s.End1, s.End2, ErrDuplicate)
		}
	}

	for _, s := range springs {
		w.springs = append(w.springs, s)
		w.logger.Info(w.ctx, "spring added", "end1", uint64(s.End1), "end2", uint64(s.End2), "stiffness", s.Stiffness)
		w.eventBus.Publish(event.NewSpringEvent(event.SpringAdded, w, uint64(s.End1), uint64(s.End2)))
	}
	return nil
}

// RemoveSpring removes springs from the world. Every spring is checked
// first; on error nothing is removed.
func (w *World) RemoveSpring(springs ...*entity.Spring) error {
	if w.stepping {
		return ErrReentrantStep
	}
	for i, s := range springs {
		if s == nil {
			return fmt.Errorf("nil spring: %w", ErrTypeMismatch)
		}
		if w.springIndex(s) < 0 || slices.Contains(springs[:i], s) {
			return fmt.Errorf("spring %d-%d: %w", s.End1, s.End2, ErrUnknownEntity)
		}
	}

	for _, s := range springs {
		i := w.springIndex(s)
		w.springs = append(w.springs[:i], w.springs[i+1:]...)
		w.logger.Info(w.ctx, "spring removed", "end1", uint64(s.End1), "end2", uint64(s.End2))
		w.eventBus.Publish(event.NewSpringEvent(event.SpringRemoved, w, uint64(s.End1), uint64(s.End2)))
	}
	return nil
}

// Clear removes every body and spring and resets the step counter
func (w *World) Clear() error {
	if w.stepping {
		return ErrReentrantStep
	}
	w.bodies = nil
	w.springs = nil
	w.index = make(map[entity.ID]int)
	w.step = 0
	w.stats = physics.Stats{}
	w.impulses.reset()
	w.spatialDirty = true

	w.logger.Info(w.ctx, "world cleared")
	w.eventBus.Publish(&event.BaseEvent{EventType: event.SimulationReset, Source: w})
	return nil
}

func (w *World) springIndex(s *entity.Spring) int {
	for i, existing := range w.springs {
		if existing == s {
			return i
		}
	}
	return -1
}

func (w *World) reindex() {
	clear(w.index)
	for i, b := range w.bodies {
		w.index[b.ID()] = i
	}
}

func (w *World) lookup(id entity.ID) *entity.Body {
	i, ok := w.index[id]
	if !ok {
		return nil
	}
	return w.bodies[i]
}

// Update advances the world by dt seconds:
//
//  1. damping of pending velocities
//  2. spring forces
//  3. collision impulses for every pair, then positional correction
//  4. angular and linear Velocity Verlet integration
//
// Bodies read the committed state of the previous step throughout and
// write only their pending state until integration commits it.
func (w *World) Update(dt float64) error {
	if w.stepping {
		return ErrReentrantStep
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return fmt.Errorf("dt = %v: %w", dt, ErrNegativeTimeStep)
	}

	w.stepping = true
	defer func() { w.stepping = false }()

	w.impulses.age()
	for _, b := range w.bodies {
		b.BeginStep()
	}

	w.applyDamping(dt)
	w.applySpringForces()

	contacts, err := w.resolveCollisions()
	if err != nil {
		return logging.WrapError(err, "step %d collisions", w.step+1)
	}

	for _, b := range w.bodies {
		b.Integrate(dt, w.gravity)
	}
	w.spatialDirty = true
	w.step++

	for _, c := range contacts {
		w.eventBus.Publish(c.event(w))
	}

	stepEvent := event.NewStepEvent(w, w.step, dt)
	stepEvent.Contacts = len(contacts)
	stepEvent.Candidates = w.stats.CandidatePairs
	w.eventBus.Publish(stepEvent)

	if w.logger.DebugEnabled(w.ctx) {
		w.logger.Debug(w.ctx, "step completed",
			"step", w.step,
			"dt", dt,
			"bodies", len(w.bodies),
			"springs", len(w.springs),
			"candidate_pairs", w.stats.CandidatePairs,
			"aabb_rejected", w.stats.AABBRejected,
			"contacts", len(contacts),
			"kinetic_energy", w.KineticEnergy(),
		)
	}
	return nil
}

func (w *World) applyDamping(dt float64) {
	if w.physics.LinearDamping == 0 && w.physics.AngularDamping == 0 {
		return
	}
	for _, b := range w.bodies {
		b.DampVelocity(w.physics.LinearDamping, w.physics.AngularDamping, dt)
	}
}

// KineticEnergy sums the committed kinetic energy of every body
func (w *World) KineticEnergy() float64 {
	var e float64
	for _, b := range w.bodies {
		e += b.KineticEnergy()
	}
	return e
}
