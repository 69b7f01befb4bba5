// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	BodyAdded       Type = "body_added"
	BodyRemoved     Type = "body_removed"
	SpringAdded     Type = "spring_added"
	SpringRemoved   Type = "spring_removed"
	BodyCollision   Type = "body_collision"
	StepCompleted   Type = "step_completed"
	SimulationReset Type = "simulation_reset"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is returned by Subscribe. Cancel removes the handler.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type handlerEntry struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine in subscription order.
type Bus struct {
	handlers map[Type][]handlerEntry
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]handlerEntry),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], handlerEntry{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.handlers[eventType]
	for i, e := range entries {
		if e.id == id {
			// copy so a Publish already iterating the old slice is unaffected
			kept := make([]handlerEntry, 0, len(entries)-1)
			kept = append(kept, entries[:i]...)
			b.handlers[eventType] = append(kept, entries[i+1:]...)
			return
		}
	}
}

// HasSubscribers reports whether anything listens for eventType
func (b *Bus) HasSubscribers(eventType Type) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) > 0
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	entries, ok := b.handlers[event.GetType()]
	b.mu.RUnlock()

	if !ok {
		return
	}

	// Call each handler
	for _, e := range entries {
		e.handler(event)
	}
}

// Specific event implementations

// BodyEvent reports a body joining or leaving the world
type BodyEvent struct {
	BaseEvent
	BodyID uint64
}

// NewBodyEvent creates a new body event
func NewBodyEvent(eventType Type, source interface{}, bodyID uint64) *BodyEvent {
	return &BodyEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		BodyID: bodyID,
	}
}

// SpringEvent reports a spring joining or leaving the world
type SpringEvent struct {
	BaseEvent
	End1 uint64
	End2 uint64
}

// NewSpringEvent creates a new spring event
func NewSpringEvent(eventType Type, source interface{}, end1, end2 uint64) *SpringEvent {
	return &SpringEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		End1: end1,
		End2: end2,
	}
}

// CollisionEvent describes one resolved contact. Normal points from
// BodyA to BodyB; Impulse is the normal impulse magnitude applied.
type CollisionEvent struct {
	BaseEvent
	BodyA      uint64
	BodyB      uint64
	PointX     float64
	PointY     float64
	NormalX    float64
	NormalY    float64
	Separation float64
	Impulse    float64
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, bodyA, bodyB uint64) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{
			EventType: BodyCollision,
			Source:    source,
		},
		BodyA: bodyA,
		BodyB: bodyB,
	}
}

// StepEvent is published after every completed world step
type StepEvent struct {
	BaseEvent
	Step       uint64
	DeltaTime  float64
	Contacts   int
	Candidates int
}

// NewStepEvent creates a new step event
func NewStepEvent(source interface{}, step uint64, dt float64) *StepEvent {
	return &StepEvent{
		BaseEvent: BaseEvent{
			EventType: StepCompleted,
			Source:    source,
		},
		Step:      step,
		DeltaTime: dt,
	}
}
