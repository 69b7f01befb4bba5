// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"
	"time"
)

// TestNewEventBus tests the creation of a new event bus
func TestNewEventBus_Creation_ReturnsInitializedBus(t *testing.T) {
	bus := NewEventBus()

	if bus == nil {
		t.Fatal("NewEventBus() returned nil")
	}

	if bus.handlers == nil {
		t.Error("handlers map not initialized")
	}

	if bus.nextID != 1 {
		t.Errorf("expected nextID to be 1, got %d", bus.nextID)
	}
}

// TestBaseEvent tests the BaseEvent functionality
func TestBaseEvent_GetType_ReturnsCorrectType(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		source    interface{}
	}{
		{
			name:      "BodyAdded event",
			eventType: BodyAdded,
			source:    "test_source",
		},
		{
			name:      "SpringAdded event",
			eventType: SpringAdded,
			source:    123,
		},
		{
			name:      "Empty source",
			eventType: StepCompleted,
			source:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &BaseEvent{
				EventType: tt.eventType,
				Source:    tt.source,
			}

			if event.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", event.GetType(), tt.eventType)
			}

			if event.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", event.GetSource(), tt.source)
			}
		})
	}
}

// TestBusSubscribe tests event subscription functionality
func TestBusSubscribe_SingleHandler_ReturnsValidSubscription(t *testing.T) {
	bus := NewEventBus()

	handler := func(e Event) {
		// Handler for testing subscription
	}

	sub := bus.Subscribe(BodyAdded, handler)

	if sub == nil {
		t.Fatal("Subscribe() returned nil subscription")
	}

	if sub.ID == 0 {
		t.Error("subscription ID should not be 0")
	}

	if sub.Cancel == nil {
		t.Error("subscription Cancel function should not be nil")
	}

	// Verify handler was registered
	bus.mu.RLock()
	handlers := bus.handlers[BodyAdded]
	bus.mu.RUnlock()

	if len(handlers) != 1 {
		t.Errorf("expected 1 handler, got %d", len(handlers))
	}
}

// TestBusSubscribe_MultipleHandlers tests multiple subscriptions
func TestBusSubscribe_MultipleHandlers_AllRegistered(t *testing.T) {
	bus := NewEventBus()
	var callCount int

	handler1 := func(e Event) { callCount++ }
	handler2 := func(e Event) { callCount++ }
	handler3 := func(e Event) { callCount++ }

	sub1 := bus.Subscribe(BodyAdded, handler1)
	sub2 := bus.Subscribe(BodyAdded, handler2)
	_ = bus.Subscribe(SpringAdded, handler3)

	// Check unique IDs
	if sub1.ID == sub2.ID {
		t.Error("subscriptions should have unique IDs")
	}

	// Check handlers count
	bus.mu.RLock()
	shipHandlers := bus.handlers[BodyAdded]
	planetHandlers := bus.handlers[SpringAdded]
	bus.mu.RUnlock()

	if len(shipHandlers) != 2 {
		t.Errorf("expected 2 handlers for BodyAdded, got %d", len(shipHandlers))
	}

	if len(planetHandlers) != 1 {
		t.Errorf("expected 1 handler for SpringAdded, got %d", len(planetHandlers))
	}
}

// TestBusPublish tests event publishing functionality
func TestBusPublish_WithSubscribers_CallsAllHandlers(t *testing.T) {
	bus := NewEventBus()
	var callCount int
	var receivedEvents []Event

	handler1 := func(e Event) {
		callCount++
		receivedEvents = append(receivedEvents, e)
	}

	handler2 := func(e Event) {
		callCount++
		receivedEvents = append(receivedEvents, e)
	}

	bus.Subscribe(BodyAdded, handler1)
	bus.Subscribe(BodyAdded, handler2)

	event := &BaseEvent{
		EventType: BodyAdded,
		Source:    "test",
	}

	bus.Publish(event)

	if callCount != 2 {
		t.Errorf("expected 2 handler calls, got %d", callCount)
	}

	if len(receivedEvents) != 2 {
		t.Errorf("expected 2 received events, got %d", len(receivedEvents))
	}

	for _, e := range receivedEvents {
		if e.GetType() != BodyAdded {
			t.Errorf("expected event type %v, got %v", BodyAdded, e.GetType())
		}
	}
}

// TestBusPublish_NoSubscribers tests publishing without subscribers
func TestBusPublish_NoSubscribers_NoError(t *testing.T) {
	bus := NewEventBus()

	event := &BaseEvent{
		EventType: BodyAdded,
		Source:    "test",
	}

	// Should not panic or error
	bus.Publish(event)
}

// TestBusPublish_WrongEventType tests publishing to non-subscribed event type
func TestBusPublish_WrongEventType_HandlersNotCalled(t *testing.T) {
	bus := NewEventBus()
	handlerCalled := false

	handler := func(e Event) {
		handlerCalled = true
	}

	bus.Subscribe(BodyAdded, handler)

	event := &BaseEvent{
		EventType: SpringAdded,
		Source:    "test",
	}

	bus.Publish(event)

	if handlerCalled {
		t.Error("handler should not have been called for different event type")
	}
}

// TestSubscriptionCancel tests canceling subscriptions
func TestSubscriptionCancel_ValidSubscription_RemovesHandler(t *testing.T) {
	bus := NewEventBus()
	handlerCalled := false

	handler := func(e Event) {
		handlerCalled = true
	}

	sub := bus.Subscribe(BodyAdded, handler)

	// Verify handler is registered
	bus.mu.RLock()
	handlersBefore := len(bus.handlers[BodyAdded])
	bus.mu.RUnlock()

	if handlersBefore != 1 {
		t.Errorf("expected 1 handler before cancel, got %d", handlersBefore)
	}

	// Cancel subscription
	sub.Cancel()

	// Verify handler is removed
	bus.mu.RLock()
	handlersAfter := len(bus.handlers[BodyAdded])
	bus.mu.RUnlock()

	if handlersAfter != 0 {
		t.Errorf("expected 0 handlers after cancel, got %d", handlersAfter)
	}

	// Verify handler is not called after cancellation
	event := &BaseEvent{
		EventType: BodyAdded,
		Source:    "test",
	}

	bus.Publish(event)

	if handlerCalled {
		t.Error("handler should not be called after cancellation")
	}
}

// TestConcurrentAccess tests thread safety
func TestBusSubscribe_ConcurrentAccess_ThreadSafe(t *testing.T) {
	bus := NewEventBus()
	var wg sync.WaitGroup
	handlerCount := 0
	var mu sync.Mutex

	handler := func(e Event) {
		mu.Lock()
		handlerCount++
		mu.Unlock()
	}

	// Start multiple goroutines to subscribe concurrently
	numGoroutines := 10
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			bus.Subscribe(BodyAdded, handler)
		}()
	}

	wg.Wait()

	// Verify all subscriptions were registered
	bus.mu.RLock()
	handlers := bus.handlers[BodyAdded]
	bus.mu.RUnlock()

	if len(handlers) != numGoroutines {
		t.Errorf("expected %d handlers, got %d", numGoroutines, len(handlers))
	}

	// Test concurrent publishing
	event := &BaseEvent{
		EventType: BodyAdded,
		Source:    "test",
	}

	// Publish concurrently
	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func() {
			defer wg.Done()
			bus.Publish(event)
		}()
	}

	wg.Wait()

	// Give handlers time to execute
	time.Sleep(10 * time.Millisecond)

	mu.Lock()
	expectedCalls := numGoroutines * 3
	if handlerCount != expectedCalls {
		t.Errorf("expected %d handler calls, got %d", expectedCalls, handlerCount)
	}
	mu.Unlock()
}

// TestNewBodyEvent tests body event creation
func TestNewBodyEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		source    interface{}
		bodyID    uint64
	}{
		{
			name:      "Body added event",
			eventType: BodyAdded,
			source:    "world",
			bodyID:    12345,
		},
		{
			name:      "Body removed event",
			eventType: BodyRemoved,
			source:    nil,
			bodyID:    67890,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewBodyEvent(tt.eventType, tt.source, tt.bodyID)

			if event == nil {
				t.Fatal("NewBodyEvent() returned nil")
			}

			if event.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", event.GetType(), tt.eventType)
			}

			if event.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", event.GetSource(), tt.source)
			}

			if event.BodyID != tt.bodyID {
				t.Errorf("BodyID = %v, want %v", event.BodyID, tt.bodyID)
			}
		})
	}
}

// TestNewSpringEvent tests spring event creation
func TestNewSpringEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	event := NewSpringEvent(SpringRemoved, "world", 3, 7)

	if event.GetType() != SpringRemoved {
		t.Errorf("GetType() = %v, want %v", event.GetType(), SpringRemoved)
	}

	if event.End1 != 3 || event.End2 != 7 {
		t.Errorf("ends = %v, %v, want 3, 7", event.End1, event.End2)
	}
}

// TestNewCollisionEvent tests collision event creation
func TestNewCollisionEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	source := "resolver"
	bodyA := uint64(100)
	bodyB := uint64(200)

	event := NewCollisionEvent(source, bodyA, bodyB)

	if event == nil {
		t.Fatal("NewCollisionEvent() returned nil")
	}

	if event.GetType() != BodyCollision {
		t.Errorf("GetType() = %v, want %v", event.GetType(), BodyCollision)
	}

	if event.GetSource() != source {
		t.Errorf("GetSource() = %v, want %v", event.GetSource(), source)
	}

	if event.BodyA != bodyA {
		t.Errorf("BodyA = %v, want %v", event.BodyA, bodyA)
	}

	if event.BodyB != bodyB {
		t.Errorf("BodyB = %v, want %v", event.BodyB, bodyB)
	}
}

// TestNewStepEvent tests step event creation
func TestNewStepEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	event := NewStepEvent("world", 42, 0.01)

	if event.GetType() != StepCompleted {
		t.Errorf("GetType() = %v, want %v", event.GetType(), StepCompleted)
	}

	if event.Step != 42 || event.DeltaTime != 0.01 {
		t.Errorf("Step, DeltaTime = %v, %v, want 42, 0.01", event.Step, event.DeltaTime)
	}
}

// TestEventTypes tests that all event type constants are properly defined
func TestEventTypes_Constants_AllDefined(t *testing.T) {
	expectedTypes := []Type{
		BodyAdded,
		BodyRemoved,
		SpringAdded,
		SpringRemoved,
		BodyCollision,
		StepCompleted,
		SimulationReset,
	}

	seen := make(map[Type]bool)
	for _, eventType := range expectedTypes {
		if string(eventType) == "" {
			t.Errorf("event type %v is empty", eventType)
		}
		if seen[eventType] {
			t.Errorf("event type %v is duplicated", eventType)
		}
		seen[eventType] = true
	}
}

// TestHasSubscribers tests subscriber lookup before and after cancellation
func TestHasSubscribers_AfterCancel_ReturnsFalse(t *testing.T) {
	bus := NewEventBus()

	if bus.HasSubscribers(BodyCollision) {
		t.Error("HasSubscribers() = true on an empty bus")
	}

	sub := bus.Subscribe(BodyCollision, func(e Event) {})
	if !bus.HasSubscribers(BodyCollision) {
		t.Error("HasSubscribers() = false after Subscribe")
	}

	sub.Cancel()
	sub.Cancel()
	if bus.HasSubscribers(BodyCollision) {
		t.Error("HasSubscribers() = true after Cancel")
	}
}

// TestCancelMultipleSubscriptions tests canceling multiple subscriptions
func TestCancelMultipleSubscriptions_DifferentTypes_OnlyTargetRemoved(t *testing.T) {
	bus := NewEventBus()

	handler1Called := false
	handler2Called := false
	handler3Called := false

	handler1 := func(e Event) { handler1Called = true }
	handler2 := func(e Event) { handler2Called = true }
	handler3 := func(e Event) { handler3Called = true }

	sub1 := bus.Subscribe(BodyAdded, handler1)
	_ = bus.Subscribe(BodyAdded, handler2)
	_ = bus.Subscribe(SpringAdded, handler3)

	// Cancel only the first subscription
	sub1.Cancel()

	// Publish BodyAdded event
	shipEvent := &BaseEvent{EventType: BodyAdded, Source: "test"}
	bus.Publish(shipEvent)

	// Publish SpringAdded event
	planetEvent := &BaseEvent{EventType: SpringAdded, Source: "test"}
	bus.Publish(planetEvent)

	if handler1Called {
		t.Error("handler1 should not be called after cancellation")
	}

	if !handler2Called {
		t.Error("handler2 should be called")
	}

	if !handler3Called {
		t.Error("handler3 should be called")
	}
}
