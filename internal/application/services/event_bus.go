package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/nexuscrm/hygiene/internal/domain/events"
	"github.com/nexuscrm/hygiene/internal/domain/ports"
)

// EventHandler is the handler type shared with ports
type EventHandler = ports.EventHandler

type subscription struct {
	id      uint64
	handler EventHandler
}

// EventBus is an in-process publish/subscribe bus.
// It implements ports.EventPublisher.
type EventBus struct {
	handlers map[events.EventType][]subscription
	nextID   uint64
	mu       sync.RWMutex
}

var _ ports.EventPublisher = (*EventBus)(nil)

// NewEventBus creates a new EventBus instance
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[events.EventType][]subscription),
	}
}

// Subscribe registers a handler for a specific event type.
// Returns an unsubscribe function.
func (eb *EventBus) Subscribe(eventType events.EventType, handler EventHandler) func() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	id := eb.nextID
	eb.handlers[eventType] = append(eb.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()

		subs := eb.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				eb.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Publish runs every handler for eventType in subscription order and stops
// at the first failure.
func (eb *EventBus) Publish(ctx context.Context, eventType events.EventType, payload interface{}) error {
	eb.mu.RLock()
	subs := eb.handlers[eventType]
	eb.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler(ctx, payload); err != nil {
			return fmt.Errorf("EventBus handler error for %s: %w", eventType, err)
		}
	}
	return nil
}

// Clear removes all handlers
func (eb *EventBus) Clear() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers = make(map[events.EventType][]subscription)
}
