// Package events is a small synchronous pub/sub bus for cross-component
// notifications.
package events

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// EventType represents different types of events in the system.
type EventType string

const (
	// Extraction events.
	PreferenceUpdated EventType = "preference.updated"
	FactExtracted     EventType = "fact.extracted"

	// Relationship events.
	StageChanged EventType = "stage.changed"

	// Session events.
	TurnCompleted EventType = "turn.completed"
	ProactiveSent EventType = "proactive.sent"
)

// Event represents a system event. Data carries the payload a publisher
// attached; subscribers type-assert to the payload they expect.
type Event struct {
	Type      EventType
	Data      any
	Timestamp int64
}

// NewEvent builds an event stamped with the current time.
func NewEvent(eventType EventType, data any) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
}

// EventHandler is a function that handles events.
type EventHandler func(event Event)

type subscription struct {
	id      int
	handler EventHandler
}

// EventBus manages event subscriptions and publishing. Delivery is synchronous
// so a turn's acknowledgment events are printed before the next prompt.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]subscription
	nextID      int
	logger      *log.Logger
}

// NewEventBus creates a new event bus.
func NewEventBus(logger *log.Logger) *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]subscription),
		logger:      logger,
	}
}

// Subscribe adds an event handler for a specific event type and returns an
// identifier usable with Unsubscribe.
func (eb *EventBus) Subscribe(eventType EventType, handler EventHandler) int {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscription{id: eb.nextID, handler: handler})

	if eb.logger != nil {
		eb.logger.Debug("Event handler subscribed", "event_type", eventType, "id", eb.nextID)
	}
	return eb.nextID
}

// Unsubscribe removes a handler previously registered for the event type.
func (eb *EventBus) Unsubscribe(eventType EventType, id int) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs := eb.subscribers[eventType]
	for i, sub := range subs {
		if sub.id == id {
			eb.subscribers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all registered handlers in registration order.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	subs := eb.subscribers[event.Type]
	eb.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(event)
	}
}

// SubscriberCount returns the number of handlers for an event type.
func (eb *EventBus) SubscriberCount(eventType EventType) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	return len(eb.subscribers[eventType])
}
