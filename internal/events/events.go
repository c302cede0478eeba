package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventSessionCreated     = "session_created"
	EventSessionReset       = "session_reset"
	EventConfirmationSent   = "confirmation_sent"
	EventConfirmationFailed = "confirmation_failed"
)

// ConfirmationEventPayload is the minimal booking snapshot announced when a
// confirmation dispatch finishes, for audit-log subscribers.
type ConfirmationEventPayload struct {
	SessionID    string `json:"session_id"`
	ServiceID    string `json:"service_id"`
	ServiceTitle string `json:"service_title"`
	Email        string `json:"email"`
	Date         string `json:"date,omitempty"`
	Time         string `json:"time,omitempty"`
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
