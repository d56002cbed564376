// Package notify delivers best-effort side notifications after a lead is
// accepted: the transactional email sender and third-party tracking relays.
// Notifiers never block the caller beyond handing off and never report
// failure; problems are logged.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is one occurrence reported to notifiers.
type Event struct {
	ID         string         `json:"event_id"`
	Name       string         `json:"event"`
	FormID     string         `json:"form_id"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewEvent builds an event. An empty id gets a fresh UUID.
func NewEvent(id, name, formID string, data map[string]any) Event {
	if id == "" {
		id = uuid.NewString()
	}
	return Event{
		ID:         id,
		Name:       name,
		FormID:     formID,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

// Notifier has no error return on purpose: delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Noop drops every event.
type Noop struct{}

func (Noop) Notify(context.Context, Event) {}

// Multi fans an event out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, e)
		}
	}
}
