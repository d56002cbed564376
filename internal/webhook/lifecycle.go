package webhook

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
	"github.com/joshu-sajeev/stepform/internal/config"
)

// Lifecycle states. Untyped so they convert to statekit.StateID directly.
const (
	StatePending  = "pending"
	StateRetrying = "retrying"
	StateSent     = "sent"
	StateFailed   = "failed"
)

// Lifecycle events, one per attempt outcome.
const (
	EventDelivered = "delivered"
	EventRetry     = "retry"
	EventExhausted = "exhausted"
)

func init() {
	stateMap := map[string]config.WebhookStatus{
		StatePending:  config.WebhookStatusPending,
		StateRetrying: config.WebhookStatusRetrying,
		StateSent:     config.WebhookStatusSent,
		StateFailed:   config.WebhookStatusFailed,
	}

	for state, status := range stateMap {
		if state != string(status) {
			panic(fmt.Sprintf("lifecycle state %q does not match webhook status %q", state, status))
		}
	}
}

type lifecycleContext struct {
	ItemID uint
}

// Lifecycle guards the status transitions of a single queue item. sent and
// failed accept no events.
type Lifecycle struct {
	interpreter *statekit.Interpreter[lifecycleContext]
}

func NewLifecycle(status string, itemID uint) (*Lifecycle, error) {
	switch status {
	case StatePending, StateRetrying, StateSent, StateFailed:
	default:
		return nil, fmt.Errorf("unknown webhook status %q", status)
	}

	builder := statekit.NewMachine[lifecycleContext]("webhook-delivery").
		WithInitial(statekit.StateID(status)).
		WithContext(lifecycleContext{ItemID: itemID})

	builder.State(StatePending).
		On(EventDelivered).Target(StateSent).
		On(EventRetry).Target(StateRetrying).
		On(EventExhausted).Target(StateFailed).
		Done()

	builder.State(StateRetrying).
		On(EventDelivered).Target(StateSent).
		On(EventRetry).Target(StateRetrying).
		On(EventExhausted).Target(StateFailed).
		Done()

	builder.State(StateSent).Done()
	builder.State(StateFailed).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build lifecycle: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &Lifecycle{interpreter: interpreter}, nil
}

// Fire applies event and returns the resulting status. Events that are not
// valid in the current state leave it unchanged and return an error.
// retrying -> retrying is a legal self transition.
func (l *Lifecycle) Fire(event string) (string, error) {
	before := l.Current()
	if before == StateSent || before == StateFailed {
		return before, fmt.Errorf("webhook is %s and accepts no %q event", before, event)
	}

	l.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := l.Current()

	if after == before && !(before == StateRetrying && event == EventRetry) {
		return before, fmt.Errorf("event %q is not allowed while the webhook is %s", event, before)
	}
	return after, nil
}

func (l *Lifecycle) Current() string {
	return string(l.interpreter.State().Value)
}

// IsTerminal reports whether no further delivery will be attempted.
func (l *Lifecycle) IsTerminal() bool {
	c := l.Current()
	return c == StateSent || c == StateFailed
}
