package notify

import (
	"context"
	"sync"
)

const defaultRegistrySize = 10_000

type registryKey struct {
	formID  string
	pixelID string
	eventID string
}

// Registry remembers which (form, pixel, event) triples were already
// reported. It is owned by whoever creates it and passed by reference; there
// is no package-level instance. The oldest keys are forgotten past capacity.
type Registry struct {
	mu       sync.Mutex
	capacity int
	seen     map[registryKey]struct{}
	order    []registryKey
}

func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = defaultRegistrySize
	}
	return &Registry{
		capacity: capacity,
		seen:     make(map[registryKey]struct{}),
	}
}

// MarkOnce records the triple and reports whether it was new.
func (r *Registry) MarkOnce(formID, pixelID, eventID string) bool {
	k := registryKey{formID: formID, pixelID: pixelID, eventID: eventID}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[k]; ok {
		return false
	}

	if len(r.order) >= r.capacity {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.seen, oldest)
	}
	r.seen[k] = struct{}{}
	r.order = append(r.order, k)
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

type dedupe struct {
	next     Notifier
	registry *Registry
	pixelID  string
}

// Dedupe forwards each (form, pixelID, event) to next at most once.
func Dedupe(next Notifier, registry *Registry, pixelID string) Notifier {
	return &dedupe{next: next, registry: registry, pixelID: pixelID}
}

func (d *dedupe) Notify(ctx context.Context, e Event) {
	if !d.registry.MarkOnce(e.FormID, d.pixelID, e.ID) {
		return
	}
	d.next.Notify(ctx, e)
}
