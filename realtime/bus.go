package realtime

import (
	"sync"

	"pairplan_server/models"
)

// Listener receives every event change published on the bus.
type Listener interface {
	Dispatch(change models.EventChange)
}

// Bus is the in-process change channel between the event service and its
// subscribers (the socket hub and per-connection feeds). Services publish a
// change after each committed mutation; listeners decide relevance
// themselves.
type Bus struct {
	mu        sync.RWMutex
	listeners []Listener
}

func NewBus() *Bus {
	return &Bus{}
}

// Attach registers a listener. Listeners are never detached; the bus lives
// for the process lifetime.
func (b *Bus) Attach(l Listener) {
	b.mu.Lock()
	b.listeners = append(b.listeners, l)
	b.mu.Unlock()
}

// PublishChange fans the change out to every listener. Dispatch is
// synchronous here; listeners that do real work hand it off themselves.
func (b *Bus) PublishChange(change models.EventChange) {
	b.mu.RLock()
	listeners := b.listeners
	b.mu.RUnlock()

	for _, l := range listeners {
		l.Dispatch(change)
	}
}
