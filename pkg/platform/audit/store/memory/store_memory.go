package memory

import (
	"sync"

	"order-gateway/pkg/platform/audit"
)

// Store is an in-memory audit sink for development and tests.
type Store struct {
	mu     sync.RWMutex
	events []audit.Event
}

func New() *Store {
	return &Store{}
}

// Publish appends the event. Never fails.
func (s *Store) Publish(event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a snapshot of every published event in order.
func (s *Store) Events() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Event, len(s.events))
	copy(out, s.events)
	return out
}

// ByAction filters the snapshot by action.
func (s *Store) ByAction(action audit.Action) []audit.Event {
	var out []audit.Event
	for _, e := range s.Events() {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}
