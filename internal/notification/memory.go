package notification

import (
	"context"
	"sync"
)

// Memory records dispatched requests; used in tests and when no brokers are
// configured (dev mode).
type Memory struct {
	mu       sync.RWMutex
	requests []Request
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Dispatch(_ context.Context, req Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return nil
}

// Requests returns a snapshot of everything dispatched, in order.
func (m *Memory) Requests() []Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}
