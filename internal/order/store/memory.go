// Package store persists orders. Two implementations share one contract:
// an in-memory store for development and tests, and the postgres store used
// in production. Both enforce the optimistic version check that serializes
// concurrent transition attempts per order.
package store

import (
	"context"
	"sync"

	"order-gateway/internal/order/models"
	id "order-gateway/pkg/domain"
	"order-gateway/pkg/platform/sentinel"
)

// ListFilter narrows back-office order listings.
type ListFilter struct {
	State      *models.State
	TemplateID id.TemplateID
}

// Memory is an in-memory order store.
type Memory struct {
	mu     sync.RWMutex
	orders map[id.OrderID]*models.Order
}

func NewMemory() *Memory {
	return &Memory{orders: make(map[id.OrderID]*models.Order)}
}

// Create stores a new order. The caller owns id generation.
func (s *Memory) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.ID]; exists {
		return sentinel.ErrConflict
	}
	s.orders[order.ID] = order.Clone()
	return nil
}

// Get returns a snapshot of the order; mutating it does not touch the store.
func (s *Memory) Get(_ context.Context, orderID id.OrderID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return order.Clone(), nil
}

// List returns snapshots matching the filter, most recent first.
func (s *Memory) List(_ context.Context, filter ListFilter) ([]*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Order
	for _, order := range s.orders {
		if filter.State != nil && order.State != *filter.State {
			continue
		}
		if filter.TemplateID != "" && order.TemplateID != filter.TemplateID {
			continue
		}
		out = append(out, order.Clone())
	}
	sortByCreatedDesc(out)
	return out, nil
}

// ApplyTransition commits an accepted transition: bumps the version, sets
// the new state, and appends the history entry with the next sequence
// number. Fails with sentinel.ErrConflict when the row moved on since the
// caller's snapshot; history is never rewritten.
func (s *Memory) ApplyTransition(_ context.Context, orderID id.OrderID, expectedVersion int, newState models.State, entry models.HistoryEntry) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if order.Version != expectedVersion {
		return nil, sentinel.ErrConflict
	}

	entry.Seq = len(order.History) + 1
	order.History = append(order.History, entry)
	order.State = newState
	order.Version++
	return order.Clone(), nil
}
