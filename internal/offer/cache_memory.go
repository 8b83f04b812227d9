package offer

import (
	"context"
	"sync"
	"time"

	id "order-gateway/pkg/domain"
	"order-gateway/pkg/requestcontext"
)

type memoryEntry struct {
	display   Display
	expiresAt time.Time
}

// MemoryCache is an in-process display cache for single-instance
// deployments and tests. Expired entries are dropped lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[id.TemplateID]memoryEntry
}

// NewMemoryCache constructs an empty in-memory display cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[id.TemplateID]memoryEntry)}
}

func (c *MemoryCache) Get(ctx context.Context, templateID id.TemplateID) (Display, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[templateID]
	c.mu.RUnlock()

	if !ok {
		return Display{}, false, nil
	}
	if requestcontext.Now(ctx).After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, templateID)
		c.mu.Unlock()
		return Display{}, false, nil
	}
	return entry.display, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, templateID id.TemplateID, display Display, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[templateID] = memoryEntry{
		display:   display,
		expiresAt: requestcontext.Now(ctx).Add(ttl),
	}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, templateID id.TemplateID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, templateID)
	return nil
}
