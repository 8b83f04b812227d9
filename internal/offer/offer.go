// Package offer resolves the display data an order denormalizes at
// submission time: the commercial title and owning operator of the offer
// behind a template. Lookups go through a cache because portal listings
// hit this far more often than the registry changes.
package offer

import (
	"context"
	"time"

	id "order-gateway/pkg/domain"
)

// Display is the denormalized offer view stamped onto orders.
type Display struct {
	Title      string        `json:"title"`
	OperatorID id.OperatorID `json:"operator_id"`
}

// Source produces the authoritative display data for a template.
type Source interface {
	OfferDisplay(ctx context.Context, templateID id.TemplateID) (Display, error)
}

// Cache stores displays with a TTL. A miss is (zero, false, nil).
type Cache interface {
	Get(ctx context.Context, templateID id.TemplateID) (Display, bool, error)
	Set(ctx context.Context, templateID id.TemplateID, display Display, ttl time.Duration) error
	Invalidate(ctx context.Context, templateID id.TemplateID) error
}

// Resolver reads through the cache to the source. Cache failures are
// soft: a broken cache degrades to source lookups, it never fails a
// submission.
type Resolver struct {
	source Source
	cache  Cache
	ttl    time.Duration
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCache attaches a display cache with the given TTL.
func WithCache(cache Cache, ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.cache = cache
		r.ttl = ttl
	}
}

// NewResolver constructs a Resolver over the given source.
func NewResolver(source Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{source: source}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Display returns the offer display for a template, consulting the cache
// first when one is configured.
func (r *Resolver) Display(ctx context.Context, templateID id.TemplateID) (Display, error) {
	if r.cache != nil {
		if display, ok, err := r.cache.Get(ctx, templateID); err == nil && ok {
			return display, nil
		}
	}

	display, err := r.source.OfferDisplay(ctx, templateID)
	if err != nil {
		return Display{}, err
	}

	if r.cache != nil {
		_ = r.cache.Set(ctx, templateID, display, r.ttl)
	}
	return display, nil
}

// Invalidate drops the cached display for a template. Call after the
// registry is reloaded with new commercial data.
func (r *Resolver) Invalidate(ctx context.Context, templateID id.TemplateID) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Invalidate(ctx, templateID)
}
