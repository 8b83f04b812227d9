package offer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	id "order-gateway/pkg/domain"
)

var (
	cacheLookupDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_gateway_offer_cache_lookup_duration_ms",
		Help:    "Latency of offer display cache lookups in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	})
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_gateway_offer_cache_hits_total",
		Help: "Offer display cache hits",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_gateway_offer_cache_misses_total",
		Help: "Offer display cache misses",
	})
)

const displayKeyPrefix = "offer:display:"

// RedisCache is a Redis-backed display cache shared across instances.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache constructs a Redis-backed display cache. The client
// lifecycle is managed externally.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, templateID id.TemplateID) (Display, bool, error) {
	start := time.Now()
	defer func() {
		cacheLookupDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	raw, err := c.client.Get(ctx, displayKeyPrefix+string(templateID)).Bytes()
	if errors.Is(err, redis.Nil) {
		cacheMisses.Inc()
		return Display{}, false, nil
	}
	if err != nil {
		return Display{}, false, err
	}

	var display Display
	if err := json.Unmarshal(raw, &display); err != nil {
		// Poisoned entry; treat as a miss so the resolver refreshes it.
		cacheMisses.Inc()
		return Display{}, false, nil
	}
	cacheHits.Inc()
	return display, true, nil
}

func (c *RedisCache) Set(ctx context.Context, templateID id.TemplateID, display Display, ttl time.Duration) error {
	raw, err := json.Marshal(display)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, displayKeyPrefix+string(templateID), raw, ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, templateID id.TemplateID) error {
	return c.client.Del(ctx, displayKeyPrefix+string(templateID)).Err()
}
