package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freightops/freight-console/internal/core/domain"
)

const defaultCacheTTL = 5 * time.Minute

// AggregateCache is a read cache in front of the tracking aggregate store.
// Entries expire on their own; the projector overwrites them on every
// append, so staleness is bounded by the TTL even if an invalidation is
// lost. Key format: tracking:agg:<shipment_id>
type AggregateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAggregateCache creates an AggregateCache wrapping the given client.
// A non-positive ttl falls back to the default.
func NewAggregateCache(client *redis.Client, ttl time.Duration) *AggregateCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &AggregateCache{client: client, ttl: ttl}
}

// Get returns the cached aggregate, or (nil, nil) on a miss.
func (c *AggregateCache) Get(ctx context.Context, shipmentID string) (*domain.TrackingAggregate, error) {
	raw, err := c.client.Get(ctx, c.key(shipmentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("aggregate cache get: %w", err)
	}

	var agg domain.TrackingAggregate
	if err := json.Unmarshal(raw, &agg); err != nil {
		return nil, fmt.Errorf("aggregate cache decode: %w", err)
	}
	return &agg, nil
}

// Set stores the aggregate with the configured TTL.
func (c *AggregateCache) Set(ctx context.Context, agg *domain.TrackingAggregate) error {
	raw, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("aggregate cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(agg.ShipmentID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("aggregate cache set: %w", err)
	}
	return nil
}

// Delete drops the cached aggregate.
func (c *AggregateCache) Delete(ctx context.Context, shipmentID string) error {
	if err := c.client.Del(ctx, c.key(shipmentID)).Err(); err != nil {
		return fmt.Errorf("aggregate cache delete: %w", err)
	}
	return nil
}

func (c *AggregateCache) key(shipmentID string) string {
	return "tracking:agg:" + shipmentID
}
