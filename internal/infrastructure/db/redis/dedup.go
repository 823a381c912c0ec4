package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker filters exact retransmissions at the ingestion edge. The
// event log itself accepts duplicate facts; this only stops the same
// carrier webhook being replayed within the TTL window.
// Key format: dedup:<shipment_id>:<status>:<unix_timestamp>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact event has already been ingested.
func (d *DedupChecker) IsDuplicate(ctx context.Context, shipmentID, status string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(shipmentID, status, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this event has been ingested (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, shipmentID, status string, ts time.Time) error {
	return d.client.Set(ctx, d.key(shipmentID, status, ts), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(shipmentID, status string, ts time.Time) string {
	return fmt.Sprintf("dedup:%s:%s:%d", shipmentID, status, ts.Unix())
}
