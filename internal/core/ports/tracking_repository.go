package ports

import (
	"context"

	"github.com/freightops/freight-console/internal/core/domain"
)

// TrackingEventRepository persists the append-only tracking event log.
// There is deliberately no update operation: events are immutable facts.
type TrackingEventRepository interface {
	Insert(ctx context.Context, event *domain.TrackingEvent) error
	// ListByShipment returns all events for a shipment ordered by
	// (timestamp, sequence) ascending.
	ListByShipment(ctx context.Context, shipmentID string) ([]domain.TrackingEvent, error)
	// CountByShipment returns the number of events logged for a shipment,
	// used to assign the insertion sequence.
	CountByShipment(ctx context.Context, shipmentID string) (int64, error)
	// DeleteByShipment removes the whole log for a shipment. Only the
	// lifecycle controller's cascading delete may call this.
	DeleteByShipment(ctx context.Context, shipmentID string) error
}

// TrackingAggregateRepository stores the derived current-state projection,
// one document per shipment.
type TrackingAggregateRepository interface {
	Get(ctx context.Context, shipmentID string) (*domain.TrackingAggregate, error)
	Put(ctx context.Context, agg *domain.TrackingAggregate) error
	Delete(ctx context.Context, shipmentID string) error
}
