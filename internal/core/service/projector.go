package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/freightops/freight-console/internal/core/domain"
	"github.com/freightops/freight-console/internal/core/ports"
)

// AggregateCache abstracts the read cache in front of the aggregate store
// (Redis). Get returns (nil, nil) on a miss.
type AggregateCache interface {
	Get(ctx context.Context, shipmentID string) (*domain.TrackingAggregate, error)
	Set(ctx context.Context, agg *domain.TrackingAggregate) error
	Delete(ctx context.Context, shipmentID string) error
}

// Projector derives the current-state aggregate from the tracking event log.
// It owns the one cross-entity consistency rule in the system: when the
// latest event reports a delivery, the shipment record is finalized so the
// record and the aggregate never disagree about terminal state. The flow is
// one direction only — event log to aggregate to shipment record.
type Projector struct {
	events    ports.TrackingEventRepository
	aggs      ports.TrackingAggregateRepository
	shipments ports.ShipmentRepository
	cache     AggregateCache
	log       zerolog.Logger
}

// NewProjector returns a Projector. cache may be nil when no read cache is
// configured.
func NewProjector(
	events ports.TrackingEventRepository,
	aggs ports.TrackingAggregateRepository,
	shipments ports.ShipmentRepository,
	cache AggregateCache,
	log zerolog.Logger,
) *Projector {
	return &Projector{
		events:    events,
		aggs:      aggs,
		shipments: shipments,
		cache:     cache,
		log:       log,
	}
}

// Project replays the shipment's event log in (timestamp, sequence) order
// and overwrites the stored aggregate with the state of the last event.
func (p *Projector) Project(ctx context.Context, shipmentID string) (*domain.TrackingAggregate, error) {
	events, err := p.events.ListByShipment(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("project %s: list events: %w", shipmentID, err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("project %s: %w", shipmentID, domain.ErrTrackingNotFound)
	}

	last := events[len(events)-1]
	agg := &domain.TrackingAggregate{
		ShipmentID:      shipmentID,
		TrackingNumber:  last.TrackingNumber,
		Status:          last.Status,
		CurrentLocation: last.Location,
		LastUpdated:     last.Timestamp,
	}

	if err := p.aggs.Put(ctx, agg); err != nil {
		return nil, fmt.Errorf("project %s: store aggregate: %w", shipmentID, err)
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, agg); err != nil {
			p.log.Warn().Err(err).Str("shipment_id", shipmentID).Msg("failed to refresh aggregate cache")
		}
	}

	if last.Status == domain.PackageDelivered {
		if err := p.finalizeDelivered(ctx, shipmentID, last.Timestamp); err != nil {
			return nil, err
		}
	}

	return agg, nil
}

// finalizeDelivered syncs an observed delivery onto the shipment record.
// A delivery reported on the wire finalizes the shipment from any
// non-terminal status; a repeat delivery is a no-op.
func (p *Projector) finalizeDelivered(ctx context.Context, shipmentID string, at time.Time) error {
	shipment, err := p.shipments.Get(ctx, shipmentID)
	if err != nil {
		return fmt.Errorf("finalize %s: %w", shipmentID, err)
	}
	if shipment.Status == domain.StatusDelivered {
		return nil
	}
	if err := shipment.MarkDelivered(at); err != nil {
		return fmt.Errorf("finalize %s: %w", shipmentID, err)
	}
	if err := p.shipments.Put(ctx, shipment); err != nil {
		return fmt.Errorf("finalize %s: store shipment: %w", shipmentID, err)
	}

	p.log.Info().
		Str("shipment_id", shipmentID).
		Time("delivered_at", at).
		Msg("shipment finalized from tracking")
	return nil
}
