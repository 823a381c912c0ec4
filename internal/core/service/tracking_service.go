package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/freightops/freight-console/internal/core/domain"
	"github.com/freightops/freight-console/internal/core/ports"
)

// lockStripes is the number of mutexes appends are sharded over. Two
// shipments may share a stripe; that only costs parallelism, never ordering.
const lockStripes = 64

type trackingService struct {
	events    ports.TrackingEventRepository
	aggs      ports.TrackingAggregateRepository
	projector *Projector
	cache     AggregateCache
	log       zerolog.Logger

	locks [lockStripes]sync.Mutex
}

// NewTrackingService returns a TrackingService implementation. The event log
// accepts any sequence of facts: no validation against the shipment's current
// status is performed on append. cache may be nil.
func NewTrackingService(
	events ports.TrackingEventRepository,
	aggs ports.TrackingAggregateRepository,
	projector *Projector,
	cache AggregateCache,
	log zerolog.Logger,
) ports.TrackingService {
	return &trackingService{
		events:    events,
		aggs:      aggs,
		projector: projector,
		cache:     cache,
		log:       log,
	}
}

// Append stores a tracking event and synchronously reprojects the aggregate.
// Appends for the same shipment are serialized so the projector never reads
// a partially applied event set; different shipments proceed in parallel.
func (s *trackingService) Append(ctx context.Context, in ports.AppendEventInput) (*domain.TrackingEvent, error) {
	if strings.TrimSpace(in.ShipmentID) == "" {
		return nil, fmt.Errorf("%w: shipment id is required", domain.ErrValidation)
	}
	status, err := domain.ParsePackageStatus(in.Status)
	if err != nil {
		return nil, err
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	lock := s.lockFor(in.ShipmentID)
	lock.Lock()
	defer lock.Unlock()

	seq, err := s.events.CountByShipment(ctx, in.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("append event for %s: next sequence: %w", in.ShipmentID, err)
	}

	event := &domain.TrackingEvent{
		ID:             uuid.NewString(),
		ShipmentID:     in.ShipmentID,
		TrackingNumber: in.TrackingNumber,
		Sequence:       seq,
		Timestamp:      ts.UTC(),
		Status:         status,
		Location:       toGeoLocation(in.Location),
		Description:    in.Description,
		IsNotified:     in.IsNotified,
	}

	if err := s.events.Insert(ctx, event); err != nil {
		return nil, fmt.Errorf("append event for %s: %w", in.ShipmentID, err)
	}

	if _, err := s.projector.Project(ctx, in.ShipmentID); err != nil {
		// The event is already durable; reprojection is idempotent and
		// the next append will repair the aggregate.
		return nil, err
	}

	s.log.Info().
		Str("shipment_id", in.ShipmentID).
		Str("status", string(status)).
		Int64("sequence", seq).
		Msg("tracking event appended")

	return event, nil
}

// Aggregate returns the current-state projection, reading through the cache.
func (s *trackingService) Aggregate(ctx context.Context, shipmentID string) (*domain.TrackingAggregate, error) {
	if s.cache != nil {
		agg, err := s.cache.Get(ctx, shipmentID)
		if err != nil {
			s.log.Warn().Err(err).Str("shipment_id", shipmentID).Msg("aggregate cache read failed")
		} else if agg != nil {
			return agg, nil
		}
	}

	agg, err := s.aggs.Get(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("aggregate for %s: %w", shipmentID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, agg); err != nil {
			s.log.Warn().Err(err).Str("shipment_id", shipmentID).Msg("aggregate cache write failed")
		}
	}
	return agg, nil
}

// Events returns the full ordered event history for a shipment.
func (s *trackingService) Events(ctx context.Context, shipmentID string) ([]domain.TrackingEvent, error) {
	events, err := s.events.ListByShipment(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("events for %s: %w", shipmentID, err)
	}
	return events, nil
}

// DeleteForShipment removes the event log, the aggregate, and the cache
// entry for a shipment.
func (s *trackingService) DeleteForShipment(ctx context.Context, shipmentID string) error {
	lock := s.lockFor(shipmentID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.events.DeleteByShipment(ctx, shipmentID); err != nil {
		return fmt.Errorf("delete tracking for %s: events: %w", shipmentID, err)
	}
	if err := s.aggs.Delete(ctx, shipmentID); err != nil {
		return fmt.Errorf("delete tracking for %s: aggregate: %w", shipmentID, err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, shipmentID); err != nil {
			s.log.Warn().Err(err).Str("shipment_id", shipmentID).Msg("aggregate cache delete failed")
		}
	}
	return nil
}

// lockFor maps a shipment id deterministically to a mutex stripe.
func (s *trackingService) lockFor(shipmentID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(shipmentID))
	return &s.locks[h.Sum32()%lockStripes]
}

func toGeoLocation(in ports.GeoLocationInput) domain.GeoLocation {
	loc := domain.GeoLocation{Address: in.Address}
	if in.Coordinates != nil {
		loc.Coordinates = &domain.Coordinates{Lat: in.Coordinates.Lat, Lng: in.Coordinates.Lng}
	}
	return loc
}
