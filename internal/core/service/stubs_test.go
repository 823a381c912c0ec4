package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/freightops/freight-console/internal/core/domain"
	"github.com/freightops/freight-console/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubShipmentRepo struct {
	byID      map[string]*domain.Shipment
	getErr    error
	putErr    error
	deleteErr error
	puts      int
}

func newStubShipmentRepo() *stubShipmentRepo {
	return &stubShipmentRepo{byID: make(map[string]*domain.Shipment)}
}

func (r *stubShipmentRepo) Get(_ context.Context, id string) (*domain.Shipment, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubShipmentRepo) Put(_ context.Context, s *domain.Shipment) error {
	if r.putErr != nil {
		return r.putErr
	}
	clone := *s
	r.byID[s.ID] = &clone
	r.puts++
	return nil
}

func (r *stubShipmentRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrShipmentNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubShipmentRepo) List(_ context.Context, f ports.ListShipmentsFilter) ([]*domain.Shipment, int64, error) {
	var matched []*domain.Shipment
	for _, s := range r.byID {
		if f.Status != "" && string(s.Status) != f.Status {
			continue
		}
		if f.ShipmentType != "" && string(s.ShipmentType) != f.ShipmentType {
			continue
		}
		if f.Customer != "" && s.Customer != f.Customer {
			continue
		}
		clone := *s
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return nil, total, nil
	}
	end := skip + f.Limit
	if f.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

type stubEventRepo struct {
	byShipment map[string][]domain.TrackingEvent
	insertErr  error
	listErr    error
	deleteErr  error
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{byShipment: make(map[string][]domain.TrackingEvent)}
}

func (r *stubEventRepo) Insert(_ context.Context, e *domain.TrackingEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.byShipment[e.ShipmentID] = append(r.byShipment[e.ShipmentID], *e)
	return nil
}

// ListByShipment mirrors the store's (timestamp, sequence) ascending sort.
func (r *stubEventRepo) ListByShipment(_ context.Context, shipmentID string) ([]domain.TrackingEvent, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	events := append([]domain.TrackingEvent(nil), r.byShipment[shipmentID]...)
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Sequence < events[j].Sequence
		}
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events, nil
}

func (r *stubEventRepo) CountByShipment(_ context.Context, shipmentID string) (int64, error) {
	return int64(len(r.byShipment[shipmentID])), nil
}

func (r *stubEventRepo) DeleteByShipment(_ context.Context, shipmentID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.byShipment, shipmentID)
	return nil
}

type stubAggRepo struct {
	byShipment map[string]*domain.TrackingAggregate
	putErr     error
}

func newStubAggRepo() *stubAggRepo {
	return &stubAggRepo{byShipment: make(map[string]*domain.TrackingAggregate)}
}

func (r *stubAggRepo) Get(_ context.Context, shipmentID string) (*domain.TrackingAggregate, error) {
	agg, ok := r.byShipment[shipmentID]
	if !ok {
		return nil, domain.ErrTrackingNotFound
	}
	clone := *agg
	return &clone, nil
}

func (r *stubAggRepo) Put(_ context.Context, agg *domain.TrackingAggregate) error {
	if r.putErr != nil {
		return r.putErr
	}
	clone := *agg
	r.byShipment[agg.ShipmentID] = &clone
	return nil
}

func (r *stubAggRepo) Delete(_ context.Context, shipmentID string) error {
	delete(r.byShipment, shipmentID)
	return nil
}

type stubCache struct {
	byShipment map[string]*domain.TrackingAggregate
	getErr     error
	setErr     error
	sets       int
	hits       int
}

func newStubCache() *stubCache {
	return &stubCache{byShipment: make(map[string]*domain.TrackingAggregate)}
}

func (c *stubCache) Get(_ context.Context, shipmentID string) (*domain.TrackingAggregate, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	agg, ok := c.byShipment[shipmentID]
	if !ok {
		return nil, nil
	}
	c.hits++
	clone := *agg
	return &clone, nil
}

func (c *stubCache) Set(_ context.Context, agg *domain.TrackingAggregate) error {
	if c.setErr != nil {
		return c.setErr
	}
	clone := *agg
	c.byShipment[agg.ShipmentID] = &clone
	c.sets++
	return nil
}

func (c *stubCache) Delete(_ context.Context, shipmentID string) error {
	delete(c.byShipment, shipmentID)
	return nil
}

type stubCarrierDirectory struct {
	names map[string]string
	err   error
}

func (d *stubCarrierDirectory) CarrierName(_ context.Context, carrierID string) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	return d.names[carrierID], nil
}
