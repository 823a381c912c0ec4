package ports

import (
	"context"
	"time"

	"github.com/freightops/freight-console/internal/core/domain"
)

// AppendEventInput is the DTO passed from the transport layer to the
// tracking event log.
type AppendEventInput struct {
	ShipmentID     string // required
	TrackingNumber string
	Status         string    // required
	Timestamp      time.Time // defaults to now when zero
	Location       GeoLocationInput
	Description    string
	IsNotified     bool
}

// GeoLocationInput is a free-text address with optional coordinates.
type GeoLocationInput struct {
	Address     string
	Coordinates *CoordinatesInput
}

// CoordinatesInput holds geographic coordinates.
type CoordinatesInput struct {
	Lat float64
	Lng float64
}

// TrackingService owns the append-only event log and the derived
// current-state projection. Appending an event reprojects the aggregate
// synchronously, so a read immediately after Append observes the new state.
type TrackingService interface {
	Append(ctx context.Context, input AppendEventInput) (*domain.TrackingEvent, error)
	Aggregate(ctx context.Context, shipmentID string) (*domain.TrackingAggregate, error)
	Events(ctx context.Context, shipmentID string) ([]domain.TrackingEvent, error)
	// DeleteForShipment removes the event log and the aggregate for a
	// shipment. Reserved for the lifecycle controller's cascading delete.
	DeleteForShipment(ctx context.Context, shipmentID string) error
}
