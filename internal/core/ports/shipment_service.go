package ports

import (
	"context"
	"time"

	"github.com/freightops/freight-console/internal/core/domain"
)

// CargoLineInput is a single cargo position as submitted by the caller.
type CargoLineInput struct {
	ProductName string
	Quantity    float64
	Weight      float64
}

// CreateShipmentInput carries all data needed to create a new shipment.
// Identity, derived totals, and timestamps are assigned by the service.
type CreateShipmentInput struct {
	Reference    string // optional; generated when blank
	Customer     string
	Carrier      string
	Origin       string // required
	Destination  string // required
	ShipmentType string
	Lines        []CargoLineInput

	ScheduledDate         time.Time
	EstimatedDeliveryDate time.Time
	Notes                 string

	Status string // optional; defaults to draft

	// WithTracking requests a tracking number; when set and TrackingNumber
	// is blank, one is generated and an initial "registered" event is logged
	// at the origin.
	WithTracking   bool
	TrackingNumber string

	BasePrice  float64
	DistanceKm float64
	ExtraFees  float64
}

// UpdateShipmentInput is a partial update: nil fields are left untouched.
type UpdateShipmentInput struct {
	Customer              *string
	Carrier               *string
	Origin                *string
	Destination           *string
	ShipmentType          *string
	Lines                 *[]CargoLineInput
	ScheduledDate         *time.Time
	EstimatedDeliveryDate *time.Time
	Notes                 *string
	BasePrice             *float64
	DistanceKm            *float64
	ExtraFees             *float64
}

// ListShipmentsResult is returned by List.
type ListShipmentsResult struct {
	Items      []*domain.Shipment
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ShipmentService is the shipment lifecycle controller: creation, validated
// status transitions, partial updates, and cascading deletion.
type ShipmentService interface {
	Create(ctx context.Context, input CreateShipmentInput) (*domain.Shipment, error)
	Get(ctx context.Context, id string) (*domain.Shipment, error)
	List(ctx context.Context, filter ListShipmentsFilter) (*ListShipmentsResult, error)
	Update(ctx context.Context, id string, input UpdateShipmentInput) (*domain.Shipment, error)
	Transition(ctx context.Context, id string, next domain.Status) (*domain.Shipment, error)
	Delete(ctx context.Context, id string) error
}
