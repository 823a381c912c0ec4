package ports

import (
	"context"
	"time"

	"github.com/freightops/freight-console/internal/core/domain"
)

// ListShipmentsFilter carries all query parameters for listing shipments
// in the console list view.
type ListShipmentsFilter struct {
	Status       string    // optional: filter by shipment status
	ShipmentType string    // optional: filter by shipment type
	Customer     string    // optional: filter by customer id
	Search       string    // optional: partial match on reference or tracking_number
	DateFrom     time.Time // optional: created_at >= DateFrom
	DateTo       time.Time // optional: created_at <= DateTo
	Page         int       // 1-based
	Limit        int       // max rows per page (capped at 100 by the service)
}

// ShipmentRepository is the Shipment Registry: a keyed document store with
// plain get/put/delete semantics and no cross-collection transactions.
type ShipmentRepository interface {
	Get(ctx context.Context, id string) (*domain.Shipment, error)
	// Put inserts the shipment or fully replaces the stored document.
	Put(ctx context.Context, s *domain.Shipment) error
	Delete(ctx context.Context, id string) error
	// List returns a page of shipments matching filter and the total count.
	List(ctx context.Context, filter ListShipmentsFilter) ([]*domain.Shipment, int64, error)
}

// CarrierDirectory resolves carrier display names from reference data.
// It is read-only: this core never mutates carrier records.
type CarrierDirectory interface {
	CarrierName(ctx context.Context, carrierID string) (string, error)
}
