package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status represents the lifecycle state of a shipment.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusDelayed   Status = "delayed"
)

// validTransitions defines the allowed state machine transitions.
// Delivered and cancelled are terminal: they have no outgoing edges.
var validTransitions = map[Status][]Status{
	StatusDraft:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusInTransit, StatusDelayed, StatusCancelled},
	StatusInTransit: {StatusDelivered, StatusDelayed, StatusCancelled},
	StatusDelayed:   {StatusInTransit, StatusDelivered, StatusCancelled},
}

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrShipmentNotFound  = errors.New("shipment not found")
	ErrTrackingNotFound  = errors.New("tracking record not found")
)

// ErrShipmentFinalized is an invalid-transition class error: mutating a
// shipment in a terminal state is rejected the same way a disallowed
// transition is.
var ErrShipmentFinalized = fmt.Errorf("shipment is finalized: %w", ErrInvalidTransition)

// CanTransitionTo reports whether a transition from s to next is valid.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ParseStatus converts a raw string to a Status, rejecting unrecognised values.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusDraft, StatusConfirmed, StatusInTransit, StatusDelivered, StatusCancelled, StatusDelayed:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, raw)
}

// ShipmentType classifies the shipment route.
type ShipmentType string

const (
	TypeImport        ShipmentType = "import"
	TypeExport        ShipmentType = "export"
	TypeLocal         ShipmentType = "local"
	TypeInternational ShipmentType = "international"
)

// ParseShipmentType converts a raw string to a ShipmentType.
func ParseShipmentType(raw string) (ShipmentType, error) {
	switch t := ShipmentType(raw); t {
	case TypeImport, TypeExport, TypeLocal, TypeInternational:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown shipment type %q", ErrValidation, raw)
}

// CargoLine is a single cargo position on a shipment.
type CargoLine struct {
	ProductName string  `json:"product_name" bson:"product_name"`
	Quantity    float64 `json:"quantity" bson:"quantity"`
	Weight      float64 `json:"weight" bson:"weight"`
}

// Validate rejects negative quantities and weights.
func (l CargoLine) Validate() error {
	if l.Quantity < 0 {
		return fmt.Errorf("%w: line %q has negative quantity", ErrValidation, l.ProductName)
	}
	if l.Weight < 0 {
		return fmt.Errorf("%w: line %q has negative weight", ErrValidation, l.ProductName)
	}
	return nil
}

// TotalWeightOf computes the shipment weight from its cargo lines.
// The stored total is always derived from this, never taken from callers.
func TotalWeightOf(lines []CargoLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Quantity * l.Weight
	}
	return total
}

// Shipment is the core aggregate root: a unit of cargo moving from origin
// to destination.
type Shipment struct {
	ID             string       `json:"id" bson:"_id,omitempty"`
	Reference      string       `json:"reference" bson:"reference"`
	TrackingNumber string       `json:"tracking_number,omitempty" bson:"tracking_number,omitempty"`
	Customer       string       `json:"customer" bson:"customer"`
	Carrier        string       `json:"carrier" bson:"carrier"`
	CarrierName    string       `json:"carrier_name,omitempty" bson:"carrier_name,omitempty"`
	Origin         string       `json:"origin" bson:"origin"`
	Destination    string       `json:"destination" bson:"destination"`
	ShipmentType   ShipmentType `json:"shipment_type" bson:"shipment_type"`

	Lines       []CargoLine `json:"lines" bson:"lines"`
	TotalWeight float64     `json:"total_weight" bson:"total_weight"`

	ScheduledDate         time.Time  `json:"scheduled_date" bson:"scheduled_date"`
	EstimatedDeliveryDate time.Time  `json:"estimated_delivery_date" bson:"estimated_delivery_date"`
	ActualDeliveryDate    *time.Time `json:"actual_delivery_date,omitempty" bson:"actual_delivery_date,omitempty"`

	// Pricing inputs stay on the record so the total can be recomputed
	// whenever cargo lines change.
	BasePrice  float64 `json:"base_price" bson:"base_price"`
	DistanceKm float64 `json:"distance_km" bson:"distance_km"`
	ExtraFees  float64 `json:"extra_fees" bson:"extra_fees"`
	TotalPrice float64 `json:"total_price" bson:"total_price"`

	Notes  string `json:"notes,omitempty" bson:"notes,omitempty"`
	Status Status `json:"status" bson:"status"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// MarkDelivered finalizes the shipment after a delivery has been observed.
// It is idempotent: a shipment already delivered is left untouched. A
// cancelled shipment cannot be delivered.
func (s *Shipment) MarkDelivered(at time.Time) error {
	if s.Status == StatusDelivered {
		return nil
	}
	if s.Status == StatusCancelled {
		return fmt.Errorf("%w: cannot deliver a cancelled shipment", ErrInvalidTransition)
	}
	at = at.UTC()
	s.Status = StatusDelivered
	s.ActualDeliveryDate = &at
	s.UpdatedAt = at
	return nil
}
