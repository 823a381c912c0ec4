package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/freightops/freight-console/internal/core/domain"
	"github.com/freightops/freight-console/internal/core/ports"
	"github.com/freightops/freight-console/internal/core/tariff"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ShipmentService is the shipment lifecycle controller. It owns shipment
// creation, validated status transitions, partial updates, and cascading
// deletion across the tracking collections.
type ShipmentService struct {
	shipments ports.ShipmentRepository
	tracking  ports.TrackingService
	carriers  ports.CarrierDirectory
	calc      *tariff.Calculator
	log       zerolog.Logger
}

// NewShipmentService returns a ShipmentService. carriers may be nil when no
// reference data source is configured.
func NewShipmentService(
	shipments ports.ShipmentRepository,
	tracking ports.TrackingService,
	carriers ports.CarrierDirectory,
	calc *tariff.Calculator,
	log zerolog.Logger,
) *ShipmentService {
	return &ShipmentService{
		shipments: shipments,
		tracking:  tracking,
		carriers:  carriers,
		calc:      calc,
		log:       log,
	}
}

// Create validates the input, derives total weight and price, persists the
// shipment, and, when tracking is requested, logs the initial "registered"
// event at the origin.
func (s *ShipmentService) Create(ctx context.Context, in ports.CreateShipmentInput) (*domain.Shipment, error) {
	if strings.TrimSpace(in.Origin) == "" {
		return nil, fmt.Errorf("%w: origin is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Destination) == "" {
		return nil, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}

	shipmentType := domain.TypeLocal
	if in.ShipmentType != "" {
		var err error
		shipmentType, err = domain.ParseShipmentType(in.ShipmentType)
		if err != nil {
			return nil, err
		}
	}

	status := domain.StatusDraft
	if in.Status != "" {
		var err error
		status, err = domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
	}

	lines := toCargoLines(in.Lines)
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return nil, err
		}
	}
	totalWeight := domain.TotalWeightOf(lines)

	totalPrice, err := s.calc.Price(in.BasePrice, totalWeight, in.DistanceKm, in.ExtraFees)
	if err != nil {
		return nil, err
	}

	reference := strings.TrimSpace(in.Reference)
	if reference == "" {
		reference = generateReference()
	}

	trackingNumber := in.TrackingNumber
	if in.WithTracking && trackingNumber == "" {
		trackingNumber = generateTrackingNumber()
	}

	carrierName := ""
	if in.Carrier != "" && s.carriers != nil {
		carrierName, err = s.carriers.CarrierName(ctx, in.Carrier)
		if err != nil {
			s.log.Warn().Err(err).Str("carrier", in.Carrier).Msg("carrier name lookup failed")
			carrierName = ""
		}
	}

	now := time.Now().UTC()
	shipment := &domain.Shipment{
		ID:             uuid.NewString(),
		Reference:      reference,
		TrackingNumber: trackingNumber,
		Customer:       in.Customer,
		Carrier:        in.Carrier,
		CarrierName:    carrierName,
		Origin:         in.Origin,
		Destination:    in.Destination,
		ShipmentType:   shipmentType,

		Lines:       lines,
		TotalWeight: totalWeight,

		ScheduledDate:         in.ScheduledDate,
		EstimatedDeliveryDate: in.EstimatedDeliveryDate,

		BasePrice:  in.BasePrice,
		DistanceKm: in.DistanceKm,
		ExtraFees:  in.ExtraFees,
		TotalPrice: totalPrice,

		Notes:  in.Notes,
		Status: status,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.shipments.Put(ctx, shipment); err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	if trackingNumber != "" {
		_, err := s.tracking.Append(ctx, ports.AppendEventInput{
			ShipmentID:     shipment.ID,
			TrackingNumber: trackingNumber,
			Status:         string(domain.PackageRegistered),
			Timestamp:      now,
			Location:       ports.GeoLocationInput{Address: shipment.Origin},
			Description:    "shipment registered",
		})
		if err != nil {
			s.log.Warn().Err(err).Str("shipment_id", shipment.ID).Msg("failed to log registration event")
		}
	}

	s.log.Info().
		Str("shipment_id", shipment.ID).
		Str("reference", shipment.Reference).
		Str("shipment_type", string(shipmentType)).
		Msg("shipment created")

	return shipment, nil
}

// Get returns a single shipment by id.
func (s *ShipmentService) Get(ctx context.Context, id string) (*domain.Shipment, error) {
	shipment, err := s.shipments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shipment %s: %w", id, err)
	}
	return shipment, nil
}

// List returns a page of shipments for the console list view.
func (s *ShipmentService) List(ctx context.Context, filter ports.ListShipmentsFilter) (*ports.ListShipmentsResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	items, total, err := s.shipments.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListShipmentsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Transition applies a status change after validating it against the state
// machine. Requesting the current status is an idempotent no-op, which makes
// terminal-state retries safe.
func (s *ShipmentService) Transition(ctx context.Context, id string, next domain.Status) (*domain.Shipment, error) {
	if _, err := domain.ParseStatus(string(next)); err != nil {
		return nil, err
	}

	shipment, err := s.shipments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("transition shipment %s: %w", id, err)
	}

	if shipment.Status == next {
		return shipment, nil
	}

	if !shipment.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("transition shipment %s: %w (from %s to %s)",
			id, domain.ErrInvalidTransition, shipment.Status, next)
	}

	now := time.Now().UTC()
	if next == domain.StatusDelivered {
		if err := shipment.MarkDelivered(now); err != nil {
			return nil, fmt.Errorf("transition shipment %s: %w", id, err)
		}
	} else {
		shipment.Status = next
		shipment.UpdatedAt = now
	}

	if err := s.shipments.Put(ctx, shipment); err != nil {
		return nil, fmt.Errorf("transition shipment %s: %w", id, err)
	}

	s.log.Info().
		Str("shipment_id", id).
		Str("status", string(next)).
		Msg("shipment transitioned")

	return shipment, nil
}

// Update applies a partial update. Finalized shipments are immutable. Total
// weight and price are recomputed whenever cargo lines or pricing inputs
// change.
func (s *ShipmentService) Update(ctx context.Context, id string, in ports.UpdateShipmentInput) (*domain.Shipment, error) {
	shipment, err := s.shipments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update shipment %s: %w", id, err)
	}

	if shipment.Status.IsTerminal() {
		return nil, fmt.Errorf("update shipment %s: %w", id, domain.ErrShipmentFinalized)
	}

	if in.Origin != nil {
		if strings.TrimSpace(*in.Origin) == "" {
			return nil, fmt.Errorf("%w: origin must not be empty", domain.ErrValidation)
		}
		shipment.Origin = *in.Origin
	}
	if in.Destination != nil {
		if strings.TrimSpace(*in.Destination) == "" {
			return nil, fmt.Errorf("%w: destination must not be empty", domain.ErrValidation)
		}
		shipment.Destination = *in.Destination
	}
	if in.Customer != nil {
		shipment.Customer = *in.Customer
	}
	if in.Carrier != nil {
		shipment.Carrier = *in.Carrier
		shipment.CarrierName = ""
		if *in.Carrier != "" && s.carriers != nil {
			name, err := s.carriers.CarrierName(ctx, *in.Carrier)
			if err != nil {
				s.log.Warn().Err(err).Str("carrier", *in.Carrier).Msg("carrier name lookup failed")
			} else {
				shipment.CarrierName = name
			}
		}
	}
	if in.ShipmentType != nil {
		t, err := domain.ParseShipmentType(*in.ShipmentType)
		if err != nil {
			return nil, err
		}
		shipment.ShipmentType = t
	}
	if in.ScheduledDate != nil {
		shipment.ScheduledDate = *in.ScheduledDate
	}
	if in.EstimatedDeliveryDate != nil {
		shipment.EstimatedDeliveryDate = *in.EstimatedDeliveryDate
	}
	if in.Notes != nil {
		shipment.Notes = *in.Notes
	}
	if in.BasePrice != nil {
		shipment.BasePrice = *in.BasePrice
	}
	if in.DistanceKm != nil {
		shipment.DistanceKm = *in.DistanceKm
	}
	if in.ExtraFees != nil {
		shipment.ExtraFees = *in.ExtraFees
	}
	if in.Lines != nil {
		lines := toCargoLines(*in.Lines)
		for _, l := range lines {
			if err := l.Validate(); err != nil {
				return nil, err
			}
		}
		shipment.Lines = lines
		shipment.TotalWeight = domain.TotalWeightOf(lines)
	}

	totalPrice, err := s.calc.Price(shipment.BasePrice, shipment.TotalWeight, shipment.DistanceKm, shipment.ExtraFees)
	if err != nil {
		return nil, err
	}
	shipment.TotalPrice = totalPrice
	shipment.UpdatedAt = time.Now().UTC()

	if err := s.shipments.Put(ctx, shipment); err != nil {
		return nil, fmt.Errorf("update shipment %s: %w", id, err)
	}

	return shipment, nil
}

// Delete removes the shipment and cascades over its tracking data. The
// cascade is best-effort: the registry offers no cross-collection
// transaction, so a failed tracking cleanup is reported as a warning and
// does not resurrect the shipment record.
func (s *ShipmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.shipments.Get(ctx, id); err != nil {
		return fmt.Errorf("delete shipment %s: %w", id, err)
	}

	if err := s.shipments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete shipment %s: %w", id, err)
	}

	if err := s.tracking.DeleteForShipment(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("shipment_id", id).Msg("tracking cascade delete incomplete")
	}

	s.log.Info().Str("shipment_id", id).Msg("shipment deleted")
	return nil
}

// generateReference returns a human-readable reference in the format
// FR-XXXXXXXX.
func generateReference() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("FR-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("FR-%08X", b)
}

// generateTrackingNumber returns a tracking number in the format
// TRK-XXXXXXXXXXXX.
func generateTrackingNumber() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("TRK-%012X", time.Now().UnixNano()&0xFFFFFFFFFFFF)
	}
	return fmt.Sprintf("TRK-%012X", b)
}

func toCargoLines(in []ports.CargoLineInput) []domain.CargoLine {
	lines := make([]domain.CargoLine, len(in))
	for i, l := range in {
		lines[i] = domain.CargoLine{
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Weight:      l.Weight,
		}
	}
	return lines
}
