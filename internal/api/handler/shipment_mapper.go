package handler

import (
	"github.com/freightops/freight-console/internal/core/domain"
	"github.com/freightops/freight-console/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createShipmentRequest) ports.CreateShipmentInput {
	return ports.CreateShipmentInput{
		Reference:    req.Reference,
		Customer:     req.Customer,
		Carrier:      req.Carrier,
		Origin:       req.Origin,
		Destination:  req.Destination,
		ShipmentType: req.ShipmentType,
		Lines:        toLineInputs(req.Lines),

		ScheduledDate:         req.ScheduledDate,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
		Notes:                 req.Notes,

		Status: req.Status,

		WithTracking:   req.WithTracking,
		TrackingNumber: req.TrackingNumber,

		BasePrice:  req.BasePrice,
		DistanceKm: req.DistanceKm,
		ExtraFees:  req.ExtraFees,
	}
}

func toUpdateInput(req updateShipmentRequest) ports.UpdateShipmentInput {
	in := ports.UpdateShipmentInput{
		Customer:              req.Customer,
		Carrier:               req.Carrier,
		Origin:                req.Origin,
		Destination:           req.Destination,
		ShipmentType:          req.ShipmentType,
		ScheduledDate:         req.ScheduledDate,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
		Notes:                 req.Notes,
		BasePrice:             req.BasePrice,
		DistanceKm:            req.DistanceKm,
		ExtraFees:             req.ExtraFees,
	}
	if req.Lines != nil {
		lines := toLineInputs(*req.Lines)
		in.Lines = &lines
	}
	return in
}

func toLineInputs(lines []cargoLineRequest) []ports.CargoLineInput {
	out := make([]ports.CargoLineInput, len(lines))
	for i, l := range lines {
		out[i] = ports.CargoLineInput{
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Weight:      l.Weight,
		}
	}
	return out
}

func toAppendInput(req trackingEventRequest) ports.AppendEventInput {
	in := ports.AppendEventInput{
		ShipmentID:     req.ShipmentID,
		TrackingNumber: req.TrackingNumber,
		Status:         req.Status,
		Timestamp:      req.Timestamp,
		Description:    req.Description,
		IsNotified:     req.IsNotified,
	}
	if req.Location != nil {
		in.Location.Address = req.Location.Address
		if req.Location.Coordinates != nil {
			in.Location.Coordinates = &ports.CoordinatesInput{
				Lat: req.Location.Coordinates.Lat,
				Lng: req.Location.Coordinates.Lng,
			}
		}
	}
	return in
}

// --- Domain → HTTP response ---

func toShipmentResponse(s *domain.Shipment) shipmentResponse {
	lines := make([]cargoLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = cargoLineResponse{
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Weight:      l.Weight,
		}
	}

	links := shipmentLinks{Self: "/v1/shipments/" + s.ID}
	if s.TrackingNumber != "" {
		links.Tracking = "/v1/shipments/" + s.ID + "/tracking"
		links.Events = "/v1/shipments/" + s.ID + "/events"
	}

	return shipmentResponse{
		ID:             s.ID,
		Reference:      s.Reference,
		TrackingNumber: s.TrackingNumber,
		Customer:       s.Customer,
		Carrier:        s.Carrier,
		CarrierName:    s.CarrierName,
		Origin:         s.Origin,
		Destination:    s.Destination,
		ShipmentType:   string(s.ShipmentType),
		Lines:          lines,
		TotalWeight:    s.TotalWeight,

		ScheduledDate:         s.ScheduledDate,
		EstimatedDeliveryDate: s.EstimatedDeliveryDate,
		ActualDeliveryDate:    s.ActualDeliveryDate,

		BasePrice:  s.BasePrice,
		DistanceKm: s.DistanceKm,
		ExtraFees:  s.ExtraFees,
		TotalPrice: s.TotalPrice,

		Notes:  s.Notes,
		Status: string(s.Status),

		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Links:     links,
	}
}

func toListResponse(r *ports.ListShipmentsResult) listShipmentsResponse {
	items := make([]shipmentResponse, len(r.Items))
	for i, s := range r.Items {
		items[i] = toShipmentResponse(s)
	}
	return listShipmentsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toLocationResponse(l domain.GeoLocation) locationResponse {
	out := locationResponse{Address: l.Address}
	if l.Coordinates != nil {
		out.Coordinates = &coordinatesResponse{Lat: l.Coordinates.Lat, Lng: l.Coordinates.Lng}
	}
	return out
}

func toEventResponse(e domain.TrackingEvent) trackingEventResponse {
	return trackingEventResponse{
		ID:             e.ID,
		ShipmentID:     e.ShipmentID,
		TrackingNumber: e.TrackingNumber,
		Sequence:       e.Sequence,
		Timestamp:      e.Timestamp,
		Status:         string(e.Status),
		Location:       toLocationResponse(e.Location),
		Description:    e.Description,
		IsNotified:     e.IsNotified,
	}
}

func toAggregateResponse(a *domain.TrackingAggregate) trackingAggregateResponse {
	return trackingAggregateResponse{
		ShipmentID:      a.ShipmentID,
		TrackingNumber:  a.TrackingNumber,
		Status:          string(a.Status),
		CurrentLocation: toLocationResponse(a.CurrentLocation),
		LastUpdated:     a.LastUpdated,
	}
}
