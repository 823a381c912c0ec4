package handler

import "time"

type coordinatesRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type locationRequest struct {
	Address     string              `json:"address"`
	Coordinates *coordinatesRequest `json:"coordinates"`
}

type trackingEventRequest struct {
	ShipmentID     string           `json:"shipment_id"     validate:"required"`
	TrackingNumber string           `json:"tracking_number"`
	Status         string           `json:"status"          validate:"required,oneof=registered picked_up in_transit in_customs out_for_delivery delivered delayed returned"`
	Timestamp      time.Time        `json:"timestamp"`
	Location       *locationRequest `json:"location"`
	Description    string           `json:"description"`
	IsNotified     bool             `json:"is_notified"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

type coordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type locationResponse struct {
	Address     string               `json:"address"`
	Coordinates *coordinatesResponse `json:"coordinates,omitempty"`
}

type trackingEventResponse struct {
	ID             string           `json:"id"`
	ShipmentID     string           `json:"shipment_id"`
	TrackingNumber string           `json:"tracking_number,omitempty"`
	Sequence       int64            `json:"sequence"`
	Timestamp      time.Time        `json:"timestamp"`
	Status         string           `json:"status"`
	Location       locationResponse `json:"location"`
	Description    string           `json:"description,omitempty"`
	IsNotified     bool             `json:"is_notified"`
}

type eventHistoryResponse struct {
	ShipmentID string                  `json:"shipment_id"`
	Events     []trackingEventResponse `json:"events"`
}

type trackingAggregateResponse struct {
	ShipmentID      string           `json:"shipment_id"`
	TrackingNumber  string           `json:"tracking_number,omitempty"`
	Status          string           `json:"status"`
	CurrentLocation locationResponse `json:"current_location"`
	LastUpdated     time.Time        `json:"last_updated"`
}
