package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type cargoLineRequest struct {
	ProductName string  `json:"product_name" validate:"required"`
	Quantity    float64 `json:"quantity"     validate:"required,gt=0"`
	Weight      float64 `json:"weight"       validate:"required,gt=0"`
}

type createShipmentRequest struct {
	Reference    string             `json:"reference"`
	Customer     string             `json:"customer"`
	Carrier      string             `json:"carrier"`
	Origin       string             `json:"origin"        validate:"required"`
	Destination  string             `json:"destination"   validate:"required"`
	ShipmentType string             `json:"shipment_type" validate:"omitempty,oneof=import export local international"`
	Lines        []cargoLineRequest `json:"lines"         validate:"dive"`

	ScheduledDate         time.Time `json:"scheduled_date"`
	EstimatedDeliveryDate time.Time `json:"estimated_delivery_date"`
	Notes                 string    `json:"notes"`

	Status string `json:"status" validate:"omitempty,oneof=draft confirmed in_transit delivered cancelled delayed"`

	WithTracking   bool   `json:"with_tracking"`
	TrackingNumber string `json:"tracking_number"`

	BasePrice  float64 `json:"base_price"  validate:"gte=0"`
	DistanceKm float64 `json:"distance_km" validate:"gte=0"`
	ExtraFees  float64 `json:"extra_fees"  validate:"gte=0"`
}

// updateShipmentRequest is a partial update: absent fields are left untouched.
type updateShipmentRequest struct {
	Customer              *string             `json:"customer"`
	Carrier               *string             `json:"carrier"`
	Origin                *string             `json:"origin"`
	Destination           *string             `json:"destination"`
	ShipmentType          *string             `json:"shipment_type" validate:"omitempty,oneof=import export local international"`
	Lines                 *[]cargoLineRequest `json:"lines"         validate:"omitempty,dive"`
	ScheduledDate         *time.Time          `json:"scheduled_date"`
	EstimatedDeliveryDate *time.Time          `json:"estimated_delivery_date"`
	Notes                 *string             `json:"notes"`
	BasePrice             *float64            `json:"base_price"  validate:"omitempty,gte=0"`
	DistanceKm            *float64            `json:"distance_km" validate:"omitempty,gte=0"`
	ExtraFees             *float64            `json:"extra_fees"  validate:"omitempty,gte=0"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal domain changes.

type shipmentLinks struct {
	Self     string `json:"self"`
	Tracking string `json:"tracking,omitempty"`
	Events   string `json:"events,omitempty"`
}

type cargoLineResponse struct {
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Weight      float64 `json:"weight"`
}

type shipmentResponse struct {
	ID             string              `json:"id"`
	Reference      string              `json:"reference"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	Customer       string              `json:"customer"`
	Carrier        string              `json:"carrier"`
	CarrierName    string              `json:"carrier_name,omitempty"`
	Origin         string              `json:"origin"`
	Destination    string              `json:"destination"`
	ShipmentType   string              `json:"shipment_type"`
	Lines          []cargoLineResponse `json:"lines"`
	TotalWeight    float64             `json:"total_weight"`

	ScheduledDate         time.Time  `json:"scheduled_date"`
	EstimatedDeliveryDate time.Time  `json:"estimated_delivery_date"`
	ActualDeliveryDate    *time.Time `json:"actual_delivery_date,omitempty"`

	BasePrice  float64 `json:"base_price"`
	DistanceKm float64 `json:"distance_km"`
	ExtraFees  float64 `json:"extra_fees"`
	TotalPrice float64 `json:"total_price"`

	Notes  string `json:"notes,omitempty"`
	Status string `json:"status"`

	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Links     shipmentLinks `json:"_links"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listShipmentsResponse struct {
	Data       []shipmentResponse `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
