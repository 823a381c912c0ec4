package domain

import (
	"fmt"
	"time"
)

// PackageStatus is the status reported by a tracking event. It is a superset
// of the shipment lifecycle: carriers report observations (customs holds,
// out-for-delivery scans) that never appear on the shipment record itself.
type PackageStatus string

const (
	PackageRegistered     PackageStatus = "registered"
	PackagePickedUp       PackageStatus = "picked_up"
	PackageInTransit      PackageStatus = "in_transit"
	PackageInCustoms      PackageStatus = "in_customs"
	PackageOutForDelivery PackageStatus = "out_for_delivery"
	PackageDelivered      PackageStatus = "delivered"
	PackageDelayed        PackageStatus = "delayed"
	PackageReturned       PackageStatus = "returned"
)

// ParsePackageStatus converts a raw string to a PackageStatus.
func ParsePackageStatus(raw string) (PackageStatus, error) {
	switch s := PackageStatus(raw); s {
	case PackageRegistered, PackagePickedUp, PackageInTransit, PackageInCustoms,
		PackageOutForDelivery, PackageDelivered, PackageDelayed, PackageReturned:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown package status %q", ErrValidation, raw)
}

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// GeoLocation is a free-text address with optional coordinates.
type GeoLocation struct {
	Address     string       `json:"address" bson:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

// TrackingEvent is an immutable, timestamped observation of a shipment's
// status and location. Events are never updated or deleted; the log per
// shipment only grows. Sequence records insertion order and breaks ties
// between events carrying the same timestamp.
type TrackingEvent struct {
	ID             string        `json:"id" bson:"_id,omitempty"`
	ShipmentID     string        `json:"shipment_id" bson:"shipment_id"`
	TrackingNumber string        `json:"tracking_number" bson:"tracking_number"`
	Sequence       int64         `json:"sequence" bson:"sequence"`
	Timestamp      time.Time     `json:"timestamp" bson:"timestamp"`
	Status         PackageStatus `json:"status" bson:"status"`
	Location       GeoLocation   `json:"location" bson:"location"`
	Description    string        `json:"description,omitempty" bson:"description,omitempty"`
	IsNotified     bool          `json:"is_notified" bson:"is_notified"`
}

// TrackingAggregate is the latest-known-state projection derived from the
// event log. It is a cache, not a source of truth: replaying the log in
// (timestamp, sequence) order always reproduces it.
type TrackingAggregate struct {
	ShipmentID      string        `json:"shipment_id" bson:"_id"`
	TrackingNumber  string        `json:"tracking_number" bson:"tracking_number"`
	Status          PackageStatus `json:"status" bson:"status"`
	CurrentLocation GeoLocation   `json:"current_location" bson:"current_location"`
	LastUpdated     time.Time     `json:"last_updated" bson:"last_updated"`
}
