package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/freightops/freight-console/internal/core/domain"
	"github.com/freightops/freight-console/internal/core/ports"
)

type stubTrackingService struct {
	appendFn    func(ctx context.Context, input ports.AppendEventInput) (*domain.TrackingEvent, error)
	aggregateFn func(ctx context.Context, shipmentID string) (*domain.TrackingAggregate, error)
	eventsFn    func(ctx context.Context, shipmentID string) ([]domain.TrackingEvent, error)
}

func (s *stubTrackingService) Append(ctx context.Context, input ports.AppendEventInput) (*domain.TrackingEvent, error) {
	return s.appendFn(ctx, input)
}

func (s *stubTrackingService) Aggregate(ctx context.Context, shipmentID string) (*domain.TrackingAggregate, error) {
	return s.aggregateFn(ctx, shipmentID)
}

func (s *stubTrackingService) Events(ctx context.Context, shipmentID string) ([]domain.TrackingEvent, error) {
	return s.eventsFn(ctx, shipmentID)
}

func (s *stubTrackingService) DeleteForShipment(ctx context.Context, shipmentID string) error {
	return nil
}

type stubDispatcher struct {
	enqueued []ports.AppendEventInput
}

func (s *stubDispatcher) Enqueue(event ports.AppendEventInput) {
	s.enqueued = append(s.enqueued, event)
}

func (s *stubDispatcher) EnqueueBatch(events []ports.AppendEventInput) {
	s.enqueued = append(s.enqueued, events...)
}

func newEventContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestEventHandler_Receive_Success(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubTrackingService{
		appendFn: func(ctx context.Context, input ports.AppendEventInput) (*domain.TrackingEvent, error) {
			if input.ShipmentID != "ship_1" || input.Status != "in_transit" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.TrackingEvent{
				ID:         "evt_1",
				ShipmentID: input.ShipmentID,
				Sequence:   3,
				Timestamp:  ts,
				Status:     domain.PackageInTransit,
			}, nil
		},
	}
	handler := NewEventHandler(stub, &stubDispatcher{})

	c, rec := newEventContext(t, http.MethodPost, "/v1/events",
		`{"shipment_id":"ship_1","status":"in_transit","timestamp":"2026-03-01T12:00:00Z"}`)
	if err := handler.Receive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp trackingEventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "evt_1" || resp.Sequence != 3 || resp.Status != "in_transit" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestEventHandler_Receive_UnknownStatus(t *testing.T) {
	handler := NewEventHandler(&stubTrackingService{}, &stubDispatcher{})

	c, _ := newEventContext(t, http.MethodPost, "/v1/events",
		`{"shipment_id":"ship_1","status":"teleported"}`)
	err := handler.Receive(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEventHandler_Receive_MissingShipmentID(t *testing.T) {
	handler := NewEventHandler(&stubTrackingService{}, &stubDispatcher{})

	c, _ := newEventContext(t, http.MethodPost, "/v1/events", `{"status":"in_transit"}`)
	err := handler.Receive(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEventHandler_ReceiveBatch_Success(t *testing.T) {
	dispatcher := &stubDispatcher{}
	handler := NewEventHandler(&stubTrackingService{}, dispatcher)

	body := `[
		{"shipment_id":"ship_1","status":"picked_up"},
		{"shipment_id":"ship_2","status":"delivered"}
	]`
	c, rec := newEventContext(t, http.MethodPost, "/v1/events/batch", body)
	if err := handler.ReceiveBatch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(dispatcher.enqueued) != 2 {
		t.Fatalf("expected 2 enqueued events, got %d", len(dispatcher.enqueued))
	}

	var resp acceptedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected count 2, got %d", resp.Count)
	}
}

func TestEventHandler_ReceiveBatch_Empty(t *testing.T) {
	handler := NewEventHandler(&stubTrackingService{}, &stubDispatcher{})

	c, _ := newEventContext(t, http.MethodPost, "/v1/events/batch", `[]`)
	err := handler.ReceiveBatch(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestEventHandler_ReceiveBatch_InvalidItem(t *testing.T) {
	dispatcher := &stubDispatcher{}
	handler := NewEventHandler(&stubTrackingService{}, dispatcher)

	body := `[
		{"shipment_id":"ship_1","status":"picked_up"},
		{"shipment_id":"","status":"picked_up"}
	]`
	c, _ := newEventContext(t, http.MethodPost, "/v1/events/batch", body)
	err := handler.ReceiveBatch(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
	if len(dispatcher.enqueued) != 0 {
		t.Fatalf("nothing should be enqueued when an item fails validation")
	}
}

func TestEventHandler_Tracking_Success(t *testing.T) {
	ts := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	stub := &stubTrackingService{
		aggregateFn: func(ctx context.Context, shipmentID string) (*domain.TrackingAggregate, error) {
			return &domain.TrackingAggregate{
				ShipmentID:      shipmentID,
				Status:          domain.PackageOutForDelivery,
				CurrentLocation: domain.GeoLocation{Address: "Rotterdam hub"},
				LastUpdated:     ts,
			}, nil
		},
	}
	handler := NewEventHandler(stub, &stubDispatcher{})

	c, rec := newEventContext(t, http.MethodGet, "/v1/shipments/ship_1/tracking", "")
	c.SetParamNames("id")
	c.SetParamValues("ship_1")

	if err := handler.Tracking(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp trackingAggregateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "out_for_delivery" || resp.CurrentLocation.Address != "Rotterdam hub" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestEventHandler_Tracking_NotFound(t *testing.T) {
	stub := &stubTrackingService{
		aggregateFn: func(ctx context.Context, shipmentID string) (*domain.TrackingAggregate, error) {
			return nil, domain.ErrTrackingNotFound
		},
	}
	handler := NewEventHandler(stub, &stubDispatcher{})

	c, _ := newEventContext(t, http.MethodGet, "/v1/shipments/ship_x/tracking", "")
	c.SetParamNames("id")
	c.SetParamValues("ship_x")

	err := handler.Tracking(c)
	if !errors.Is(err, domain.ErrTrackingNotFound) {
		t.Fatalf("expected tracking not found, got %v", err)
	}
}

func TestEventHandler_Events_Ordered(t *testing.T) {
	stub := &stubTrackingService{
		eventsFn: func(ctx context.Context, shipmentID string) ([]domain.TrackingEvent, error) {
			return []domain.TrackingEvent{
				{ID: "evt_1", ShipmentID: shipmentID, Sequence: 1, Status: domain.PackageRegistered},
				{ID: "evt_2", ShipmentID: shipmentID, Sequence: 2, Status: domain.PackageInTransit},
			}, nil
		},
	}
	handler := NewEventHandler(stub, &stubDispatcher{})

	c, rec := newEventContext(t, http.MethodGet, "/v1/shipments/ship_1/events", "")
	c.SetParamNames("id")
	c.SetParamValues("ship_1")

	if err := handler.Events(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp eventHistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Events) != 2 || resp.Events[0].ID != "evt_1" || resp.Events[1].ID != "evt_2" {
		t.Fatalf("unexpected history: %+v", resp.Events)
	}
}
