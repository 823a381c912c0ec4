package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freightops/freight-console/internal/api/metrics"
	"github.com/freightops/freight-console/internal/core/ports"
)

// EventDispatcher is the interface the handler uses to enqueue events for
// asynchronous ingestion.
type EventDispatcher interface {
	Enqueue(event ports.AppendEventInput)
	EnqueueBatch(events []ports.AppendEventInput)
}

// EventHandler handles tracking event ingestion and tracking reads.
type EventHandler struct {
	tracking   ports.TrackingService
	dispatcher EventDispatcher
}

func NewEventHandler(tracking ports.TrackingService, dispatcher EventDispatcher) *EventHandler {
	return &EventHandler{tracking: tracking, dispatcher: dispatcher}
}

// Receive handles POST /v1/events — appends a single event synchronously, so
// the caller observes the assigned sequence and the reprojected state.
//
// @Summary      Ingest a single tracking event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        body  body      trackingEventRequest  true  "Tracking event"
// @Success      201   {object}  trackingEventResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/events [post]
func (h *EventHandler) Receive(c echo.Context) error {
	var req trackingEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	event, err := h.tracking.Append(c.Request().Context(), toAppendInput(req))
	if err != nil {
		return err
	}

	metrics.EventsAppendedTotal.WithLabelValues(string(event.Status)).Inc()
	return c.JSON(http.StatusCreated, toEventResponse(*event))
}

// ReceiveBatch handles POST /v1/events/batch — enqueues a batch of events for
// asynchronous processing and returns 202.
//
// @Summary      Ingest a batch of tracking events
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        body  body      []trackingEventRequest  true  "Array of tracking events"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/events/batch [post]
func (h *EventHandler) ReceiveBatch(c echo.Context) error {
	var reqs []trackingEventRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.AppendEventInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("event[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toAppendInput(req))
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "events accepted",
		Count:   len(inputs),
	})
}

// Tracking handles GET /v1/shipments/:id/tracking — the latest-known-state
// projection for a shipment.
//
// @Summary      Get the current tracking state of a shipment
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Shipment id"
// @Success      200  {object}  trackingAggregateResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/shipments/{id}/tracking [get]
func (h *EventHandler) Tracking(c echo.Context) error {
	agg, err := h.tracking.Aggregate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAggregateResponse(agg))
}

// Events handles GET /v1/shipments/:id/events — the ordered event history.
//
// @Summary      Get the full tracking event history of a shipment
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Shipment id"
// @Success      200  {object}  eventHistoryResponse
// @Router       /v1/shipments/{id}/events [get]
func (h *EventHandler) Events(c echo.Context) error {
	shipmentID := c.Param("id")
	events, err := h.tracking.Events(c.Request().Context(), shipmentID)
	if err != nil {
		return err
	}

	items := make([]trackingEventResponse, len(events))
	for i, e := range events {
		items[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, eventHistoryResponse{
		ShipmentID: shipmentID,
		Events:     items,
	})
}
