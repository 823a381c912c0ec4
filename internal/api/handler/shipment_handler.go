package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/freightops/freight-console/internal/api/metrics"
	"github.com/freightops/freight-console/internal/core/domain"
	"github.com/freightops/freight-console/internal/core/ports"
)

// ShipmentHandler exposes the shipment lifecycle over HTTP.
type ShipmentHandler struct {
	service ports.ShipmentService
}

func NewShipmentHandler(service ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

// Create handles POST /v1/shipments.
//
// @Summary      Create a new shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        body  body      createShipmentRequest  true  "Shipment details"
// @Success      201   {object}  shipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/shipments [post]
func (h *ShipmentHandler) Create(c echo.Context) error {
	var req createShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	shipment, err := h.service.Create(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}

	metrics.ShipmentsCreatedTotal.WithLabelValues(string(shipment.ShipmentType)).Inc()
	return c.JSON(http.StatusCreated, toShipmentResponse(shipment))
}

// Get handles GET /v1/shipments/:id.
//
// @Summary      Get a shipment by id
// @Tags         shipments
// @Produce      json
// @Param        id   path      string  true  "Shipment id"
// @Success      200  {object}  shipmentResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/shipments/{id} [get]
func (h *ShipmentHandler) Get(c echo.Context) error {
	shipment, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}

// List handles GET /v1/shipments.
//
// @Summary      List shipments with optional filters and pagination
// @Tags         shipments
// @Produce      json
// @Param        status         query     string  false  "Filter by shipment status"
// @Param        shipment_type  query     string  false  "Filter by shipment type"
// @Param        customer       query     string  false  "Filter by customer"
// @Param        search         query     string  false  "Partial match on reference or tracking number"
// @Param        date_from      query     string  false  "Created at or after (RFC 3339)"
// @Param        date_to        query     string  false  "Created at or before (RFC 3339)"
// @Param        page           query     int     false  "Page number (1-based)"
// @Param        limit          query     int     false  "Page size (max 100)"
// @Success      200  {object}  listShipmentsResponse
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/shipments [get]
func (h *ShipmentHandler) List(c echo.Context) error {
	filter, err := parseListFilter(c)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Update handles PATCH /v1/shipments/:id — a partial update of mutable fields.
//
// @Summary      Update a shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Shipment id"
// @Param        body  body      updateShipmentRequest  true  "Fields to update"
// @Success      200   {object}  shipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/shipments/{id} [patch]
func (h *ShipmentHandler) Update(c echo.Context) error {
	var req updateShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	shipment, err := h.service.Update(c.Request().Context(), c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}

// Transition handles POST /v1/shipments/:id/transition.
//
// @Summary      Apply a status transition to a shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Shipment id"
// @Param        body  body      transitionRequest  true  "Target status"
// @Success      200   {object}  shipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/shipments/{id}/transition [post]
func (h *ShipmentHandler) Transition(c echo.Context) error {
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	next, err := domain.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	current, err := h.service.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			metrics.TransitionErrorsTotal.WithLabelValues("not_found").Inc()
		}
		return err
	}
	from := current.Status

	shipment, err := h.service.Transition(ctx, c.Param("id"), next)
	if err != nil {
		metrics.TransitionErrorsTotal.WithLabelValues(transitionErrorReason(err)).Inc()
		return err
	}

	metrics.ShipmentTransitionsTotal.WithLabelValues(string(from), string(shipment.Status)).Inc()
	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}

// Delete handles DELETE /v1/shipments/:id — removes the shipment together with
// its tracking events and aggregate.
//
// @Summary      Delete a shipment and its tracking data
// @Tags         shipments
// @Param        id  path  string  true  "Shipment id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/shipments/{id} [delete]
func (h *ShipmentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func transitionErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrShipmentNotFound):
		return "not_found"
	default:
		return "other"
	}
}

func parseListFilter(c echo.Context) (ports.ListShipmentsFilter, error) {
	filter := ports.ListShipmentsFilter{
		Status:       c.QueryParam("status"),
		ShipmentType: c.QueryParam("shipment_type"),
		Customer:     c.QueryParam("customer"),
		Search:       c.QueryParam("search"),
	}

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
		}
		filter.Page = page
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		filter.Limit = limit
	}
	if raw := c.QueryParam("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "date_from must be RFC 3339")
		}
		filter.DateFrom = t
	}
	if raw := c.QueryParam("date_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "date_to must be RFC 3339")
		}
		filter.DateTo = t
	}

	return filter, nil
}
