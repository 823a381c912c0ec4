package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freightops/freight-console/internal/api/metrics"
	"github.com/freightops/freight-console/internal/core/tariff"
)

type tariffQuoteRequest struct {
	BasePrice   float64 `json:"base_price"   validate:"gte=0"`
	TotalWeight float64 `json:"total_weight" validate:"gte=0"`
	DistanceKm  float64 `json:"distance_km"  validate:"gte=0"`
	ExtraFees   float64 `json:"extra_fees"   validate:"gte=0"`
}

type tariffQuoteResponse struct {
	BasePrice   float64 `json:"base_price"`
	TotalWeight float64 `json:"total_weight"`
	DistanceKm  float64 `json:"distance_km"`
	ExtraFees   float64 `json:"extra_fees"`
	TotalPrice  float64 `json:"total_price"`
}

// TariffHandler exposes the cost engine as a stateless quote endpoint.
type TariffHandler struct {
	calc *tariff.Calculator
}

func NewTariffHandler(calc *tariff.Calculator) *TariffHandler {
	return &TariffHandler{calc: calc}
}

// Quote handles POST /v1/tariff/quote.
//
// @Summary      Price a hypothetical shipment without persisting anything
// @Tags         tariff
// @Accept       json
// @Produce      json
// @Param        body  body      tariffQuoteRequest  true  "Pricing inputs"
// @Success      200   {object}  tariffQuoteResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/tariff/quote [post]
func (h *TariffHandler) Quote(c echo.Context) error {
	var req tariffQuoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.TariffQuotesTotal.WithLabelValues("rejected").Inc()
		return err
	}

	total, err := h.calc.Price(req.BasePrice, req.TotalWeight, req.DistanceKm, req.ExtraFees)
	if err != nil {
		metrics.TariffQuotesTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.TariffQuotesTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, tariffQuoteResponse{
		BasePrice:   req.BasePrice,
		TotalWeight: req.TotalWeight,
		DistanceKm:  req.DistanceKm,
		ExtraFees:   req.ExtraFees,
		TotalPrice:  total,
	})
}
