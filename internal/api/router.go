package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/freightops/freight-console/internal/api/handler"
	"github.com/freightops/freight-console/internal/core/ports"
	"github.com/freightops/freight-console/internal/core/tariff"
)

// Dependencies carries everything the router needs to register routes.
// Services are constructed in main so the wiring stays in one place.
type Dependencies struct {
	Shipments  ports.ShipmentService
	Tracking   ports.TrackingService
	Dispatcher handler.EventDispatcher
	Tariff     *tariff.Calculator

	Mongo *mongo.Database
	Redis *redis.Client
	Log   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("freight"))

	// --- Handlers ---
	shipmentHandler := handler.NewShipmentHandler(deps.Shipments)
	eventHandler := handler.NewEventHandler(deps.Tracking, deps.Dispatcher)
	tariffHandler := handler.NewTariffHandler(deps.Tariff)

	// --- Shipment lifecycle ---
	e.POST("/v1/shipments", shipmentHandler.Create)
	e.GET("/v1/shipments", shipmentHandler.List)
	e.GET("/v1/shipments/:id", shipmentHandler.Get)
	e.PATCH("/v1/shipments/:id", shipmentHandler.Update)
	e.DELETE("/v1/shipments/:id", shipmentHandler.Delete)
	e.POST("/v1/shipments/:id/transition", shipmentHandler.Transition)

	// --- Tracking reads ---
	e.GET("/v1/shipments/:id/tracking", eventHandler.Tracking)
	e.GET("/v1/shipments/:id/events", eventHandler.Events)

	// --- Event ingestion ---
	e.POST("/v1/events", eventHandler.Receive)
	e.POST("/v1/events/batch", eventHandler.ReceiveBatch)

	// --- Tariff quotes ---
	e.POST("/v1/tariff/quote", tariffHandler.Quote)

	// --- Observability and health probes ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	return e
}
