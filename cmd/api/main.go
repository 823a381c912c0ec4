package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/freightops/freight-console/internal/api"
	"github.com/freightops/freight-console/internal/core/service"
	"github.com/freightops/freight-console/internal/core/tariff"
	"github.com/freightops/freight-console/internal/infrastructure/config"
	mongodb "github.com/freightops/freight-console/internal/infrastructure/db/mongo"
	redisdb "github.com/freightops/freight-console/internal/infrastructure/db/redis"
	"github.com/freightops/freight-console/internal/infrastructure/queue"
	"github.com/freightops/freight-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "freight-console",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories ---
	shipmentRepo := mongodb.NewShipmentRepository(db)
	eventRepo := mongodb.NewTrackingEventRepository(db)
	aggRepo := mongodb.NewTrackingAggregateRepository(db)
	carriers := mongodb.NewCarrierDirectory(db)

	if err := shipmentRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create shipment indexes")
	}
	if err := eventRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create tracking event indexes")
	}

	cache := redisdb.NewAggregateCache(rdb, 0)
	dedup := redisdb.NewDedupChecker(rdb)

	// --- Core services ---
	calc := tariff.NewCalculator(tariff.DefaultRates)
	projector := service.NewProjector(eventRepo, aggRepo, shipmentRepo, cache, log)
	trackingSvc := service.NewTrackingService(eventRepo, aggRepo, projector, cache, log)
	shipmentSvc := service.NewShipmentService(shipmentRepo, trackingSvc, carriers, calc, log)

	// --- Async event ingestion ---
	dispatcher := queue.NewDispatcher(cfg.EventWorkers, trackingSvc, dedup, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		Shipments:  shipmentSvc,
		Tracking:   trackingSvc,
		Dispatcher: dispatcher,
		Tariff:     calc,
		Mongo:      db,
		Redis:      rdb,
		Log:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, draining")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
