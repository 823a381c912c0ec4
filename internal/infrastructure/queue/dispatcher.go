package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/freightops/freight-console/internal/api/metrics"
	"github.com/freightops/freight-console/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// DedupChecker abstracts the ingestion idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, shipmentID, status string, ts time.Time) (bool, error)
	Mark(ctx context.Context, shipmentID, status string, ts time.Time) error
}

// Dispatcher routes tracking events to a fixed set of workers using
// consistent hashing on the shipment id, so events for one shipment are
// always appended in the order they were received.
type Dispatcher struct {
	workers []chan ports.AppendEventInput
	service ports.TrackingService
	dedup   DedupChecker
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. dedup may be nil.
func NewDispatcher(numWorkers int, service ports.TrackingService, dedup DedupChecker, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AppendEventInput, numWorkers),
		service: service,
		dedup:   dedup,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AppendEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its shipment.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.AppendEventInput) {
	idx := d.shardIndex(event.ShipmentID)
	d.workers[idx] <- event
	metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues multiple events preserving per-shipment ordering.
func (d *Dispatcher) EnqueueBatch(events []ports.AppendEventInput) {
	for _, e := range events {
		d.Enqueue(e)
	}
}

// shardIndex maps a shipment id deterministically to a worker index.
func (d *Dispatcher) shardIndex(shipmentID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(shipmentID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AppendEventInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.process(ctx, id, event)
			metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, workerID int, event ports.AppendEventInput) {
	start := time.Now()

	if d.dedup != nil && !event.Timestamp.IsZero() {
		isDup, err := d.dedup.IsDuplicate(ctx, event.ShipmentID, event.Status, event.Timestamp)
		if err != nil {
			d.log.Warn().Err(err).Str("shipment_id", event.ShipmentID).Msg("dedup check failed, processing anyway")
		} else if isDup {
			metrics.EventsDedupTotal.WithLabelValues("hit").Inc()
			d.log.Debug().Str("shipment_id", event.ShipmentID).Str("status", event.Status).Msg("duplicate event skipped")
			return
		} else {
			metrics.EventsDedupTotal.WithLabelValues("miss").Inc()
		}
		if markErr := d.dedup.Mark(ctx, event.ShipmentID, event.Status, event.Timestamp); markErr != nil {
			d.log.Warn().Err(markErr).Str("shipment_id", event.ShipmentID).Msg("failed to set dedup key")
		}
	}

	if _, err := d.service.Append(ctx, event); err != nil {
		metrics.EventProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		d.log.Error().Err(err).
			Str("shipment_id", event.ShipmentID).
			Int("worker_id", workerID).
			Msg("event processing failed")
		return
	}

	metrics.EventProcessingDuration.WithLabelValues(event.Status).Observe(time.Since(start).Seconds())
	metrics.EventsAppendedTotal.WithLabelValues(event.Status).Inc()
}
