// Package metrics defines and registers all custom Prometheus metrics for
// the freight console. It is the single source of truth for metric names,
// labels, and help strings. Metrics register themselves with the default
// registry via promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "freight"

// ── Shipment metrics ──────────────────────────────────────────────────────────

// ShipmentsCreatedTotal counts newly created shipments.
// Label:
//   - shipment_type: "import", "export", "local", or "international"
var ShipmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipments_created_total",
		Help:      "Total number of shipments created, by shipment type.",
	},
	[]string{"shipment_type"},
)

// ShipmentTransitionsTotal counts applied status transitions.
// Labels:
//   - from: the previous shipment status
//   - to: the applied shipment status
var ShipmentTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipment_transitions_total",
		Help:      "Total number of shipment status transitions applied.",
	},
	[]string{"from", "to"},
)

// TransitionErrorsTotal counts rejected status transitions.
// Label:
//   - reason: "invalid_transition", "not_found", or "other"
var TransitionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_errors_total",
		Help:      "Total number of shipment status transitions that were rejected.",
	},
	[]string{"reason"},
)

// ── Tracking event metrics ────────────────────────────────────────────────────

// EventsAppendedTotal counts tracking events appended to the log.
// Label:
//   - status: the package status carried by the event
var EventsAppendedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_appended_total",
		Help:      "Total number of tracking events appended.",
	},
	[]string{"status"},
)

// EventsDedupTotal counts ingestion deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, processed)
var EventsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dedup_total",
		Help:      "Total number of ingestion deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// EventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventProcessingDuration measures how long a single ingested event takes to
// append and reproject, end to end.
// Label:
//   - status: the package status, or "error" on failure
var EventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_processing_duration_seconds",
		Help:      "Duration of event processing from dequeue to projection.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"status"},
)

// ── Tariff metrics ────────────────────────────────────────────────────────────

// TariffQuotesTotal counts tariff calculations served over the API.
// Label:
//   - result: "ok" or "rejected"
var TariffQuotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tariff_quotes_total",
		Help:      "Total number of tariff quotes computed, by result.",
	},
	[]string{"result"},
)
