package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the live-view server.
var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "grain",
		Name:      "active_sessions",
		Help:      "Number of live WebSocket sessions.",
	})

	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grain",
		Name:      "events_total",
		Help:      "Client events dispatched, by event type.",
	}, []string{"type"})

	eventErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "grain",
		Name:      "event_errors_total",
		Help:      "Client events that failed to dispatch.",
	})

	patchesSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "grain",
		Name:      "patches_sent_total",
		Help:      "Tree patches streamed to clients.",
	})

	eventDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "grain",
		Name:      "event_duration_seconds",
		Help:      "Time spent dispatching a client event, including effects.",
		Buckets:   prometheus.DefBuckets,
	})
)
