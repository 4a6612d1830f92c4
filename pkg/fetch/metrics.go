package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "statekit"
	metricsSubsystem = "fetch"
)

var (
	// requestsTotal counts completed fetch operations by outcome.
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "requests_total",
		Help:      "Completed fetch operations by outcome.",
	}, []string{"outcome"})

	// requestDuration observes fetch latency from dispatch to settle.
	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "request_duration_seconds",
		Help:      "Fetch operation duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	// inFlight tracks currently outstanding fetch operations.
	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "in_flight_requests",
		Help:      "Number of fetch operations currently outstanding.",
	})
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)
