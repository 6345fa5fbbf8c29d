// Package metrics provides Prometheus metrics collection for the MedSafe
// API. Besides the HTTP server metrics it tracks the analysis pipeline:
//   - analyses_total: Counter with workflow and outcome labels
//   - drugs_extracted_total: Counter of entities emitted by extraction
//   - interactions_found_total: Counter with severity label
//   - enrichment_fallback_total: Counter with collaborator label
//
// All metrics are automatically registered with the Prometheus default
// registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyses_total",
			Help: "Total analysis workflow executions",
		},
		[]string{"workflow", "outcome"},
	)

	DrugsExtractedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drugs_extracted_total",
			Help: "Total drug entities extracted from prescription text",
		},
	)

	InteractionsFoundTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_found_total",
			Help: "Total drug interactions resolved, by severity",
		},
		[]string{"severity"},
	)

	EnrichmentFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_fallback_total",
			Help: "Total fallbacks to deterministic enrichment, by collaborator",
		},
		[]string{"collaborator"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(DrugsExtractedTotal)
	prometheus.MustRegister(InteractionsFoundTotal)
	prometheus.MustRegister(EnrichmentFallbackTotal)
}
