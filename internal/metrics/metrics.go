// Package metrics exposes Prometheus counters for the search cascade and the HTTP layer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements search.Recorder and normalize.SkipObserver.
type Collector struct {
	strategyAttempts *prometheus.CounterVec
	strategyFailures *prometheus.CounterVec
	normalizeSkips   *prometheus.CounterVec
	httpStatus       *prometheus.CounterVec
	requestLatency   *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		strategyAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buildings_search_strategy_attempts_total",
			Help: "Search strategy executions by strategy.",
		}, []string{"strategy"}),
		strategyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buildings_search_strategy_failures_total",
			Help: "Search strategy failures that demoted to the next strategy.",
		}, []string{"strategy"}),
		normalizeSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buildings_normalization_skips_total",
			Help: "Upstream rows dropped during normalization, by row shape.",
		}, []string{"shape"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buildings_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "buildings_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.strategyAttempts,
		c.strategyFailures,
		c.normalizeSkips,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordStrategyAttempt counts one strategy execution.
func (c *Collector) RecordStrategyAttempt(strategy string) {
	c.strategyAttempts.WithLabelValues(strategy).Inc()
}

// RecordStrategyFailure counts one strategy demotion.
func (c *Collector) RecordStrategyFailure(strategy string) {
	c.strategyFailures.WithLabelValues(strategy).Inc()
}

// RecordNormalizationSkip counts one dropped row.
func (c *Collector) RecordNormalizationSkip(shape string) {
	c.normalizeSkips.WithLabelValues(shape).Inc()
}

// RecordHTTPRequest records the status and latency of one request.
func (c *Collector) RecordHTTPRequest(route string, statusCode int, duration time.Duration) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.requestLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler returns the /metrics handler for the given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
