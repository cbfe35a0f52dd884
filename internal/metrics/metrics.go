// Package metrics holds the prometheus instruments of the composer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "invoice_composer"

// Metrics groups the counters and histograms recorded by the composer. A nil
// *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	exports        *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec
	exportPages    prometheus.Histogram
	renders        *prometheus.CounterVec
	autosaves      *prometheus.CounterVec
	currency       *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New registers the instruments on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Exports by format and result.",
		}, []string{"format", "result"}), // result: success | failure
		exportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Time spent producing an export.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"format"}),
		exportPages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_pages",
			Help:      "Pages per PDF export.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Preview renders by result.",
		}, []string{"result"}), // success | placeholder
		autosaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autosaves_total",
			Help:      "Draft saves by result.",
		}, []string{"result"}),
		currency: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "currency_lookups_total",
			Help:      "Currency directory lookups by source.",
		}, []string{"source"}), // remote | cache | fallback
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.registry.MustRegister(
		m.exports, m.exportDuration, m.exportPages, m.renders,
		m.autosaves, m.currency, m.httpRequests, m.httpDuration,
	)
	return m
}

// Registry exposes the underlying registry for gathering
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveExport records one export attempt
func (m *Metrics) ObserveExport(format string, pages int, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.exports.WithLabelValues(format, result).Inc()
	m.exportDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil && pages > 0 {
		m.exportPages.Observe(float64(pages))
	}
}

// ObserveRender records a preview render
func (m *Metrics) ObserveRender(failed bool) {
	if m == nil {
		return
	}
	result := "success"
	if failed {
		result = "placeholder"
	}
	m.renders.WithLabelValues(result).Inc()
}

// ObserveAutosave records a draft save
func (m *Metrics) ObserveAutosave(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.autosaves.WithLabelValues(result).Inc()
}

// ObserveCurrencyLookup records where a currency list came from
func (m *Metrics) ObserveCurrencyLookup(source string) {
	if m == nil {
		return
	}
	m.currency.WithLabelValues(source).Inc()
}

// GinMiddleware records request counts and latency per route template.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
