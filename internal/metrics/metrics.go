// Package metrics holds the Prometheus collectors for fireforget.
//
// Every Collector owns a private registry, so tests can create as many as
// they like without duplicate-registration panics. All methods are safe on
// a nil *Collector, which lets services run without metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fireforget"

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	IndexRebuilds  *prometheus.CounterVec
	RebuildSeconds prometheus.Histogram
	IndexChunks    prometheus.Gauge
	Searches       prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector creates a collector with its metrics registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		IndexRebuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "index_rebuilds_total",
				Help:      "Total number of index rebuilds by result.",
			},
			[]string{"result"},
		),
		RebuildSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "index_rebuild_seconds",
				Help:      "Time spent building and saving the index.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		IndexChunks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_chunks",
				Help:      "Number of chunks in the published index.",
			},
		),
		Searches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of non-empty search queries.",
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		c.IndexRebuilds,
		c.RebuildSeconds,
		c.IndexChunks,
		c.Searches,
		c.HTTPRequests,
		c.HTTPDuration,
	)
	return c
}

// Registry returns the registry to expose over HTTP.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return prometheus.NewRegistry()
	}
	return c.registry
}

// ObserveRebuild records one rebuild attempt.
func (c *Collector) ObserveRebuild(d time.Duration, chunks int, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.IndexRebuilds.WithLabelValues("error").Inc()
		return
	}
	c.IndexRebuilds.WithLabelValues("ok").Inc()
	c.RebuildSeconds.Observe(d.Seconds())
	c.IndexChunks.Set(float64(chunks))
}

// ObservePublished records the size of an index loaded from disk.
func (c *Collector) ObservePublished(chunks int) {
	if c == nil {
		return
	}
	c.IndexChunks.Set(float64(chunks))
}

// ObserveSearch counts one search.
func (c *Collector) ObserveSearch() {
	if c == nil {
		return
	}
	c.Searches.Inc()
}

// ObserveHTTP records one HTTP request.
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, statusText(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func statusText(status int) string {
	if status == 0 {
		status = 200
	}
	return strconv.Itoa(status)
}
