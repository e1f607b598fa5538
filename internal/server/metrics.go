package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several servers can coexist in tests.
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	searchResults  prometheus.Histogram
	relatedResults prometheus.Histogram
	snapshotSize   prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookmark_relevance_requests_total",
			Help: "API requests by endpoint and status code.",
		}, []string{"endpoint", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookmark_relevance_request_duration_seconds",
			Help:    "API request latency by endpoint.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"endpoint"}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookmark_relevance_search_results",
			Help:    "Bookmarks returned per search.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		}),
		relatedResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookmark_relevance_related_results",
			Help:    "Related bookmarks returned per request.",
			Buckets: prometheus.LinearBuckets(0, 5, 6),
		}),
		snapshotSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bookmark_relevance_snapshot_bookmarks",
			Help: "Bookmarks in the current snapshot.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.searchResults,
		m.relatedResults,
		m.snapshotSize,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SetSnapshotSize(n int) {
	m.snapshotSize.Set(float64(n))
}

func (m *Metrics) observe(endpoint string, code int, start time.Time) {
	m.requests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
