package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service. Each instance owns
// its registry, so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec   // labels: route, status
	HTTPDuration *prometheus.HistogramVec // labels: route

	UpstreamDuration *prometheus.HistogramVec // labels: provider, call
	UpstreamErrors   *prometheus.CounterVec   // labels: provider

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	RefreshTotal     prometheus.Counter
	RefreshFailures  prometheus.Counter
	DirectorySize    prometheus.Gauge
	DirectoryStale   prometheus.Gauge // 0=fresh, 1=stale
	IndicatorDur     prometheus.Histogram
	AIQueries        *prometheus.CounterVec // labels: type
}

// NewMetrics registers and returns all service metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finsight_http_requests_total",
			Help: "HTTP requests served (by route and status)",
		}, []string{"route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finsight_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finsight_upstream_request_duration_seconds",
			Help:    "Latency of calls to external providers",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "call"}),
		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finsight_upstream_errors_total",
			Help: "Provider calls that failed after the retry",
		}, []string{"provider"}),

		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finsight_cache_hits_total",
			Help: "Market-data cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finsight_cache_misses_total",
			Help: "Market-data cache misses",
		}),

		RefreshTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finsight_directory_refresh_total",
			Help: "Directory refresh attempts",
		}),
		RefreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finsight_directory_refresh_failures_total",
			Help: "Directory refreshes that kept the previous snapshot",
		}),
		DirectorySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "finsight_directory_companies",
			Help: "Companies in the current directory snapshot",
		}),
		DirectoryStale: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "finsight_directory_stale",
			Help: "Whether the directory snapshot is stale (1) or fresh (0)",
		}),
		IndicatorDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "finsight_indicator_compute_duration_seconds",
			Help:    "Indicator set computation latency",
			Buckets: []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001},
		}),
		AIQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finsight_ai_queries_total",
			Help: "Assistant queries processed (by response type)",
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.UpstreamDuration,
		m.UpstreamErrors,
		m.CacheHits,
		m.CacheMisses,
		m.RefreshTotal,
		m.RefreshFailures,
		m.DirectorySize,
		m.DirectoryStale,
		m.IndicatorDur,
		m.AIQueries,
	)

	return m
}

// Handler exposes the registry for the /metrics route.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
