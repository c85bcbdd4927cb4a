package providers

import (
	"portal/internal/structures"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "portal"

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncUpstreamFetches(kind string, outcome string)
	ObserveUpstreamDuration(kind string, duration time.Duration)
	ObservePersistenceDuration(duration time.Duration)
	SetKVKeys(driver string, count int)
	ObserveVisibleMessages(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	upstreamFetches     *prometheus.CounterVec
	upstreamDuration    *prometheus.HistogramVec
	persistenceDuration prometheus.Histogram
	kvKeys              *prometheus.GaugeVec
	visibleMessages     prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, statusClass(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncUpstreamFetches(kind string, outcome string) {
	m.upstreamFetches.WithLabelValues(kind, outcome).Inc()
}

func (m *MetricsProvider) ObserveUpstreamDuration(kind string, duration time.Duration) {
	m.upstreamDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetKVKeys(driver string, count int) {
	m.kvKeys.WithLabelValues(driver).Set(float64(count))
}

func (m *MetricsProvider) ObserveVisibleMessages(count int) {
	m.visibleMessages.Observe(float64(count))
}

// statusClass folds a status code into its class label, e.g. 404 -> "4xx".
func statusClass(code int) string {
	class := code / 100
	if class < 1 {
		class = 1
	} else if class > 5 {
		class = 5
	}
	return strconv.Itoa(class) + "xx"
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}
	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "Total number of upstream cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_misses_total",
			Help:      "Total number of upstream cache misses",
		}),

		upstreamFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_fetches_total",
			Help:      "Upstream fetches by kind and outcome",
		}, []string{"kind", "outcome"}),

		upstreamDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_duration_seconds",
			Help:      "Upstream fetch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "persistence_duration_seconds",
			Help:      "Duration of key/value persistence operations in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		kvKeys: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "kv_keys",
			Help:      "Number of keys held by the key/value store",
		}, []string{"driver"}),

		visibleMessages: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "visible_messages",
			Help:      "Messages left visible to a user after audience filtering",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
	}
}

type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
func (n *noopMetrics) IncUpstreamFetches(_ string, _ string)             {}
func (n *noopMetrics) ObserveUpstreamDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)        {}
func (n *noopMetrics) SetKVKeys(_ string, _ int)                         {}
func (n *noopMetrics) ObserveVisibleMessages(_ int)                      {}
