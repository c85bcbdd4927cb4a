package providers

import (
	"portal/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTestRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	prevReg, prevGather := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevReg
		prometheus.DefaultGatherer = prevGather
	})
	return reg
}

func TestMetricsProvider_DisabledIsNoop(t *testing.T) {
	reg := useTestRegistry(t)
	m := NewMetricsProvider(&structures.Config{})
	assert.IsType(t, &noopMetrics{}, m)

	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncUpstreamFetches("rss", "ok")
	m.ObserveUpstreamDuration("rss", time.Millisecond)
	m.ObservePersistenceDuration(time.Millisecond)
	m.SetKVKeys("file", 10)
	m.ObserveVisibleMessages(3)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}

func TestMetricsProvider_RecordsPortalSeries(t *testing.T) {
	reg := useTestRegistry(t)
	m, ok := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}}).(*MetricsProvider)
	require.True(t, ok)

	m.IncRequestsTotal("/widgets/{fname}", 200)
	m.IncRequestsTotal("/widgets/{fname}", 404)
	m.ObserveRequestDuration("/widgets/{fname}", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncUpstreamFetches("entry", "ok")
	m.IncUpstreamFetches("entry", "ok")
	m.IncUpstreamFetches("entry", "error")
	m.ObserveUpstreamDuration("entry", 20*time.Millisecond)
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.SetKVKeys("redis", 42)
	m.ObserveVisibleMessages(4)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/widgets/{fname}", "4xx")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.upstreamFetches.WithLabelValues("entry", "ok")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.kvKeys.WithLabelValues("redis")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "portal_visible_messages")
	assert.Contains(t, names, "portal_upstream_duration_seconds")
}

func TestStatusClass(t *testing.T) {
	cases := map[int]string{
		0:   "1xx",
		101: "1xx",
		204: "2xx",
		302: "3xx",
		401: "4xx",
		499: "4xx",
		502: "5xx",
		999: "5xx",
	}
	for code, want := range cases {
		assert.Equal(t, want, statusClass(code), "code %d", code)
	}
}
