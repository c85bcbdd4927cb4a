package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCacheProvider_CountsHitsAndMisses(t *testing.T) {
	metrics := &mockMetrics{}
	cache := &MetricsCacheProvider{
		CacheProviderInterface: &mapCache{data: map[string][]byte{"a": []byte("1")}},
		metrics:                metrics,
	}

	cache.Get("a")
	cache.Get("b")
	cache.Get("a")
	cache.Get("c")

	assert.Equal(t, 2, metrics.hits)
	assert.Equal(t, 2, metrics.misses)
}

func TestMetricsCacheProvider_SetAndStatsDelegate(t *testing.T) {
	inner := &mapCache{data: map[string][]byte{}}
	cache := &MetricsCacheProvider{CacheProviderInterface: inner, metrics: &mockMetrics{}}

	cache.Set("k", []byte("v"))

	assert.Equal(t, []byte("v"), inner.data["k"])
	assert.Equal(t, int64(1), cache.Stats().Entries)
}

func TestNewInstrumentedCacheProvider(t *testing.T) {
	disabled := NewInstrumentedCacheProvider(cacheConfig(false, 1, time.Second), &cacheTestLogger{}, &mockMetrics{})
	assert.IsType(t, &noopCache{}, disabled)

	metrics := &mockMetrics{}
	enabled := NewInstrumentedCacheProvider(cacheConfig(true, 1, time.Second), &cacheTestLogger{}, metrics)
	require.IsType(t, &MetricsCacheProvider{}, enabled)
	_, ok := enabled.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, metrics.misses)
}
