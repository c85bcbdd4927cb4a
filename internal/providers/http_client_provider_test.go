package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"portal/internal/errs"
	"portal/internal/structures"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	data map[string][]byte
}

func (c *mapCache) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache) Set(key string, value []byte) { c.data[key] = value }
func (c *mapCache) Stats() CacheStats { return CacheStats{Enabled: true, Entries: int64(len(c.data))} }

func newTestClient(t *testing.T, conf *structures.Config) (*HttpClientProvider, *mapCache, *mockMetrics) {
	t.Helper()
	cache := &mapCache{data: map[string][]byte{}}
	metrics := &mockMetrics{}
	c := NewHttpClientProvider(conf, cache, metrics, &cacheTestLogger{}).(*HttpClientProvider)
	return c, cache, metrics
}

func TestHttpClient_GetForwardsUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "jdoe", r.Header.Get("X-Remote-User"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	conf := &structures.Config{Upstream: structures.UpstreamConfig{UserHeader: "X-Remote-User"}}
	c, _, metrics := newTestClient(t, conf)

	body, err := c.Get(context.Background(), srv.URL, FetchOptions{User: "jdoe", Kind: "entry"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, 1, metrics.upstream["entry:ok"])
}

func TestHttpClient_CachesPerUser(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, cache, _ := newTestClient(t, &structures.Config{})
	ctx := context.Background()

	_, err := c.Get(ctx, srv.URL, FetchOptions{User: "a", Cache: true})
	require.NoError(t, err)
	_, err = c.Get(ctx, srv.URL, FetchOptions{User: "a", Cache: true})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	_, err = c.Get(ctx, srv.URL, FetchOptions{User: "b", Cache: true})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Len(t, cache.data, 2)
}

func TestHttpClient_NoCacheHint(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`3`))
	}))
	defer srv.Close()

	c, cache, _ := newTestClient(t, &structures.Config{})
	for i := 0; i < 2; i++ {
		_, err := c.Get(context.Background(), srv.URL, FetchOptions{User: "a"})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls.Load())
	assert.Empty(t, cache.data)
}

func TestHttpClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, cache, metrics := newTestClient(t, &structures.Config{})
	_, err := c.Get(context.Background(), srv.URL, FetchOptions{Cache: true, Kind: "rss"})

	var netErr *errs.NetworkFailureError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusForbidden, netErr.Status)
	assert.Empty(t, cache.data)
	assert.Equal(t, 1, metrics.upstream["rss:error"])
}

func TestHttpClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	conf := &structures.Config{Upstream: structures.UpstreamConfig{Timeout: 20 * time.Millisecond}}
	c, _, _ := newTestClient(t, conf)

	_, err := c.Get(context.Background(), srv.URL, FetchOptions{})
	var netErr *errs.NetworkFailureError
	assert.ErrorAs(t, err, &netErr)
}

func TestHttpClient_Unreachable(t *testing.T) {
	c, _, _ := newTestClient(t, &structures.Config{})
	_, err := c.Get(context.Background(), "http://127.0.0.1:1/x", FetchOptions{})
	assert.Error(t, err)
}
