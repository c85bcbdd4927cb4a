package providers

import (
	"errors"
	"portal/internal/structures"
	"unsafe"

	"github.com/coocood/freecache"
)

// CacheProviderInterface keeps upstream response bodies for cache.ttl.
// Keys are built by the caller and must already carry the user scope.
type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Stats() CacheStats
}

type CacheStats struct {
	Enabled     bool    `json:"enabled"`
	Entries     int64   `json:"entries"`
	HitRate     float64 `json:"hit_rate"`
	Evacuations int64   `json:"evacuations"`
}

type CacheProvider struct {
	cache  *freecache.Cache
	ttl    int
	logger Logger
}

// NewCacheProvider sizes the cache from cache.size in megabytes. A disabled
// or zero sized cache never stores anything.
func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Upstream response cache disabled")
		return &noopCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := max(int(conf.Cache.TTL.Seconds()), 1)

	logger.Infof(TypeApp, "Upstream response cache: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache:  freecache.NewCache(sizeBytes),
		ttl:    ttl,
		logger: logger,
	}
}

// unsafeStringToBytes avoids copying keys; freecache copies them itself and
// never writes to the slice.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores value unless it is larger than a freecache segment allows.
// Such bodies are simply fetched again next time.
func (c *CacheProvider) Set(key string, value []byte) {
	err := c.cache.Set(unsafeStringToBytes(key), value, c.ttl)
	if errors.Is(err, freecache.ErrLargeEntry) || errors.Is(err, freecache.ErrLargeKey) {
		c.logger.Debugf(TypeUpstream, "Response of %d bytes too large to cache", len(value))
	}
}

func (c *CacheProvider) Stats() CacheStats {
	return CacheStats{
		Enabled:     true,
		Entries:     c.cache.EntryCount(),
		HitRate:     c.cache.HitRate(),
		Evacuations: c.cache.EvacuateCount(),
	}
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
func (n *noopCache) Stats() CacheStats           { return CacheStats{} }
