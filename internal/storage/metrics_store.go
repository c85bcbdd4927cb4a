package storage

import (
	"context"
	"portal/internal/providers"
	"portal/internal/storage/interfaces"
	"time"
)

// InstrumentedStore times writes against the wrapped driver.
type InstrumentedStore struct {
	interfaces.KVStoreInterface
	metrics providers.MetricsProviderInterface
}

func (s *InstrumentedStore) SetValue(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	defer func() { s.metrics.ObservePersistenceDuration(time.Since(start)) }()
	return s.KVStoreInterface.SetValue(ctx, key, value)
}

func (s *InstrumentedStore) DeleteValue(ctx context.Context, key string) error {
	start := time.Now()
	defer func() { s.metrics.ObservePersistenceDuration(time.Since(start)) }()
	return s.KVStoreInterface.DeleteValue(ctx, key)
}
