package storage

import (
	"context"
	"fmt"
	"portal/internal/providers"
	"portal/internal/services"
	"portal/internal/storage/interfaces"
	"portal/internal/structures"

	"cloud.google.com/go/firestore"
)

// NewKVStore opens the configured key/value driver. The returned cleanup
// closes driver connections.
func NewKVStore(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, service services.KeyValueServiceInterface) (interfaces.KVStoreInterface, func(), error) {
	noCleanup := func() {}

	switch conf.KV.Driver {
	case services.FileDriver:
		logger.Infof(providers.TypeApp, "KV store: file snapshot %s every %s", conf.Persistence.FilePath, conf.Persistence.SaveInterval)
		return &InstrumentedStore{KVStoreInterface: service, metrics: metrics}, noCleanup, nil

	case RedisDriver:
		store := NewRedisStore(conf.Redis)
		if err := store.Ping(context.Background()); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", conf.Redis.Addr, err)
		}
		logger.Infof(providers.TypeApp, "KV store: redis %s db=%d", conf.Redis.Addr, conf.Redis.DB)
		cleanup := func() {
			if err := store.Close(); err != nil {
				logger.Errorf(providers.TypeApp, "Error closing redis: %s", err)
			}
		}
		return &InstrumentedStore{KVStoreInterface: store, metrics: metrics}, cleanup, nil

	case FirestoreDriver:
		client, err := firestore.NewClient(context.Background(), conf.Firestore.ProjectId)
		if err != nil {
			return nil, nil, fmt.Errorf("create firestore client: %w", err)
		}
		collection := conf.Firestore.Collection
		if collection == "" {
			collection = "portal-kv"
		}
		store := NewFirestoreStore(client, collection)
		logger.Infof(providers.TypeApp, "KV store: firestore %s/%s", conf.Firestore.ProjectId, collection)
		cleanup := func() {
			if err := store.Close(); err != nil {
				logger.Errorf(providers.TypeApp, "Error closing firestore: %s", err)
			}
		}
		return &InstrumentedStore{KVStoreInterface: store, metrics: metrics}, cleanup, nil

	default:
		logger.Infof(providers.TypeApp, "KV store disabled, seen messages and preferences are not persisted")
		return &noopStore{}, noCleanup, nil
	}
}
