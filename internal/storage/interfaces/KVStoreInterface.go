package interfaces

import "context"

// KVStoreInterface is the per-user preference store. Values are JSON
// documents. GetValue reports a missing key with *errs.NotFoundError and an
// inactive store with *errs.UnavailableError.
type KVStoreInterface interface {
	IsActivated() bool
	GetValue(ctx context.Context, key string) ([]byte, error)
	SetValue(ctx context.Context, key string, value []byte) error
	DeleteValue(ctx context.Context, key string) error
	Count(ctx context.Context) (int, error)
	Driver() string
}
