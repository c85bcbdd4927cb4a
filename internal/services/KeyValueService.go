package services

import (
	"context"
	"maps"
	"portal/internal/errs"
	"portal/internal/models"
	"portal/internal/storage/interfaces"
	"sync"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

const FileDriver = "file"

// KeyValueServiceInterface is the in-memory store behind the file driver.
// The snapshot methods are used by storage.FileManager.
type KeyValueServiceInterface interface {
	interfaces.KVStoreInterface
	GetSnapshot() *models.Storage
	PutValues(values map[string]json.RawMessage)
	IsDirty() bool
	MarkClean()
	MarkDirty()
}

type KeyValueService struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
	dirty  atomic.Bool
}

func (kv *KeyValueService) IsActivated() bool { return true }

func (kv *KeyValueService) Driver() string { return FileDriver }

func (kv *KeyValueService) GetValue(_ context.Context, key string) ([]byte, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	val, ok := kv.values[key]
	if !ok {
		return nil, errs.NewNotFoundError("key not found: " + key)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (kv *KeyValueService) SetValue(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return errs.NewValidationError("value for " + key + " is not valid JSON")
	}
	stored := make(json.RawMessage, len(value))
	copy(stored, value)

	kv.mu.Lock()
	kv.values[key] = stored
	kv.mu.Unlock()
	kv.dirty.Store(true)
	return nil
}

func (kv *KeyValueService) DeleteValue(_ context.Context, key string) error {
	kv.mu.Lock()
	_, ok := kv.values[key]
	delete(kv.values, key)
	kv.mu.Unlock()
	if ok {
		kv.dirty.Store(true)
	}
	return nil
}

func (kv *KeyValueService) Count(_ context.Context) (int, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	return len(kv.values), nil
}

func (kv *KeyValueService) GetSnapshot() *models.Storage {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	return &models.Storage{
		Version: models.StorageVersion,
		Values:  maps.Clone(kv.values),
	}
}

// PutValues merges restored values into the store without marking it dirty.
func (kv *KeyValueService) PutValues(values map[string]json.RawMessage) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	maps.Copy(kv.values, values)
}

func (kv *KeyValueService) IsDirty() bool { return kv.dirty.Load() }

func (kv *KeyValueService) MarkClean() { kv.dirty.Store(false) }

func (kv *KeyValueService) MarkDirty() { kv.dirty.Store(true) }

func NewKeyValueService() KeyValueServiceInterface {
	return &KeyValueService{values: make(map[string]json.RawMessage)}
}
