package storage

import (
	"context"
	"portal/internal/errs"
)

const NoneDriver = "none"

// noopStore stands in when no key/value driver is configured. Callers check
// IsActivated and fall back to empty values.
type noopStore struct{}

func (n *noopStore) IsActivated() bool { return false }
func (n *noopStore) Driver() string    { return NoneDriver }

func (n *noopStore) GetValue(_ context.Context, _ string) ([]byte, error) {
	return nil, errs.NewUnavailableError("key/value store is not activated")
}

func (n *noopStore) SetValue(_ context.Context, _ string, _ []byte) error {
	return errs.NewUnavailableError("key/value store is not activated")
}

func (n *noopStore) DeleteValue(_ context.Context, _ string) error {
	return errs.NewUnavailableError("key/value store is not activated")
}

func (n *noopStore) Count(_ context.Context) (int, error) { return 0, nil }
