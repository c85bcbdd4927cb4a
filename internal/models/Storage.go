package models

import json "github.com/goccy/go-json"

const StorageVersion = 1

// Storage is the on-disk snapshot of the key/value store.
type Storage struct {
	Version int                        `json:"version"`
	Values  map[string]json.RawMessage `json:"values"`
}
