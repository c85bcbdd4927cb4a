package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"portal/internal/models"
	"portal/internal/providers"
	"portal/internal/services"
	"portal/internal/storage/interfaces"

	json "github.com/goccy/go-json"
)

// FileManager moves the in-process key/value snapshot to and from disk.
type FileManager struct {
	service    services.KeyValueServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, service services.KeyValueServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{service: service, compressor: compressor, logger: logger}
}

// Save encodes the current snapshot and replaces path atomically.
func (f *FileManager) Save(path string) error {
	encoded, err := json.Marshal(f.service.GetSnapshot())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	packed, err := f.compressor.Compress(encoded)
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	return replaceFile(path, packed)
}

// Load restores a snapshot. A missing file is a fresh start.
func (f *FileManager) Load(path string) error {
	packed, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		f.logger.Debugf(providers.TypeApp, "No snapshot at %s", path)
		return nil
	}
	if err != nil {
		return err
	}

	raw, err := f.compressor.Decompress(packed)
	if err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}
	var snapshot models.Storage
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	if snapshot.Version > models.StorageVersion {
		f.logger.Warnf(providers.TypeApp, "Snapshot %s has version %d, newer than supported %d", path, snapshot.Version, models.StorageVersion)
	}
	if len(snapshot.Values) == 0 {
		f.logger.Warnf(providers.TypeApp, "Snapshot %s holds no values", path)
		return nil
	}
	f.service.PutValues(snapshot.Values)
	f.logger.Infof(providers.TypeApp, "Restored %d keys from %s", len(snapshot.Values), path)
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// replaceFile writes data beside path and renames it into place, so a
// crash mid-write never leaves a truncated snapshot behind.
func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
