package storage

import (
	"fmt"
	"portal/internal/models"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotBytes(t *testing.T, users int) []byte {
	t.Helper()
	snap := models.Storage{Version: models.StorageVersion, Values: map[string]json.RawMessage{}}
	for i := 0; i < users; i++ {
		snap.Values[fmt.Sprintf("user:user%d:viewedMessageIds", i)] = json.RawMessage(`[1,2,3,5,8,13]`)
		snap.Values[fmt.Sprintf("user:user%d:userWeatherPreference", i)] = json.RawMessage(`{"userWeatherPreference":"C"}`)
	}
	b, err := json.Marshal(snap)
	require.NoError(t, err)
	return b
}

func TestZstdCompression_SnapshotRoundtrip(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	original := snapshotBytes(t, 500)
	compressed, err := c.Compress(original)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(original)/4)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)

	var snap models.Storage
	require.NoError(t, json.Unmarshal(decompressed, &snap))
	assert.Equal(t, models.StorageVersion, snap.Version)
	assert.Len(t, snap.Values, 1000)
	assert.JSONEq(t, `[1,2,3,5,8,13]`, string(snap.Values["user:user42:viewedMessageIds"]))
}

func TestZstdCompression_EmptySnapshot(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	compressed, err := c.Compress([]byte{})
	require.NoError(t, err)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, decompressed)

	decompressed, err = c.Decompress(nil)
	require.NoError(t, err)
	assert.Empty(t, decompressed)
}

func TestZstdCompression_RejectsUncompressedSnapshot(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	tests := [][]byte{
		[]byte(`{"version":1,"values":{}}`),
		{0xff, 0xfe, 0xfd, 0xfc, 0x00, 0x01},
		{},
	}
	for _, data := range tests {
		_, err := c.Decompress(data)
		assert.Error(t, err)
	}
}

func TestZstdCompression_TruncatedSnapshot(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	compressed, err := c.Compress(snapshotBytes(t, 50))
	require.NoError(t, err)

	_, err = c.Decompress(compressed[:len(compressed)/2])
	assert.Error(t, err)
}
