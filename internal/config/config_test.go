package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driven/storage/memory"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(memory.NewConfigStore(), dir)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppConfig(dir), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	store := memory.NewConfigStore()
	require.NoError(t, store.Set(KeyNotesDir, "my-notes"))
	require.NoError(t, store.Set(KeyIndexPath, "/var/tmp/ff.db"))
	require.NoError(t, store.Set(KeyHost, "localhost"))
	require.NoError(t, store.Set(KeyPort, int64(9999)))
	require.NoError(t, store.Set(KeyChunkMax, 400))
	require.NoError(t, store.Set(KeyChunkOverlap, 0))
	require.NoError(t, store.Set(KeyMaxResults, 5))
	require.NoError(t, store.Set(KeyCopilotK, 4))
	require.NoError(t, store.Set(KeyWatchNotes, false))

	cfg, err := Load(store, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "my-notes"), cfg.NotesDir)
	assert.Equal(t, filepath.Clean("/var/tmp/ff.db"), cfg.IndexPath)
	assert.Equal(t, filepath.Join(dir, "images"), cfg.UploadsDir)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, 400, cfg.ChunkMaxChars)
	assert.Equal(t, 0, cfg.ChunkOverlapChars)
	assert.Equal(t, 5, cfg.MaxResults)
	assert.Equal(t, 4, cfg.CopilotDefaultK)
	assert.False(t, cfg.WatchNotes)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		message string
	}{
		{"port too large", KeyPort, 70000, "server.port must be at most 65535"},
		{"port zero", KeyPort, 0, "server.port must be at least 1"},
		{"bad host", KeyHost, "not a host!", "server.host"},
		{"copilot k", KeyCopilotK, 50, "copilot.default_k must be at most 20"},
		{"overlap too large", KeyChunkOverlap, 900, "chunk.overlap_chars must be smaller than chunk.max_chars"},
		{"overlap above max", KeyChunkOverlap, 5000, "chunk.overlap_chars must be smaller than chunk.max_chars"},
		{"max results", KeyMaxResults, 0, "search.max_results must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			require.NoError(t, store.Set(tt.key, tt.value))

			_, err := Load(store, t.TempDir())

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidate_OverlapReportedAsFieldError(t *testing.T) {
	cfg := domain.DefaultAppConfig(t.TempDir())
	cfg.ChunkMaxChars = 100
	cfg.ChunkOverlapChars = 100

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Equal(t, "invalid configuration: chunk.overlap_chars must be smaller than chunk.max_chars",
		err.Error())

	cfg.ChunkOverlapChars = 99
	assert.NoError(t, Validate(cfg))
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(KeyPort, " 8080 ")
	require.NoError(t, err)
	assert.Equal(t, 8080, v)

	v, err = ParseValue(KeyWatchNotes, "false")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	v, err = ParseValue(KeyHost, "0.0.0.0")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", v)

	_, err = ParseValue(KeyPort, "eighty")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = ParseValue(KeyWatchNotes, "maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = ParseValue("no.such.key", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Len(t, keys, 10)
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, KeyPort)
}
