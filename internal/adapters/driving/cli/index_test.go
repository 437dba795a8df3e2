package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRebuildCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("index", "rebuild")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 4 chunks from 4 notes")
}

func TestIndexStatsCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("index", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Path:        /memory/index.db")
	assert.Contains(t, out, "Notes:       4")
	assert.Contains(t, out, "Chunks:      4")
	assert.Contains(t, out, "Latent dim:  3")
}

func TestIndexCmds_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexService = &mockIndexServiceError{}

	_, err := executeCommand("index", "rebuild")
	assert.ErrorIs(t, err, errServiceDown)

	_, err = executeCommand("index", "stats")
	assert.ErrorIs(t, err, errServiceDown)
}

func TestIndexCmds_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexService = nil

	_, err := executeCommand("index", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index service not configured")
}
