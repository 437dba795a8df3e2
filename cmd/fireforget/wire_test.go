package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

func TestBuildApp_EndToEnd(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()

	app, err := buildApp(dataDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "notes"), app.Config.NotesDir)
	assert.NotNil(t, app.Metrics)

	for _, n := range []struct{ title, body string }{
		{"Lisbon trip", "Flights to Lisbon booked for May. Pack the camera charger."},
		{"Garden", "Tomatoes need staking before the summer heat. Water the basil."},
		{"Release", "Deploy pipeline is flaky, retry the integration tests."},
		{"Reading", "Chapter on database replication and consensus protocols."},
	} {
		_, err := app.Notes.Create(ctx, n.title, n.body)
		require.NoError(t, err)
	}

	_, err = os.Stat(app.Config.IndexPath)
	require.NoError(t, err, "creating a note persists the index")

	results, err := app.Search.Search(ctx, "tomatoes staking", domain.SearchOptions{Limit: 2})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Garden", results[0].Chunk.NoteTitle)

	// A second process over the same directory loads the saved index.
	again, err := buildApp(dataDir)
	require.NoError(t, err)
	stats, err := again.Index.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Notes)
}

func TestBuildApp_InvalidConfig(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "config.toml"),
		[]byte("[server]\nport = 0\n"), 0600))

	_, err := buildApp(dataDir)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestBuildSettings(t *testing.T) {
	dataDir := t.TempDir()

	settings, err := buildSettings(dataDir)
	require.NoError(t, err)
	assert.NotNil(t, settings)
	_, err = os.Stat(dataDir)
	assert.NoError(t, err)
}
