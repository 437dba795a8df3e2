package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

func TestNoteCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range noteCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"new", "list", "show", "edit", "delete"}, names)
}

func TestNoteNewCmd_WithBodyFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("note", "new", "Groceries", "--body", "oat milk and lemons")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved /memory/notes/")

	results, err := searchService.Search(context.Background(), "lemons", domain.SearchOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Groceries", results[0].Chunk.NoteTitle, "new note is searchable at once")
}

func TestNoteNewCmd_BodyFromStdin(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetIn(strings.NewReader("piped body text\n"))
	_, err := executeCommand("note", "new", "--body", "-")
	require.NoError(t, err)

	notes, err := noteService.List(context.Background(), "piped body")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Untitled", notes[0].Title)
}

func TestNoteListCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("note", "list")
	require.NoError(t, err)
	// Newest first.
	assert.Less(t, strings.Index(out, "Reading"), strings.Index(out, "Lisbon trip"))
	assert.Contains(t, out, "Flights to Lisbon booked for May.")
}

func TestNoteListCmd_Filter(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("note", "list", "BASIL")
	require.NoError(t, err)
	assert.Contains(t, out, "Garden")
	assert.NotContains(t, out, "Lisbon")
}

func TestNoteListCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("note", "list", "--json", "passport")
	require.NoError(t, err)

	var notes []noteSummaryJSON
	require.NoError(t, json.Unmarshal([]byte(out), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, lisbonPath, notes[0].Path)
	assert.Equal(t, "2025-03-01T09:00:00", notes[0].Created)
}

func TestNoteListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("note", "list", "zebra")
	require.NoError(t, err)
	assert.Contains(t, out, "No notes found.")
}

func TestNoteShowCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("note", "show", gardenPath)
	require.NoError(t, err)
	assert.Contains(t, out, "# Garden")
	assert.Contains(t, out, "Created: 2025-03-01T10:00:00")
	assert.Contains(t, out, "Water the basil daily.")
}

func TestNoteShowCmd_Errors(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("note", "show", "/memory/notes/missing.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = executeCommand("note", "show", "/etc/passwd")
	assert.ErrorIs(t, err, domain.ErrOutsideNotesDir)
}

func TestNoteEditCmd_TitleOnly(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("note", "edit", gardenPath, "--title", "Vegetable garden")
	require.NoError(t, err)

	note, err := noteService.Get(context.Background(), gardenPath)
	require.NoError(t, err)
	assert.Equal(t, "Vegetable garden", note.Title)
	assert.Contains(t, note.Body, "Water the basil daily.", "body is kept")
}

func TestNoteEditCmd_RequiresAChange(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("note", "edit", gardenPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
}

func TestNoteDeleteCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("note", "delete", readingPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Note deleted.")

	_, err = noteService.Get(context.Background(), readingPath)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = executeCommand("note", "delete", readingPath)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteCmds_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	noteService = nil

	for _, args := range [][]string{
		{"note", "new", "x"},
		{"note", "list"},
		{"note", "show", gardenPath},
		{"note", "delete", gardenPath},
	} {
		_, err := executeCommand(args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "note service not configured", args)
	}
}
