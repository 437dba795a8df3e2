package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

func TestTaskService_List(t *testing.T) {
	ctx := context.Background()
	notes, _, indexes := seededServices()
	svc := NewTaskService(notes, indexes)

	open, err := svc.List(ctx, domain.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "pack the camera charger", open[0].Text)
	assert.Equal(t, "Lisbon trip", open[0].NoteTitle)
	assert.Equal(t, 3, open[0].Line)

	all, err := svc.List(ctx, domain.TaskFilter{IncludeDone: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Lisbon trip", all[0].NoteTitle, "oldest note first")
	assert.True(t, all[1].Done)

	filtered, err := svc.List(ctx, domain.TaskFilter{Query: "RELEASE", IncludeDone: true})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "tag the release candidate", filtered[0].Text)
}

func TestTaskService_Complete(t *testing.T) {
	ctx := context.Background()
	notes := newFaultyNotes()
	stub := &stubIndexService{}
	svc := NewTaskService(notes, stub)

	note, err := notes.NoteStore.Create(ctx, "Todo", "intro\n  **call the bank\n***done already")
	require.NoError(t, err)

	changed, err := svc.Complete(ctx, note.Path, 2)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, stub.rebuilds)

	stored, err := notes.Load(ctx, note.Path)
	require.NoError(t, err)
	assert.Equal(t, "intro\n  ***call the bank\n***done already", stored.Body)
	assert.Equal(t, "Todo", stored.Title)

	for _, line := range []int{1, 2, 3, 99} {
		changed, err = svc.Complete(ctx, note.Path, line)
		require.NoError(t, err)
		assert.False(t, changed, "line %d", line)
	}
	assert.Equal(t, 1, stub.rebuilds, "no rebuild without a change")
}

func TestTaskService_CompleteErrors(t *testing.T) {
	ctx := context.Background()
	notes := newFaultyNotes()
	stub := &stubIndexService{}
	svc := NewTaskService(notes, stub)

	_, err := svc.Complete(ctx, "/memory/notes/x.md", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Complete(ctx, "/memory/notes/missing.md", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Complete(ctx, "/etc/hosts", 1)
	assert.ErrorIs(t, err, domain.ErrOutsideNotesDir)

	note, err := notes.NoteStore.Create(ctx, "t", "**x")
	require.NoError(t, err)
	notes.updateErr = errBoom
	changed, err := svc.Complete(ctx, note.Path, 1)
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, changed)

	notes.updateErr = nil
	stub.rebuildErr = errBoom
	changed, err = svc.Complete(ctx, note.Path, 1)
	assert.ErrorIs(t, err, errBoom)
	assert.True(t, changed, "the note changed even though indexing failed")
}

func TestTaskService_ListError(t *testing.T) {
	notes := newFaultyNotes()
	notes.listErr = errBoom

	_, err := NewTaskService(notes, &stubIndexService{}).List(context.Background(), domain.TaskFilter{})
	assert.ErrorIs(t, err, errBoom)
}
