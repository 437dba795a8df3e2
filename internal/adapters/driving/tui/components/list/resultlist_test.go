package list

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/styles"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

func sampleResults() []domain.SearchResult {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	return []domain.SearchResult{
		{Chunk: domain.Chunk{NoteTitle: "Trip", NoteCreated: created}, Score: 0.95, Excerpt: "Flights to Lisbon"},
		{Chunk: domain.Chunk{NoteTitle: "Garden", NoteCreated: created}, Score: 0.85, Excerpt: "Water the basil"},
		{Chunk: domain.Chunk{NoteTitle: "", NoteCreated: created}, Score: 0.75, Excerpt: "untitled text"},
	}
}

func TestNewResultList(t *testing.T) {
	l := NewResultList(styles.DefaultStyles())

	require.NotNil(t, l)
	assert.Equal(t, 0, l.Selected())
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedResult())
	assert.Nil(t, l.Init())
}

func TestNewResultList_NilStyles(t *testing.T) {
	l := NewResultList(nil)
	assert.NotNil(t, l.styles)
}

func TestResultList_SetResults(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(sampleResults())
	l.SetSelected(2)

	l.SetResults(sampleResults()[:2])
	assert.Equal(t, 2, l.Count())
	assert.Equal(t, 0, l.Selected(), "new results reset the selection")
	assert.Len(t, l.Results(), 2)
}

func TestResultList_SetSelected(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(sampleResults())

	l.SetSelected(1)
	assert.Equal(t, 1, l.Selected())

	l.SetSelected(-1)
	assert.Equal(t, 1, l.Selected())
	l.SetSelected(3)
	assert.Equal(t, 1, l.Selected())

	require.NotNil(t, l.SelectedResult())
	assert.Equal(t, "Garden", l.SelectedResult().Chunk.NoteTitle)
}

func TestResultList_Navigation(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(sampleResults())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected(), "stays at top")

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, l.Selected())
	l.MoveDown()
	assert.Equal(t, 2, l.Selected(), "stays at bottom")

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, l.Selected())
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, l.Selected())
}

func TestResultList_ViewEmpty(t *testing.T) {
	assert.Contains(t, NewResultList(nil).View(), "No results")
}

func TestResultList_View(t *testing.T) {
	l := NewResultList(nil)
	l.SetDimensions(80, 20)
	l.SetResults(sampleResults())

	view := l.View()
	assert.Contains(t, view, "Results (3)")
	assert.Contains(t, view, "> Trip")
	assert.Contains(t, view, "0.950")
	assert.Contains(t, view, "2025-03-01T09:00:00")
	assert.Contains(t, view, "Flights to Lisbon")
	assert.Contains(t, view, "(Untitled)")
}

func TestResultList_ViewScrollsToSelection(t *testing.T) {
	l := NewResultList(nil)
	l.SetDimensions(80, 5) // room for one result
	l.SetResults(sampleResults())
	l.SetSelected(2)

	view := l.View()
	assert.Contains(t, view, "untitled text")
	assert.NotContains(t, view, "Flights to Lisbon")
}

func TestResultList_ViewTruncatesLongText(t *testing.T) {
	l := NewResultList(nil)
	l.SetDimensions(40, 20)
	l.SetResults([]domain.SearchResult{{
		Chunk:   domain.Chunk{NoteTitle: strings.Repeat("t", 100)},
		Excerpt: strings.Repeat("e", 100),
	}})

	view := l.View()
	assert.NotContains(t, view, strings.Repeat("t", 100))
	assert.NotContains(t, view, strings.Repeat("e", 100))
	assert.Contains(t, view, "…")
}
