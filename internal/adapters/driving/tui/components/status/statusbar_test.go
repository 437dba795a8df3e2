package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui/keymap"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestBar_ViewByState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Bar)
		want  string
	}{
		{"ready", func(*Bar) {}, "Ready"},
		{"searching", func(b *Bar) { b.SetState(StateSearching) }, "Searching..."},
		{"one result", func(b *Bar) { b.SetState(StateResults); b.SetResultCount(1) }, "1 result"},
		{"many results", func(b *Bar) { b.SetState(StateResults); b.SetResultCount(7) }, "7 results"},
		{"no results", func(b *Bar) { b.SetState(StateResults) }, "0 results"},
		{"error", func(b *Bar) { b.SetState(StateError); b.SetMessage("index gone") }, "Error: index gone"},
		{"bare error", func(b *Bar) { b.SetState(StateError) }, "Error"},
		{"ready message", func(b *Bar) { b.SetMessage("Note reloaded") }, "Note reloaded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(100)
			tt.setup(bar)
			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestBar_Hints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(120)

	assert.Contains(t, bar.View(), "enter search")

	bar.SetHints(km.NoteHelp())
	view := bar.View()
	assert.Contains(t, view, "esc back")
	assert.NotContains(t, view, "enter search")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetResultCount(3)

	bar.Clear()
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Contains(t, bar.View(), "Ready")
}
