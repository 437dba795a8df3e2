// Package messages defines the Bubbletea messages passed between TUI views.
package messages

import (
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input and result list.
	ViewSearch ViewType = iota
	// ViewNote shows the full note behind a result.
	ViewNote
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewNote:
		return "note"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}

// ResultSelected is sent when the user opens a search result.
type ResultSelected struct {
	Result domain.SearchResult
}

// NoteLoaded carries the note behind a selected result.
type NoteLoaded struct {
	Path string
	Note *domain.Note
	Err  error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
