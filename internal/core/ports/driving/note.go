package driving

import (
	"context"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

// NoteService manages notes. Every mutation rebuilds the search index
// before returning, so a successful write is immediately searchable.
type NoteService interface {
	// Create stores a new note. An empty title becomes "Untitled".
	Create(ctx context.Context, title, body string) (*domain.Note, error)

	// Update replaces the title and body of the note at path.
	Update(ctx context.Context, path, title, body string) (*domain.Note, error)

	// Delete removes the note at path.
	Delete(ctx context.Context, path string) error

	// Get reads the note at path.
	Get(ctx context.Context, path string) (*domain.Note, error)

	// List returns browse entries, newest first, whose title or body
	// contains query case-insensitively. An empty query matches all notes.
	List(ctx context.Context, query string) ([]domain.NoteSummary, error)
}
