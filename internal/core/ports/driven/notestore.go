package driven

import (
	"context"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

// NoteStore persists notes as files under a single root directory.
// The files are the durable source of truth; the search index is derived
// from them and can always be rebuilt.
type NoteStore interface {
	// Create writes a new note and returns it with its assigned ID and path.
	Create(ctx context.Context, title, body string) (*domain.Note, error)

	// Update rewrites the note at path, keeping its ID and creation time.
	Update(ctx context.Context, path, title, body string) (*domain.Note, error)

	// Delete removes the note at path. Deleting a missing note is not an error.
	Delete(ctx context.Context, path string) error

	// Load reads the note at path.
	// Returns domain.ErrNotFound if it does not exist and
	// domain.ErrOutsideNotesDir if path is not under Root.
	Load(ctx context.Context, path string) (*domain.Note, error)

	// List returns every note, most recently modified first.
	List(ctx context.Context) ([]domain.Note, error)

	// Root returns the notes directory.
	Root() string
}
