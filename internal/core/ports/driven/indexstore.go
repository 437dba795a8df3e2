package driven

import (
	"context"
	"time"

	"github.com/cardinalphin/fire-and-forget-notes/internal/index"
)

// IndexStore persists a search index as a single opaque file.
// The format is private to the implementation and carries no
// cross-version guarantee.
type IndexStore interface {
	// Save replaces the file at path with idx, creating parent directories.
	Save(ctx context.Context, idx *index.Index, path string) error

	// Load reads the index at path. A missing, unreadable or corrupt file
	// yields (nil, nil): callers treat it as absent and rebuild.
	Load(ctx context.Context, path string) (*index.Index, error)

	// ModTime returns the modification time of the file at path and whether
	// it exists.
	ModTime(path string) (time.Time, bool)
}
