package driving

import (
	"context"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

// SearchService provides semantic search over notes.
type SearchService interface {
	// Search ranks note chunks by similarity to query.
	// An empty query returns no results and no error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
