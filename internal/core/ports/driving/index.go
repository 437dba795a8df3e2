package driving

import (
	"context"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/index"
)

// IndexService owns the published search index.
type IndexService interface {
	// Rebuild indexes every note, persists the result and publishes it.
	Rebuild(ctx context.Context) (domain.IndexStats, error)

	// Current returns the published index. It loads the persisted index
	// when none is in memory or the file on disk is newer, and rebuilds
	// when loading yields nothing.
	Current(ctx context.Context) (*index.Index, error)

	// Stats describes the current index, loading or building it if needed.
	Stats(ctx context.Context) (domain.IndexStats, error)
}
