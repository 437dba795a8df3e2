package services

import (
	"context"
	"strings"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
	"github.com/cardinalphin/fire-and-forget-notes/internal/metrics"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

const excerptLen = 220

// SearchService ranks note chunks against a query using the published index.
type SearchService struct {
	indexes      driving.IndexService
	defaultLimit int
	metrics      *metrics.Collector
}

// NewSearchService creates a search service returning defaultLimit results
// when a query does not ask for a number.
func NewSearchService(indexes driving.IndexService, defaultLimit int) *SearchService {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultMaxResults
	}
	return &SearchService{indexes: indexes, defaultLimit: defaultLimit}
}

// SetMetrics sets the collector that counts searches.
func (s *SearchService) SetMetrics(m *metrics.Collector) {
	s.metrics = m
}

// Search returns the best matching chunks for query.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	logger.Debug("Limit: %d", limit)

	idx, err := s.indexes.Current(ctx)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, err
	}
	s.metrics.ObserveSearch()

	hits := idx.Search(query, limit)
	logger.Debug("Hits: %d of %d chunks", len(hits), idx.Len())

	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = domain.SearchResult{
			Chunk:   h.Chunk,
			Score:   h.Score,
			Excerpt: Truncate(Flatten(h.Chunk.Text), excerptLen),
		}
	}
	return results, nil
}
