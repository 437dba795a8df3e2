package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driven"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
	"github.com/cardinalphin/fire-and-forget-notes/internal/index"
	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
	"github.com/cardinalphin/fire-and-forget-notes/internal/metrics"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// published pairs an index with the file modification time it matches.
type published struct {
	idx   *index.Index
	mtime time.Time
}

// IndexService builds, persists and publishes the search index.
//
// Readers get the current index through an atomic pointer and never wait
// for a rebuild. Rebuilds and reloads are serialised by a mutex.
type IndexService struct {
	notes     driven.NoteStore
	store     driven.IndexStore
	path      string
	buildOpts []index.BuildOption
	metrics   *metrics.Collector

	mu      sync.Mutex
	current atomic.Pointer[published]
}

// NewIndexService creates an index service persisting to path.
func NewIndexService(
	notes driven.NoteStore,
	store driven.IndexStore,
	path string,
	opts ...index.BuildOption,
) *IndexService {
	return &IndexService{
		notes:     notes,
		store:     store,
		path:      path,
		buildOpts: opts,
	}
}

// SetMetrics sets the collector that records rebuilds.
func (s *IndexService) SetMetrics(m *metrics.Collector) {
	s.metrics = m
}

// Path returns the index file path.
func (s *IndexService) Path() string {
	return s.path
}

// Rebuild indexes every note, saves the result and publishes it.
func (s *IndexService) Rebuild(ctx context.Context) (domain.IndexStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.rebuildLocked(ctx)
	if err != nil {
		return domain.IndexStats{}, err
	}
	return s.stats(idx), nil
}

// Current returns the published index, loading or building it on demand.
func (s *IndexService) Current(ctx context.Context) (*index.Index, error) {
	if idx, ok := s.fresh(); ok {
		return idx, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have refreshed it while we waited.
	if idx, ok := s.fresh(); ok {
		return idx, nil
	}

	logger.Debug("Loading index from %s", s.path)
	mtime, _ := s.store.ModTime(s.path)
	idx, err := s.store.Load(ctx, s.path)
	if err != nil {
		logger.Warn("Loading index failed, rebuilding: %v", err)
		idx = nil
	}
	if idx == nil {
		return s.rebuildLocked(ctx)
	}

	s.current.Store(&published{idx: idx, mtime: mtime})
	s.metrics.ObservePublished(idx.Len())
	logger.Debug("Loaded index with %d chunks built %s", idx.Len(), idx.BuiltAt().Format(time.RFC3339))
	return idx, nil
}

// Stats describes the current index.
func (s *IndexService) Stats(ctx context.Context) (domain.IndexStats, error) {
	idx, err := s.Current(ctx)
	if err != nil {
		return domain.IndexStats{}, err
	}
	return s.stats(idx), nil
}

// fresh returns the in-memory index unless the persisted file is newer.
func (s *IndexService) fresh() (*index.Index, bool) {
	cur := s.current.Load()
	if cur == nil {
		return nil, false
	}
	mtime, ok := s.store.ModTime(s.path)
	if ok && mtime.After(cur.mtime) {
		logger.Debug("Index file changed on disk, reloading")
		return nil, false
	}
	return cur.idx, true
}

// rebuildLocked builds and publishes a new index (caller must hold mu).
func (s *IndexService) rebuildLocked(ctx context.Context) (*index.Index, error) {
	logger.Section("Index Rebuild")
	start := time.Now()

	idx, err := s.build(ctx)
	if err != nil {
		s.metrics.ObserveRebuild(time.Since(start), 0, err)
		logger.Warn("Index rebuild failed: %v", err)
		return nil, fmt.Errorf("rebuild index: %w", err)
	}

	s.metrics.ObserveRebuild(time.Since(start), idx.Len(), nil)
	mtime, _ := s.store.ModTime(s.path)
	s.current.Store(&published{idx: idx, mtime: mtime})
	logger.Info("Indexed %d chunks in %s", idx.Len(), time.Since(start).Round(time.Millisecond))
	return idx, nil
}

func (s *IndexService) build(ctx context.Context) (*index.Index, error) {
	notes, err := s.notes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	logger.Debug("Notes: %d", len(notes))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := index.Build(notes, s.buildOpts...)
	logger.Debug("Chunks: %d, vocabulary: %d, latent dim: %d",
		idx.Len(), idx.Model().VocabularySize(), idx.Model().Dim())

	if err := s.store.Save(ctx, idx, s.path); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}
	return idx, nil
}

func (s *IndexService) stats(idx *index.Index) domain.IndexStats {
	st := idx.Stats()
	st.Path = s.path
	return st
}
