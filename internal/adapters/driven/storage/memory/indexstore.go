package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driven"
	"github.com/cardinalphin/fire-and-forget-notes/internal/index"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

type savedIndex struct {
	idx   *index.Index
	mtime time.Time
}

// IndexStore is an in-memory implementation of driven.IndexStore.
// It keeps the saved index pointer, so Load returns the very value saved.
type IndexStore struct {
	mu    sync.RWMutex
	saved map[string]savedIndex
	saves int
	now   func() time.Time
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		saved: make(map[string]savedIndex),
		now:   time.Now,
	}
}

// Save records idx under path.
func (s *IndexStore) Save(_ context.Context, idx *index.Index, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[path] = savedIndex{idx: idx, mtime: s.now()}
	s.saves++
	return nil
}

// Load returns the index saved under path, or nil when there is none.
func (s *IndexStore) Load(_ context.Context, path string) (*index.Index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved[path].idx, nil
}

// ModTime reports when path was last saved.
func (s *IndexStore) ModTime(path string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	saved, ok := s.saved[path]
	return saved.mtime, ok
}

// Touch moves the modification time of path, simulating a write by
// another process.
func (s *IndexStore) Touch(path string, idx *index.Index, mtime time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[path] = savedIndex{idx: idx, mtime: mtime}
}

// Saves returns how many times Save was called.
func (s *IndexStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
