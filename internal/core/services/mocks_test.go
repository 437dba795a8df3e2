package services

import (
	"context"
	"errors"
	"sync"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driven/storage/memory"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driven"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
	"github.com/cardinalphin/fire-and-forget-notes/internal/index"
)

var errBoom = errors.New("boom")

// --- Mock implementations ---

// faultyNotes wraps the in-memory note store with injectable failures.
type faultyNotes struct {
	*memory.NoteStore
	listErr   error
	createErr error
	updateErr error
}

var _ driven.NoteStore = (*faultyNotes)(nil)

func newFaultyNotes() *faultyNotes {
	return &faultyNotes{NoteStore: memory.NewNoteStore()}
}

func (f *faultyNotes) List(ctx context.Context) ([]domain.Note, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.NoteStore.List(ctx)
}

func (f *faultyNotes) Create(ctx context.Context, title, body string) (*domain.Note, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.NoteStore.Create(ctx, title, body)
}

func (f *faultyNotes) Update(ctx context.Context, path, title, body string) (*domain.Note, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.NoteStore.Update(ctx, path, title, body)
}

// faultyIndexStore wraps the in-memory index store with injectable failures.
type faultyIndexStore struct {
	*memory.IndexStore
	saveErr error
	loadErr error

	mu    sync.Mutex
	loads int
}

var _ driven.IndexStore = (*faultyIndexStore)(nil)

func newFaultyIndexStore() *faultyIndexStore {
	return &faultyIndexStore{IndexStore: memory.NewIndexStore()}
}

func (f *faultyIndexStore) Save(ctx context.Context, idx *index.Index, path string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.IndexStore.Save(ctx, idx, path)
}

func (f *faultyIndexStore) Load(ctx context.Context, path string) (*index.Index, error) {
	f.mu.Lock()
	f.loads++
	f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.IndexStore.Load(ctx, path)
}

func (f *faultyIndexStore) Loads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

// stubIndexService serves a fixed index.
type stubIndexService struct {
	idx        *index.Index
	currentErr error
	rebuildErr error
	rebuilds   int
}

var _ driving.IndexService = (*stubIndexService)(nil)

func (s *stubIndexService) Rebuild(_ context.Context) (domain.IndexStats, error) {
	s.rebuilds++
	if s.rebuildErr != nil {
		return domain.IndexStats{}, s.rebuildErr
	}
	return s.idx.Stats(), nil
}

func (s *stubIndexService) Current(_ context.Context) (*index.Index, error) {
	if s.currentErr != nil {
		return nil, s.currentErr
	}
	return s.idx, nil
}

func (s *stubIndexService) Stats(_ context.Context) (domain.IndexStats, error) {
	return s.idx.Stats(), nil
}

// stubPrompts returns a fixed prompt or error.
type stubPrompts struct {
	text string
	err  error
}

var _ driven.PromptStore = stubPrompts{}

func (p stubPrompts) Load(string) (string, error) { return p.text, p.err }
func (p stubPrompts) Reload()                     {}

// --- Fixtures ---

const indexPath = "/memory/index.db"

// corpus is a handful of notes on clearly separate topics.
var corpus = []struct{ title, body string }{
	{"Lisbon trip", "Train tickets to Lisbon booked for the spring trip.\n\n**pack the camera charger"},
	{"Garden", "Plant tomatoes and basil after the last frost. Water the tomatoes daily."},
	{"Release", "Deploy pipeline is flaky. Retry the integration tests before the release.\n***tag the release candidate"},
}

// seededServices returns services over an in-memory store holding corpus,
// created oldest first.
func seededServices() (*faultyNotes, *faultyIndexStore, *IndexService) {
	notes := newFaultyNotes()
	ctx := context.Background()
	for _, n := range corpus {
		if _, err := notes.NoteStore.Create(ctx, n.title, n.body); err != nil {
			panic(err)
		}
	}
	store := newFaultyIndexStore()
	return notes, store, NewIndexService(notes, store, indexPath)
}
