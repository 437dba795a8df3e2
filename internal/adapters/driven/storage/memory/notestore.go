package memory

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driven"
)

// Ensure NoteStore implements the interface.
var _ driven.NoteStore = (*NoteStore)(nil)

// Root is the notes directory reported by the in-memory store.
const Root = "/memory/notes"

type storedNote struct {
	note domain.Note
	seq  int64
}

// NoteStore is an in-memory implementation of driven.NoteStore for testing.
// Paths are Root/<id>.md. Writes bump a counter that stands in for the
// file modification time.
type NoteStore struct {
	mu    sync.RWMutex
	notes map[string]storedNote
	seq   int64
	now   func() time.Time
}

// NewNoteStore creates a new in-memory note store.
func NewNoteStore() *NoteStore {
	return &NoteStore{
		notes: make(map[string]storedNote),
		now:   time.Now,
	}
}

// SetClock overrides the time source used for note timestamps.
func (s *NoteStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Root returns the notes directory.
func (s *NoteStore) Root() string {
	return Root
}

// Create stores a new note.
func (s *NoteStore) Create(_ context.Context, title, body string) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Truncate(time.Second)
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	note := domain.Note{
		ID:      id,
		Path:    path.Join(Root, id+".md"),
		Title:   title,
		Body:    body,
		Created: now,
		Updated: now,
	}
	s.put(note)
	return &note, nil
}

// Put stores note as is, replacing any note at the same path.
func (s *NoteStore) Put(note domain.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(note)
}

// Update replaces the title and body of the note at p.
func (s *NoteStore) Update(_ context.Context, p, title, body string) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkPath(p); err != nil {
		return nil, err
	}
	stored, ok := s.notes[p]
	if !ok {
		return nil, fmt.Errorf("note %s: %w", p, domain.ErrNotFound)
	}
	note := stored.note
	note.Title = title
	note.Body = body
	note.Updated = s.now().Truncate(time.Second)
	s.put(note)
	return &note, nil
}

// Delete removes the note at p. A missing note is not an error.
func (s *NoteStore) Delete(_ context.Context, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkPath(p); err != nil {
		return err
	}
	delete(s.notes, p)
	return nil
}

// Load returns the note at p.
func (s *NoteStore) Load(_ context.Context, p string) (*domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := checkPath(p); err != nil {
		return nil, err
	}
	stored, ok := s.notes[p]
	if !ok {
		return nil, fmt.Errorf("note %s: %w", p, domain.ErrNotFound)
	}
	note := stored.note
	return &note, nil
}

// List returns every note, most recently written first.
func (s *NoteStore) List(_ context.Context) ([]domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := make([]storedNote, 0, len(s.notes))
	for _, n := range s.notes {
		stored = append(stored, n)
	}
	sort.Slice(stored, func(i, j int) bool {
		return stored[i].seq > stored[j].seq
	})

	notes := make([]domain.Note, len(stored))
	for i, n := range stored {
		notes[i] = n.note
	}
	return notes, nil
}

// put stores note with a fresh sequence number (caller must hold lock).
func (s *NoteStore) put(note domain.Note) {
	s.seq++
	s.notes[note.Path] = storedNote{note: note, seq: s.seq}
}

func checkPath(p string) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("empty note path: %w", domain.ErrInvalidInput)
	}
	clean := path.Clean(p)
	if !strings.HasPrefix(clean, Root+"/") {
		return fmt.Errorf("%s: %w", p, domain.ErrOutsideNotesDir)
	}
	return nil
}
