package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driven"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
)

// Ensure NoteService implements the interface.
var _ driving.NoteService = (*NoteService)(nil)

const (
	// UntitledTitle replaces a blank title.
	UntitledTitle = "Untitled"

	snippetLen = 160
)

// NoteService manages notes and keeps the index in step with them.
type NoteService struct {
	notes   driven.NoteStore
	indexes driving.IndexService
}

// NewNoteService creates a new note service.
func NewNoteService(notes driven.NoteStore, indexes driving.IndexService) *NoteService {
	return &NoteService{notes: notes, indexes: indexes}
}

// Create stores a new note and rebuilds the index. When only the rebuild
// fails, the stored note is returned together with the error.
func (s *NoteService) Create(ctx context.Context, title, body string) (*domain.Note, error) {
	note, err := s.notes.Create(ctx, normalizeTitle(title), body)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	logger.Debug("Created note %s", note.Path)
	return note, s.reindex(ctx)
}

// Update rewrites the note at path and rebuilds the index. When only the
// rebuild fails, the stored note is returned together with the error.
func (s *NoteService) Update(ctx context.Context, path, title, body string) (*domain.Note, error) {
	note, err := s.notes.Update(ctx, path, normalizeTitle(title), body)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	logger.Debug("Updated note %s", note.Path)
	return note, s.reindex(ctx)
}

// Delete removes the note at path and rebuilds the index.
// Returns domain.ErrNotFound when there is no such note.
func (s *NoteService) Delete(ctx context.Context, path string) error {
	if _, err := s.notes.Load(ctx, path); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if err := s.notes.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	logger.Debug("Deleted note %s", path)
	return s.reindex(ctx)
}

// Get reads the note at path.
func (s *NoteService) Get(ctx context.Context, path string) (*domain.Note, error) {
	return s.notes.Load(ctx, path)
}

// List returns browse entries, newest first, filtered by query.
func (s *NoteService) List(ctx context.Context, query string) ([]domain.NoteSummary, error) {
	notes, err := s.notes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.NoteSummary, 0, len(notes))
	for _, n := range notes {
		if q != "" &&
			!strings.Contains(strings.ToLower(n.Title), q) &&
			!strings.Contains(strings.ToLower(n.Body), q) {
			continue
		}
		out = append(out, domain.NoteSummary{
			Path:    n.Path,
			Title:   n.Title,
			Created: n.Created,
			Updated: n.Updated,
			Snippet: Truncate(firstLine(n.Body), snippetLen),
		})
	}
	return out, nil
}

func (s *NoteService) reindex(ctx context.Context) error {
	_, err := s.indexes.Rebuild(ctx)
	return err
}

func normalizeTitle(title string) string {
	title = strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(title))
	if title == "" {
		return UntitledTitle
	}
	return title
}
