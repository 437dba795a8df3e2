package services

import (
	"context"
	"fmt"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driven"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
	"github.com/cardinalphin/fire-and-forget-notes/internal/tasks"
)

// Ensure TaskService implements the interface.
var _ driving.TaskService = (*TaskService)(nil)

// TaskService lists and completes "**" task lines across all notes.
type TaskService struct {
	notes   driven.NoteStore
	indexes driving.IndexService
}

// NewTaskService creates a new task service.
func NewTaskService(notes driven.NoteStore, indexes driving.IndexService) *TaskService {
	return &TaskService{notes: notes, indexes: indexes}
}

// List returns matching tasks from the oldest note to the newest.
func (s *TaskService) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	notes, err := s.notes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	var out []domain.Task
	for i := len(notes) - 1; i >= 0; i-- {
		for _, t := range tasks.FromNote(notes[i]) {
			if tasks.Matches(t, filter) {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

// Complete marks the open task at line of the note at path as done and
// rebuilds the index. Lines that are not open tasks are left alone and
// reported as unchanged.
func (s *TaskService) Complete(ctx context.Context, path string, line int) (bool, error) {
	if line <= 0 {
		return false, fmt.Errorf("task line %d: %w", line, domain.ErrInvalidInput)
	}

	note, err := s.notes.Load(ctx, path)
	if err != nil {
		return false, err
	}

	body, changed := tasks.Complete(note.Body, line)
	if !changed {
		logger.Debug("Line %d of %s is not an open task", line, path)
		return false, nil
	}

	if _, err := s.notes.Update(ctx, note.Path, note.Title, body); err != nil {
		return false, fmt.Errorf("complete task: %w", err)
	}
	if _, err := s.indexes.Rebuild(ctx); err != nil {
		return true, err
	}
	return true, nil
}
