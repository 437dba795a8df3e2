package driving

import (
	"context"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

// TaskService lists and completes task lines inside notes.
type TaskService interface {
	// List returns tasks from the oldest note to the newest.
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)

	// Complete marks the open task at the 1-based body line of the note at
	// path as done. It reports whether the note changed.
	Complete(ctx context.Context, path string, line int) (bool, error)
}
