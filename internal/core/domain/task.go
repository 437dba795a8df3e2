package domain

import "time"

// Task is a line in a note body starting with "**" (open) or "***" (done).
type Task struct {
	NotePath    string
	NoteTitle   string
	NoteCreated time.Time

	// Line is the 1-based line number within the note body.
	Line int

	Text string
	Done bool
}

// TaskFilter narrows a task listing.
type TaskFilter struct {
	// Query matches task text or note title, case-insensitively.
	Query string

	// IncludeDone also returns completed tasks.
	IncludeDone bool
}
