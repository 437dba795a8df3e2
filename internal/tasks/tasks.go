// Package tasks finds and completes task lines inside note bodies.
//
// A line whose trimmed text starts with "**" is an open task and one that
// starts with "***" is a done task. Line numbers are 1-based within the body.
package tasks

import (
	"strings"
	"unicode"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

const (
	openMarker = "**"
	doneMarker = "***"
)

// Item is a task line found in a body.
type Item struct {
	Line int
	Text string
	Done bool
}

// Extract returns the task lines of body in order. Markers with no text
// after them are not tasks.
func Extract(body string) []Item {
	var items []Item
	for i, line := range lines(body) {
		s := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(s, doneMarker):
			if text := strings.TrimSpace(s[len(doneMarker):]); text != "" {
				items = append(items, Item{Line: i + 1, Text: text, Done: true})
			}
		case strings.HasPrefix(s, openMarker):
			if text := strings.TrimSpace(s[len(openMarker):]); text != "" {
				items = append(items, Item{Line: i + 1, Text: text})
			}
		}
	}
	return items
}

// FromNote extracts the tasks of note, tagged with the note's identity.
func FromNote(note domain.Note) []domain.Task {
	items := Extract(note.Body)
	out := make([]domain.Task, len(items))
	for i, it := range items {
		out[i] = domain.Task{
			NotePath:    note.Path,
			NoteTitle:   note.Title,
			NoteCreated: note.Created,
			Line:        it.Line,
			Text:        it.Text,
			Done:        it.Done,
		}
	}
	return out
}

// Complete marks the open task at line as done, keeping its indentation.
// It reports false and returns body unchanged when line is out of range,
// already done or not a task.
func Complete(body string, line int) (string, bool) {
	ls := lines(body)
	if line < 1 || line > len(ls) {
		return body, false
	}

	raw := ls[line-1]
	stripped := strings.TrimLeftFunc(raw, unicode.IsSpace)
	if strings.HasPrefix(stripped, doneMarker) || !strings.HasPrefix(stripped, openMarker) {
		return body, false
	}

	indent := raw[:len(raw)-len(stripped)]
	ls[line-1] = indent + doneMarker + stripped[len(openMarker):]
	return strings.Join(ls, "\n"), true
}

// Matches reports whether task passes filter.
func Matches(task domain.Task, filter domain.TaskFilter) bool {
	if task.Done && !filter.IncludeDone {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Text), q) ||
		strings.Contains(strings.ToLower(task.NoteTitle), q)
}

// lines splits body on "\n" keeping any "\r" so Join restores it exactly.
func lines(body string) []string {
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n")
}
