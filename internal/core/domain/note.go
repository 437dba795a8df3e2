package domain

import "time"

// TimeLayout is the on-disk and display format for note timestamps.
// It is local time at second precision without a zone.
const TimeLayout = "2006-01-02T15:04:05"

// Note is a single Markdown note as read from storage.
// The core treats a Note as immutable once read.
type Note struct {
	// ID is the short hex identifier stored in the note header.
	ID string

	// Path is the absolute file path of the note.
	Path string

	// Title is the human-readable title.
	Title string

	// Body is the raw Markdown text after the header.
	Body string

	// Created is when the note was first written.
	Created time.Time

	// Updated is when the note was last written.
	Updated time.Time
}

// CreatedString renders Created in TimeLayout.
func (n Note) CreatedString() string {
	return n.Created.Format(TimeLayout)
}

// UpdatedString renders Updated in TimeLayout.
func (n Note) UpdatedString() string {
	return n.Updated.Format(TimeLayout)
}

// NoteSummary is a browse-list entry.
type NoteSummary struct {
	Path    string
	Title   string
	Created time.Time
	Updated time.Time

	// Snippet is the first body line, truncated for display.
	Snippet string
}

// Chunk represents a searchable unit within a note.
// Notes are split into chunks for granular search results.
type Chunk struct {
	// ID is "<note id>:<sequence>", unique within one index build.
	ID string

	// NoteID links to the parent Note.
	NoteID string

	// NotePath is the file path of the parent Note.
	NotePath string

	// NoteTitle is the parent Note's title at build time.
	NoteTitle string

	// NoteCreated is the parent Note's creation time.
	NoteCreated time.Time

	// Text is the chunk content.
	Text string
}
