package tui

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("tui: search service is required")

// ErrMissingNoteService is returned when the note service is not provided.
var ErrMissingNoteService = errors.New("tui: note service is required")
