// Package mcp exposes note search, capture and tasks to AI assistants over
// the Model Context Protocol.
package mcp

import "errors"

var (
	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")

	// ErrMissingNoteService is returned when the note service is not provided.
	ErrMissingNoteService = errors.New("mcp: note service is required")
)
