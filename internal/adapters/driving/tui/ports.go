// Package tui is the interactive terminal interface: search notes and read
// the note behind any hit without leaving the terminal.
package tui

import (
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI calls.
type Ports struct {
	Search driving.SearchService
	Notes  driving.NoteService

	// Limit caps the hits per query; zero uses the configured default.
	Limit int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Notes == nil {
		return ErrMissingNoteService
	}
	return nil
}
