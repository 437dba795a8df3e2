package mcp

import (
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	Search driving.SearchService
	Notes  driving.NoteService

	// Tasks is optional; without it the list_tasks tool is not offered.
	Tasks driving.TaskService
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
