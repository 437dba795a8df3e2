package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

const uriScheme = "fireforget://"

// notesURI lists every note; noteURIPrefix followed by the escaped path
// addresses one note.
const (
	notesURI      = uriScheme + "notes"
	noteURIPrefix = notesURI + "/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         notesURI,
		Name:        "notes",
		Description: "All notes, newest first",
		MIMEType:    "application/json",
	}, s.handleNotesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: noteURIPrefix + "{path}",
		Name:        "note",
		Description: "A single note as Markdown",
		MIMEType:    "text/markdown",
	}, s.handleNoteResource)
}

// handleNotesResource returns the browse list as JSON.
func (s *Server) handleNotesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	notes, err := s.ports.Notes.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	type noteInfo struct {
		Title   string `json:"title"`
		Path    string `json:"path"`
		URI     string `json:"uri"`
		Created string `json:"created"`
		Updated string `json:"updated"`
		Snippet string `json:"snippet,omitempty"`
	}

	infos := make([]noteInfo, len(notes))
	for i, n := range notes {
		infos[i] = noteInfo{
			Title:   n.Title,
			Path:    n.Path,
			URI:     noteURI(n.Path),
			Created: n.Created.Format(domain.TimeLayout),
			Updated: n.Updated.Format(domain.TimeLayout),
			Snippet: n.Snippet,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling notes: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleNoteResource returns one note as Markdown.
func (s *Server) handleNoteResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	path := extractNotePath(req.Params.URI)
	if path == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	note, err := s.ports.Notes.Get(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrOutsideNotesDir) ||
			errors.Is(err, domain.ErrInvalidInput) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("reading note: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     renderNote(note),
		}},
	}, nil
}

func renderNote(n *domain.Note) string {
	var b strings.Builder
	b.WriteString("# " + n.Title + "\n\n")
	b.WriteString("Created: " + n.CreatedString() + "\n")
	b.WriteString("Updated: " + n.UpdatedString() + "\n\n")
	b.WriteString(n.Body)
	return b.String()
}

// noteURI addresses the note at path.
func noteURI(path string) string {
	return noteURIPrefix + url.PathEscape(path)
}

// extractNotePath reverses noteURI, returning "" for anything else.
func extractNotePath(uri string) string {
	if !strings.HasPrefix(uri, noteURIPrefix) {
		return ""
	}
	path, err := url.PathUnescape(strings.TrimPrefix(uri, noteURIPrefix))
	if err != nil {
		return ""
	}
	return path
}
