package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

const defaultSearchLimit = 10

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"what to look for in the notes"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Title   string  `json:"title"`
	Path    string  `json:"path"`
	URI     string  `json:"uri"`
	Created string  `json:"created"`
	Score   float64 `json:"score"`
	Excerpt string  `json:"excerpt"`
	Content string  `json:"content"`
}

// CreateNoteInput is the input schema for the create_note tool.
type CreateNoteInput struct {
	Title string `json:"title,omitempty" jsonschema:"note title (default Untitled)"`
	Body  string `json:"body" jsonschema:"Markdown body; lines starting with ** are tasks"`
}

// CreateNoteOutput is the output schema for the create_note tool.
type CreateNoteOutput struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Path    string `json:"path"`
	URI     string `json:"uri"`
	Created string `json:"created"`
	// Warning is set when the note was saved but not yet indexed.
	Warning string `json:"warning,omitempty"`
}

// ListTasksInput is the input schema for the list_tasks tool.
type ListTasksInput struct {
	Query string `json:"query,omitempty" jsonschema:"only tasks whose text or note title contains this"`
	Done  bool   `json:"done,omitempty" jsonschema:"also include completed tasks"`
}

// ListTasksOutput is the output schema for the list_tasks tool.
type ListTasksOutput struct {
	Tasks []TaskOutput `json:"tasks"`
	Count int          `json:"count"`
}

// TaskOutput represents a single task line.
type TaskOutput struct {
	Text      string `json:"text"`
	Done      bool   `json:"done"`
	Line      int    `json:"line"`
	NoteTitle string `json:"note_title"`
	NotePath  string `json:"note_path"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Semantic search across all notes",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_note",
		Description: "Save a new note; it is searchable as soon as the call returns",
	}, s.handleCreateNote)

	if s.ports.Tasks != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_tasks",
			Description: "List task lines from all notes, oldest note first",
		}, s.handleListTasks)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results, err := s.ports.Search.Search(ctx, input.Query, domain.SearchOptions{Limit: limit})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		c := results[i].Chunk
		output.Results[i] = SearchResultOutput{
			Title:   c.NoteTitle,
			Path:    c.NotePath,
			URI:     noteURI(c.NotePath),
			Created: c.NoteCreated.Format(domain.TimeLayout),
			Score:   results[i].Score,
			Excerpt: results[i].Excerpt,
			Content: c.Text,
		}
	}
	return nil, output, nil
}

// handleCreateNote handles the create_note tool invocation.
func (s *Server) handleCreateNote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateNoteInput,
) (*mcp.CallToolResult, CreateNoteOutput, error) {
	note, err := s.ports.Notes.Create(ctx, input.Title, input.Body)
	if note == nil {
		if err == nil {
			err = errors.New("note was not created")
		}
		return nil, CreateNoteOutput{}, err
	}

	output := CreateNoteOutput{
		ID:      note.ID,
		Title:   note.Title,
		Path:    note.Path,
		URI:     noteURI(note.Path),
		Created: note.CreatedString(),
	}
	if err != nil {
		output.Warning = "saved, but the search index could not be rebuilt: " + err.Error()
	}
	return nil, output, nil
}

// handleListTasks handles the list_tasks tool invocation.
func (s *Server) handleListTasks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListTasksInput,
) (*mcp.CallToolResult, ListTasksOutput, error) {
	tasks, err := s.ports.Tasks.List(ctx, domain.TaskFilter{Query: input.Query, IncludeDone: input.Done})
	if err != nil {
		return nil, ListTasksOutput{}, err
	}

	output := ListTasksOutput{
		Tasks: make([]TaskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		output.Tasks[i] = TaskOutput{
			Text:      t.Text,
			Done:      t.Done,
			Line:      t.Line,
			NoteTitle: t.NoteTitle,
			NotePath:  t.NotePath,
		}
	}
	return nil, output, nil
}
