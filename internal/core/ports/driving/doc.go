// Package driving defines the interfaces the CLI, web UI, MCP server, TUI
// and watcher call into. They are the "driving" ports of the hexagon.
//
// # Interfaces
//
//   - NoteService: create, edit, delete and browse notes
//   - SearchService: ranked chunk search with excerpts
//   - IndexService: the published index, rebuilds and stats
//   - TaskService: open and done task lines across notes
//   - CopilotService: prompts grounded in search results
//   - SettingsService: configuration keys and values
//
// Implementations live in internal/core/services.
package driving
