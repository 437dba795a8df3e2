// Package domain defines the core business entities for fireforget.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Note: A Markdown file with a small header, owned by storage
//   - Chunk: A bounded text segment of a note, the unit of search
//   - SearchResult: A ranked chunk with a display excerpt
//   - Task: A "**" line inside a note body
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
