// Package sqlite persists search indexes as standalone SQLite files.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Each index is one
// database file holding the chunks, the fitted vocabulary and SVD
// components, and the embedding matrix:
//
//   - meta: format version, build time, latent dimension, vocabulary size
//   - chunks: chunk identity and text, in corpus order
//   - vocabulary: term, column and IDF weight
//   - components: one little-endian float64 blob per SVD component
//   - embeddings: one little-endian float32 blob per chunk
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory and applied to every freshly written file.
//
// # Durability
//
// Save writes a temporary file in the target directory and renames it over
// the destination. Load never fails: a missing, corrupt or foreign file is
// reported as no index, and the notes remain the source of truth.
package sqlite
