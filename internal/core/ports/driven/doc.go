// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - NoteStore: Markdown note files, the durable source of truth
//   - IndexStore: Single-file persistence of the search index
//   - ConfigStore: Application configuration
//   - PromptStore: User-editable prompt templates
//
// # Import Rules
//
//   - Can Import: domain, and the pure computation package index
//   - Cannot Import: Any adapter package
package driven
