// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML configuration at <data dir>/config.toml
//   - PromptStore: editable prompt templates under <data dir>/prompts
package file
