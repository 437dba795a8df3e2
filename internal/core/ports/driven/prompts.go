package driven

// PromptStore provides access to prompt templates the user may edit.
type PromptStore interface {
	// Load returns the prompt template for the given name, falling back to
	// the built-in default when no edited copy exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// PromptCopilot is the instruction block placed at the top of a copilot
// prompt. It has no format placeholders.
const PromptCopilot = "copilot"
