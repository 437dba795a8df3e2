package domain

import "time"

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero means the configured default.
	Limit int
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Chunk is the specific chunk that matched.
	Chunk Chunk

	// Score is the cosine similarity between query and chunk.
	Score float64

	// Excerpt is the chunk text flattened to one line and truncated.
	Excerpt string
}

// CopilotSource is one numbered excerpt quoted in a copilot prompt.
type CopilotSource struct {
	N        int
	Title    string
	NotePath string
	Created  time.Time
	Excerpt  string
}

// CopilotPrompt is a ready-to-paste prompt grounded in note excerpts.
type CopilotPrompt struct {
	Question string
	K        int
	Prompt   string
	Sources  []CopilotSource
}

// IndexStats describes the currently published index.
type IndexStats struct {
	Path           string
	Chunks         int
	Notes          int
	VocabularySize int
	LatentDim      int
	BuiltAt        time.Time
}

// CopilotInstruction is the default instruction block of a copilot prompt.
const CopilotInstruction = `You are my work assistant.
Use ONLY the provided excerpts.
If the answer is not supported by the excerpts, say 'Not found in my notes.'

Be concise. Include a short 'Evidence' section citing excerpt numbers like [1], [2].

Output format:
• Answer:
• Evidence:
• Open questions / follow-ups (if any):
`
