package domain

import "path/filepath"

// Default configuration values.
const (
	DefaultHost              = "127.0.0.1"
	DefaultPort              = 17831
	DefaultChunkMaxChars     = 900
	DefaultChunkOverlapChars = 120
	DefaultMaxResults        = 12
	DefaultCopilotK          = 10
	MinCopilotK              = 3
	MaxCopilotK              = 20
)

// AppConfig is the typed application configuration.
// Field tags are checked by the config loader before use.
type AppConfig struct {
	// DataDir holds config.toml, the notes tree, the index and uploads.
	DataDir string `validate:"required"`

	// NotesDir is the root of the Markdown notes tree.
	NotesDir string `validate:"required"`

	// IndexPath is the single-file search index.
	IndexPath string `validate:"required"`

	// UploadsDir receives images uploaded through the web UI.
	UploadsDir string `validate:"required"`

	// Host and Port are the web UI listen address.
	Host string `validate:"required,hostname|ip"`
	Port int    `validate:"min=1,max=65535"`

	// ChunkMaxChars bounds the length of a chunk.
	ChunkMaxChars int `validate:"min=1"`

	// ChunkOverlapChars is the trailing overlap between hard-wrapped windows.
	// It must stay below ChunkMaxChars so windows always advance.
	ChunkOverlapChars int `validate:"min=0,ltfield=ChunkMaxChars"`

	// MaxResults is the default number of search results.
	MaxResults int `validate:"min=1,max=1000"`

	// CopilotDefaultK is the default number of excerpts quoted in a copilot prompt.
	CopilotDefaultK int `validate:"min=3,max=20"`

	// WatchNotes rebuilds the index when notes change on disk while serving.
	WatchNotes bool
}

// DefaultAppConfig returns the defaults rooted at dataDir.
func DefaultAppConfig(dataDir string) AppConfig {
	return AppConfig{
		DataDir:           dataDir,
		NotesDir:          filepath.Join(dataDir, "notes"),
		IndexPath:         filepath.Join(dataDir, "index.db"),
		UploadsDir:        filepath.Join(dataDir, "images"),
		Host:              DefaultHost,
		Port:              DefaultPort,
		ChunkMaxChars:     DefaultChunkMaxChars,
		ChunkOverlapChars: DefaultChunkOverlapChars,
		MaxResults:        DefaultMaxResults,
		CopilotDefaultK:   DefaultCopilotK,
		WatchNotes:        true,
	}
}

// ClampCopilotK bounds k to the supported copilot excerpt range.
func ClampCopilotK(k int) int {
	if k < MinCopilotK {
		return MinCopilotK
	}
	if k > MaxCopilotK {
		return MaxCopilotK
	}
	return k
}

// Setting is one configuration key with its effective value.
type Setting struct {
	Key   string
	Value string

	// Explicit reports whether the value comes from the config file
	// rather than the defaults.
	Explicit bool
}
