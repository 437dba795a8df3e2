// Package chunker splits note bodies into paragraph-aware text chunks.
package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

// DefaultMaxChars is the default upper bound on chunk length in characters.
const DefaultMaxChars = domain.DefaultChunkMaxChars

// DefaultOverlapChars is the default overlap between hard-wrapped windows.
const DefaultOverlapChars = domain.DefaultChunkOverlapChars

// paragraphSep matches a blank line, possibly containing whitespace.
var paragraphSep = regexp.MustCompile(`\n\s*\n+`)

// Processor turns notes into chunks.
type Processor struct {
	maxChars int
	overlap  int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxChars sets the maximum chunk length in characters.
func WithMaxChars(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxChars = n
		}
	}
}

// WithOverlap sets the overlap between hard-wrapped windows in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxChars: DefaultMaxChars,
		overlap:  DefaultOverlapChars,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// MaxChars returns the configured maximum chunk length.
func (p *Processor) MaxChars() int {
	return p.maxChars
}

// Overlap returns the configured hard-wrap overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the note body into chunks tagged with the note's identity.
// Chunk IDs are "<note id>:<sequence>" with the sequence counting from zero.
func (p *Processor) Process(note domain.Note) []domain.Chunk {
	texts := Split(note.Body, p.maxChars, p.overlap)
	if len(texts) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:          fmt.Sprintf("%s:%d", note.ID, i),
			NoteID:      note.ID,
			NotePath:    note.Path,
			NoteTitle:   note.Title,
			NoteCreated: note.Created,
			Text:        text,
		})
	}
	return chunks
}

// Split breaks text into chunks of at most maxChars characters.
//
// Paragraphs (separated by blank lines) are packed greedily, joined by a
// blank line. A paragraph longer than maxChars on its own is hard-wrapped
// into windows of maxChars advancing by maxChars-overlapChars, and those
// windows are emitted as they are. Wrapping stops at the first window that
// reaches the end of the paragraph, so no trailing window lies entirely
// inside the one before it: 18 characters with maxChars 10 and overlap 2
// give two windows, not a third two-character tail. Lengths are counted in
// runes.
func Split(text string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if overlapChars < 0 {
		overlapChars = 0
	}

	t := strings.TrimSpace(text)
	if t == "" {
		return nil
	}

	var (
		chunks []string
		cur    string
		curLen int
	)
	for _, part := range paragraphSep.Split(t, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		partLen := len([]rune(part))

		if cur != "" && curLen+partLen+2 <= maxChars {
			cur += "\n\n" + part
			curLen += partLen + 2
			continue
		}

		if cur != "" {
			chunks = append(chunks, cur)
			cur, curLen = "", 0
		}
		if partLen <= maxChars {
			cur, curLen = part, partLen
			continue
		}
		chunks = append(chunks, hardWrap([]rune(part), maxChars, overlapChars)...)
	}
	if cur != "" {
		chunks = append(chunks, cur)
	}
	return chunks
}

// hardWrap cuts runes into sliding windows. The step is clamped to at least
// one character, and wrapping stops at the first window reaching the end.
func hardWrap(runes []rune, maxChars, overlapChars int) []string {
	step := maxChars - overlapChars
	if step < 1 {
		step = 1
	}

	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		if window := string(runes[start:end]); strings.TrimSpace(window) != "" {
			out = append(out, window)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}
