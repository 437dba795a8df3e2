// Package index assembles notes into a searchable snapshot: the chunks, the
// LSA model fitted over them and one unit-length embedding per chunk.
//
// An Index is never mutated after Build or Restore. A rebuild produces a new
// value which callers publish by swapping a pointer, so readers always see a
// complete snapshot.
package index

import (
	"fmt"
	"time"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/lsa"
	"github.com/cardinalphin/fire-and-forget-notes/internal/postprocessors/chunker"
)

// Index is an immutable, queryable snapshot of the notes corpus.
type Index struct {
	chunks     []domain.Chunk
	model      *lsa.Model
	embeddings [][]float32
	builtAt    time.Time
}

type buildConfig struct {
	chunker *chunker.Processor
	lsaOpts []lsa.Option
	now     func() time.Time
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithChunker sets the processor used to split note bodies.
func WithChunker(p *chunker.Processor) BuildOption {
	return func(c *buildConfig) {
		if p != nil {
			c.chunker = p
		}
	}
}

// WithModelOptions passes options through to lsa.Fit.
func WithModelOptions(opts ...lsa.Option) BuildOption {
	return func(c *buildConfig) {
		c.lsaOpts = append(c.lsaOpts, opts...)
	}
}

// WithClock overrides the build timestamp source.
func WithClock(now func() time.Time) BuildOption {
	return func(c *buildConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// Build chunks every note, fits a model over all chunk texts and embeds them.
// Chunks keep note order, then their order within the note.
func Build(notes []domain.Note, opts ...BuildOption) *Index {
	cfg := buildConfig{
		chunker: chunker.New(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var chunks []domain.Chunk
	for i := range notes {
		chunks = append(chunks, cfg.chunker.Process(notes[i])...)
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	corpus := texts
	if len(corpus) == 0 {
		corpus = []string{""}
	}
	model := lsa.Fit(corpus, cfg.lsaOpts...)

	return &Index{
		chunks:     chunks,
		model:      model,
		embeddings: model.Transform(texts),
		builtAt:    cfg.now(),
	}
}

// Restore reassembles an Index from persisted parts.
func Restore(chunks []domain.Chunk, model *lsa.Model, embeddings [][]float32, builtAt time.Time) (*Index, error) {
	if model == nil {
		return nil, fmt.Errorf("restore index: missing model")
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("restore index: %d embeddings for %d chunks", len(embeddings), len(chunks))
	}
	for i, e := range embeddings {
		if len(e) != model.Dim() {
			return nil, fmt.Errorf("restore index: embedding %d has width %d, want %d", i, len(e), model.Dim())
		}
	}
	return &Index{
		chunks:     chunks,
		model:      model,
		embeddings: embeddings,
		builtAt:    builtAt,
	}, nil
}

// Chunks returns the indexed chunks in corpus order. The slice must not be modified.
func (idx *Index) Chunks() []domain.Chunk {
	return idx.chunks
}

// Model returns the fitted model bound to this index.
func (idx *Index) Model() *lsa.Model {
	return idx.model
}

// Embeddings returns one row per chunk. The rows must not be modified.
func (idx *Index) Embeddings() [][]float32 {
	return idx.embeddings
}

// BuiltAt returns when the index was built.
func (idx *Index) BuiltAt() time.Time {
	return idx.builtAt
}

// Len returns the number of chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Stats summarises the index.
func (idx *Index) Stats() domain.IndexStats {
	notes := make(map[string]struct{})
	for i := range idx.chunks {
		notes[idx.chunks[i].NoteID] = struct{}{}
	}
	return domain.IndexStats{
		Chunks:         len(idx.chunks),
		Notes:          len(notes),
		VocabularySize: idx.model.VocabularySize(),
		LatentDim:      idx.model.Dim(),
		BuiltAt:        idx.builtAt,
	}
}
