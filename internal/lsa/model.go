package lsa

import (
	"fmt"

	"github.com/viant/vec/search"
)

// Fitting defaults.
const (
	// DefaultMaxFeatures caps the vocabulary size to bound memory.
	DefaultMaxFeatures = 50000

	// DefaultSeed seeds the random projection of the decomposition.
	DefaultSeed uint64 = 0

	// DefaultPowerIterations is the number of power iterations run by the
	// randomized SVD.
	DefaultPowerIterations = 5
)

// Model is a fitted TF-IDF vocabulary plus an SVD projection.
// It is immutable and safe for concurrent use.
type Model struct {
	vocab      *vocabulary
	components [][]float64
}

type fitConfig struct {
	maxFeatures int
	seed        uint64
	iters       int
}

// Option configures Fit.
type Option func(*fitConfig)

// WithMaxFeatures caps the vocabulary size. Non-positive values are ignored.
func WithMaxFeatures(n int) Option {
	return func(c *fitConfig) {
		if n > 0 {
			c.maxFeatures = n
		}
	}
}

// WithSeed sets the seed of the random projection.
func WithSeed(seed uint64) Option {
	return func(c *fitConfig) {
		c.seed = seed
	}
}

// WithPowerIterations sets the number of power iterations. Negative values
// are ignored.
func WithPowerIterations(n int) Option {
	return func(c *fitConfig) {
		if n >= 0 {
			c.iters = n
		}
	}
}

// Fit builds a model over texts. It never fails: an empty corpus or an
// empty vocabulary yields a model whose embeddings have zero width.
func Fit(texts []string, opts ...Option) *Model {
	cfg := fitConfig{
		maxFeatures: DefaultMaxFeatures,
		seed:        DefaultSeed,
		iters:       DefaultPowerIterations,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	docs := make([][]string, len(texts))
	for i, t := range texts {
		docs[i] = Terms(t)
	}
	vocab := buildVocabulary(docs, cfg.maxFeatures)
	m := &Model{vocab: vocab}

	k := LatentDim(vocab.size(), len(texts))
	if k == 0 {
		return m
	}

	rows := make([]sparseVec, len(docs))
	for i, terms := range docs {
		rows[i] = vocab.weigh(terms)
	}
	m.components = randomizedSVD(rows, vocab.size(), k, cfg.seed, cfg.iters)
	return m
}

// Restore rebuilds a model from previously fitted parameters: the vocabulary
// terms in column order, their IDF weights and the SVD components.
func Restore(terms []string, idf []float64, components [][]float64) (*Model, error) {
	if len(terms) != len(idf) {
		return nil, fmt.Errorf("lsa: %d terms but %d idf weights", len(terms), len(idf))
	}
	for i, c := range components {
		if len(c) != len(terms) {
			return nil, fmt.Errorf("lsa: component %d has %d columns, want %d", i, len(c), len(terms))
		}
	}
	return &Model{
		vocab:      newVocabulary(terms, idf),
		components: components,
	}, nil
}

// Dim returns the latent dimension, the width of every embedding.
func (m *Model) Dim() int {
	return len(m.components)
}

// VocabularySize returns the number of TF-IDF columns.
func (m *Model) VocabularySize() int {
	return m.vocab.size()
}

// Terms returns the vocabulary in column order. The slice must not be modified.
func (m *Model) Terms() []string {
	return m.vocab.terms
}

// IDF returns the inverse document frequency per column. The slice must not
// be modified.
func (m *Model) IDF() []float64 {
	return m.vocab.idf
}

// Components returns the SVD components, Dim rows of VocabularySize values.
// The slices must not be modified.
func (m *Model) Components() [][]float64 {
	return m.components
}

// Transform embeds each text.
func (m *Model) Transform(texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.Embed(t)
	}
	return out
}

// Embed projects text through the vocabulary and components and scales the
// result to unit length. Texts sharing no terms with the vocabulary embed
// to the zero vector.
func (m *Model) Embed(text string) []float32 {
	row := m.vocab.weigh(Terms(text))

	v := make([]float32, len(m.components))
	for j, comp := range m.components {
		var dot float64
		for p, col := range row.idx {
			dot += row.val[p] * comp[col]
		}
		v[j] = float32(dot)
	}
	return normalize(v)
}

// normalize scales v in place to unit length; the zero vector is left alone.
func normalize(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}
	mag := search.Float32s(v).Magnitude()
	if mag == 0 {
		return v
	}
	for i := range v {
		v[i] /= mag
	}
	return v
}
