package index

import (
	"sort"
	"strings"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

// Hit is a chunk with its cosine similarity to the query.
type Hit struct {
	Chunk domain.Chunk
	Score float64
}

// Search ranks chunks by cosine similarity to query and returns at most
// topK of them, best first. Equal scores keep corpus order. An empty query,
// an empty index or a non-positive topK yields no hits.
func (idx *Index) Search(query string, topK int) []Hit {
	if strings.TrimSpace(query) == "" || len(idx.chunks) == 0 || topK <= 0 {
		return nil
	}

	q := idx.model.Embed(query)
	hits := make([]Hit, len(idx.chunks))
	for i, row := range idx.embeddings {
		var score float64
		for j := range row {
			score += float64(row[j]) * float64(q[j])
		}
		hits[i] = Hit{Chunk: idx.chunks[i], Score: score}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}
