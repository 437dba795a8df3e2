package lsa

import (
	"math"
	"sort"
)

// sparseVec is a row of a sparse matrix with column indices in ascending order.
type sparseVec struct {
	idx []int
	val []float64
}

// vocabulary maps terms to columns and carries their IDF weights.
type vocabulary struct {
	terms []string
	index map[string]int
	idf   []float64
}

func newVocabulary(terms []string, idf []float64) *vocabulary {
	v := &vocabulary{
		terms: terms,
		index: make(map[string]int, len(terms)),
		idf:   idf,
	}
	for i, t := range terms {
		v.index[t] = i
	}
	return v
}

// buildVocabulary counts terms over docs and keeps at most maxFeatures of
// them, preferring the highest corpus frequency and then lexical order.
// Columns are assigned in lexical order of the kept terms.
func buildVocabulary(docs [][]string, maxFeatures int) *vocabulary {
	df := make(map[string]int)
	tf := make(map[string]int)
	for _, terms := range docs {
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			tf[t]++
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	kept := make([]string, 0, len(tf))
	for t := range tf {
		kept = append(kept, t)
	}
	if maxFeatures > 0 && len(kept) > maxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if tf[kept[i]] != tf[kept[j]] {
				return tf[kept[i]] > tf[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:maxFeatures]
	}
	sort.Strings(kept)

	n := float64(len(docs))
	idf := make([]float64, len(kept))
	for i, t := range kept {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return newVocabulary(kept, idf)
}

// size returns the number of columns.
func (v *vocabulary) size() int {
	return len(v.terms)
}

// weigh turns a list of terms into an L2-normalised TF-IDF row. Terms outside
// the vocabulary are ignored.
func (v *vocabulary) weigh(terms []string) sparseVec {
	counts := make(map[int]float64)
	for _, t := range terms {
		if col, ok := v.index[t]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return sparseVec{}
	}

	row := sparseVec{
		idx: make([]int, 0, len(counts)),
		val: make([]float64, 0, len(counts)),
	}
	for col := range counts {
		row.idx = append(row.idx, col)
	}
	sort.Ints(row.idx)

	var sumSq float64
	for _, col := range row.idx {
		w := counts[col] * v.idf[col]
		row.val = append(row.val, w)
		sumSq += w * w
	}
	if norm := math.Sqrt(sumSq); norm > 0 {
		for i := range row.val {
			row.val[i] /= norm
		}
	}
	return row
}
