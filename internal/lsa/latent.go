package lsa

// Bounds on the latent dimension.
const (
	// LatentCeiling caps the latent dimension regardless of corpus size.
	LatentCeiling = 256

	// LatentFloor is the preferred minimum latent dimension.
	LatentFloor = 2
)

// LatentDim chooses the number of SVD components for a corpus with the
// given vocabulary size and chunk count.
//
// The preferred size is a quarter of the vocabulary, clamped to
// [LatentFloor, LatentCeiling]. It never exceeds min(vocabSize, chunkCount)-1
// so the decomposition stays well posed, except that a non-empty corpus
// always keeps at least one component. An empty vocabulary or corpus yields 0.
func LatentDim(vocabSize, chunkCount int) int {
	if vocabSize <= 0 || chunkCount <= 0 {
		return 0
	}
	k := min(LatentCeiling, max(LatentFloor, vocabSize/4))
	k = min(k, min(vocabSize, chunkCount)-1)
	return max(k, 1)
}
