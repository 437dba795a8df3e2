// Package lsa fits a latent semantic analysis model over a corpus of short
// texts and projects texts into the fitted space.
//
// Fitting runs three stages:
//
//   - TF-IDF: unigrams and bigrams over lowercased tokens with English stop
//     words removed, smooth inverse document frequency, L2-normalised rows.
//   - Reduction: a randomized truncated SVD with a fixed seed, so identical
//     input always yields identical components.
//   - Normalisation: every projected vector is scaled to unit length, so a
//     dot product between two embeddings is their cosine similarity.
//
// A Model is immutable once fitted and safe for concurrent use. Queries must
// be projected through the same Model that produced the corpus embeddings.
package lsa
