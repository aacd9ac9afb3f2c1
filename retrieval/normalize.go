package retrieval

import (
	"math"

	"github.com/Semara-26/shiki-pilot/core"
)

// FitDimension fits a raw embedding to the index width. Longer vectors are
// truncated, shorter ones zero-padded. Vectors already at the index width
// are returned unchanged. The same transform is applied to stored product
// vectors and query vectors so both sides always compare at equal length.
func FitDimension(vector []float32) []float32 {
	switch {
	case len(vector) > core.EmbeddingDimensions:
		return vector[:core.EmbeddingDimensions]
	case len(vector) < core.EmbeddingDimensions:
		padded := make([]float32, core.EmbeddingDimensions)
		copy(padded, vector)
		return padded
	default:
		return vector
	}
}

// UsableVector reports whether an embedding response can be indexed.
// Empty responses and vectors containing NaN are treated the same as a
// failed embedding call. The catalog and backfill write paths apply the
// same check so an unusable vector is never persisted.
func UsableVector(vector []float32) bool {
	if len(vector) == 0 {
		return false
	}
	for _, f := range vector {
		if math.IsNaN(float64(f)) {
			return false
		}
	}
	return true
}
