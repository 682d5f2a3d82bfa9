package services

import "math"

// CosineSimilarity returns 1 - cosine distance between two vectors, in
// [-1, 1] (practically [0, 1] for embedding models). Mismatched or empty
// vectors score 0. Accumulation is done in float64 for stability.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
