// Package embedding defines the embedding provider abstraction used by the
// document index, together with vector similarity helpers. Providers turn
// text into fixed-dimension float vectors; the index only depends on this
// interface, so a hash-based placeholder and a real model-backed provider
// are interchangeable.
package embedding

import "math"

// Provider generates embedding vectors for text
type Provider interface {
	// Embed returns one vector per input text, in input order
	Embed(texts []string) ([][]float64, error)
	// Dimension returns the length of the vectors this provider produces
	Dimension() int
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Vectors of different lengths are compared over the shorter prefix.
// If either vector has zero magnitude the similarity is 0.
func CosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
