package embedding

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// DefaultDimension is the vector size used when none is configured
const DefaultDimension = 384

// HashProvider is a deterministic placeholder provider. It seeds a PRNG
// with a hash of the input text and draws the vector from a normal
// distribution, so identical texts always produce identical vectors.
// The vectors carry no semantic meaning; the provider exists so the
// index pipeline can run without a model backend.
type HashProvider struct {
	dimension int
}

// NewHashProvider creates a hash-based provider with the given dimension
func NewHashProvider(dimension int) (*HashProvider, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", dimension)
	}
	return &HashProvider{dimension: dimension}, nil
}

// Embed returns one deterministic vector per input text
func (p *HashProvider) Embed(texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = p.vector(text)
	}
	return vectors, nil
}

// Dimension returns the configured vector length
func (p *HashProvider) Dimension() int {
	return p.dimension
}

func (p *HashProvider) vector(text string) []float64 {
	h := fnv.New64a()
	h.Write([]byte(text))

	//nolint:gosec // deterministic placeholder vectors, not cryptographic use
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vec := make([]float64, p.dimension)
	for i := range vec {
		vec[i] = rng.NormFloat64()
	}
	return vec
}
