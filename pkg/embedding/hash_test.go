package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHashProvider(t *testing.T) {
	p, err := NewHashProvider(DefaultDimension)
	require.NoError(t, err)
	assert.Equal(t, DefaultDimension, p.Dimension())
}

func TestNewHashProviderInvalidDimension(t *testing.T) {
	_, err := NewHashProvider(0)
	assert.Error(t, err)

	_, err = NewHashProvider(-5)
	assert.Error(t, err)
}

func TestHashProviderDeterministic(t *testing.T) {
	p, err := NewHashProvider(64)
	require.NoError(t, err)

	first, err := p.Embed([]string{"the quick brown fox"})
	require.NoError(t, err)
	second, err := p.Embed([]string{"the quick brown fox"})
	require.NoError(t, err)

	assert.Equal(t, first[0], second[0])
}

func TestHashProviderDistinctTexts(t *testing.T) {
	p, err := NewHashProvider(64)
	require.NoError(t, err)

	vectors, err := p.Embed([]string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Len(t, vectors[0], 64)
	assert.Len(t, vectors[1], 64)
	assert.NotEqual(t, vectors[0], vectors[1])
}

func TestHashProviderEmptyInput(t *testing.T) {
	p, err := NewHashProvider(16)
	require.NoError(t, err)

	vectors, err := p.Embed(nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestCosineSimilaritySelf(t *testing.T) {
	p, err := NewHashProvider(128)
	require.NoError(t, err)

	vectors, err := p.Embed([]string{"self similarity"})
	require.NoError(t, err)

	sim := CosineSimilarity(vectors[0], vectors[0])
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarityOpposite(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{-1, -2, -3}
	assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	a := []float64{0, 0, 0}
	b := []float64{1, 2, 3}
	assert.Equal(t, 0.0, CosineSimilarity(a, b))
	assert.Equal(t, 0.0, CosineSimilarity(b, a))
	assert.Equal(t, 0.0, CosineSimilarity(a, a))
}

func TestCosineSimilarityBounded(t *testing.T) {
	p, err := NewHashProvider(32)
	require.NoError(t, err)

	vectors, err := p.Embed([]string{"one", "two", "three"})
	require.NoError(t, err)

	for i := range vectors {
		for j := range vectors {
			sim := CosineSimilarity(vectors[i], vectors[j])
			assert.LessOrEqual(t, sim, 1.0+1e-9)
			assert.GreaterOrEqual(t, sim, -1.0-1e-9)
			assert.False(t, math.IsNaN(sim))
		}
	}
}
