package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Empty(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Build([][]float32{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestBuild_RaggedDimensions(t *testing.T) {
	_, err := Build([][]float32{{1, 0}, {1, 0, 0}})
	assert.Error(t, err)
}

func TestSearch_OrthogonalScenario(t *testing.T) {
	// three orthogonal unit vectors for papers "A", "B", "C"
	vectors := [][]float32{
		{1, 0, 0}, // A
		{0, 1, 0}, // B
		{0, 0, 1}, // C
	}
	f, err := Build(vectors)
	require.NoError(t, err)

	hits := f.Search([]float32{0, 1, 0}, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Position, "exact match must come first")
	assert.Equal(t, float32(0), hits[0].Distance)
	assert.Contains(t, []int{0, 2}, hits[1].Position)
}

func TestSearch_KBounding(t *testing.T) {
	f, err := Build([][]float32{{1}, {2}, {3}})
	require.NoError(t, err)

	hits := f.Search([]float32{0}, 10)
	assert.Len(t, hits, 3, "k larger than index size returns all entries")

	hits = f.Search([]float32{0}, 1)
	assert.Len(t, hits, 1)
}

func TestSearch_StableTieOrder(t *testing.T) {
	// all identical vectors: every distance ties, insertion order must hold
	f, err := Build([][]float32{{1, 1}, {1, 1}, {1, 1}})
	require.NoError(t, err)

	hits := f.Search([]float32{1, 1}, 3)
	require.Len(t, hits, 3)
	for i, h := range hits {
		assert.Equal(t, i, h.Position)
	}
}

func TestSearch_AscendingDistances(t *testing.T) {
	f, err := Build([][]float32{{5}, {1}, {3}})
	require.NoError(t, err)

	hits := f.Search([]float32{0}, 3)
	require.Len(t, hits, 3)
	assert.Equal(t, []int{1, 2, 0}, []int{hits[0].Position, hits[1].Position, hits[2].Position})
	assert.LessOrEqual(t, hits[0].Distance, hits[1].Distance)
	assert.LessOrEqual(t, hits[1].Distance, hits[2].Distance)
}

func TestBuild_Idempotent(t *testing.T) {
	vectors := [][]float32{{0.2, 0.8}, {0.9, 0.1}, {0.5, 0.5}}
	query := []float32{0.6, 0.4}

	first, err := Build(vectors)
	require.NoError(t, err)
	second, err := Build(vectors)
	require.NoError(t, err)

	assert.Equal(t, first.Search(query, 3), second.Search(query, 3))
}

func TestBuild_CopiesInput(t *testing.T) {
	vectors := [][]float32{{1, 0}}
	f, err := Build(vectors)
	require.NoError(t, err)

	vectors[0][0] = 99
	hits := f.Search([]float32{1, 0}, 1)
	assert.Equal(t, float32(0), hits[0].Distance, "mutating the input must not affect the index")
}
