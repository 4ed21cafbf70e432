package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrixRejectsInvalidInput(t *testing.T) {
	t.Run("too few points", func(t *testing.T) {
		_, err := NewMatrix([][]float64{{0}})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("ragged rows", func(t *testing.T) {
		_, err := NewMatrix([][]float64{{0, 1}, {1}})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("negative distance", func(t *testing.T) {
		_, err := NewMatrix([][]float64{{0, -5}, {5, 0}})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("nonzero diagonal", func(t *testing.T) {
		_, err := NewMatrix([][]float64{{3, 1}, {1, 0}})
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestNewMatrixSubstitutesUnreachablePairs(t *testing.T) {
	m, err := NewMatrix([][]float64{
		{0, 100, math.NaN()},
		{100, 0, 200},
		{math.Inf(1), 200, 0},
	})
	require.NoError(t, err)

	assert.Equal(t, float64(UnreachableSentinel), m.At(0, 2))
	assert.Equal(t, float64(UnreachableSentinel), m.At(2, 0))
	assert.Equal(t, 100.0, m.At(0, 1))
	assert.ElementsMatch(t, [][2]int{{0, 2}, {2, 0}}, m.Substituted())
}

func TestMatrixDepotDistances(t *testing.T) {
	m, err := NewMatrix([][]float64{
		{0, 120, 340},
		{120, 0, 50},
		{340, 50, 0},
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{120, 340}, m.DepotDistances())
	assert.Equal(t, 3, m.Size())
	assert.Empty(t, m.Substituted())
}
