package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatrix4(t *testing.T) *Matrix {
	t.Helper()
	m, err := NewMatrix([][]float64{
		{0, 10, 25, 10},
		{10, 0, 10, 25},
		{25, 10, 0, 10},
		{10, 25, 10, 0},
	})
	require.NoError(t, err)
	return m
}

func selection(n int, arcs ...[2]int) [][]bool {
	edges := make([][]bool, n)
	for i := range edges {
		edges[i] = make([]bool, n)
	}
	for _, a := range arcs {
		edges[a[0]][a[1]] = true
	}
	return edges
}

func TestExtractTourWalksSingleCycle(t *testing.T) {
	m := testMatrix4(t)
	edges := selection(4, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 0})

	tour, err := ExtractTour(m, edges)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, tour.Order)
	assert.Equal(t, []float64{10, 10, 10, 10}, tour.SegmentMeters)
	assert.InDelta(t, 40, tour.TotalMeters, 1e-9)
}

func TestExtractTourRejectsWrongOutDegree(t *testing.T) {
	m := testMatrix4(t)

	// Point 1 has no outgoing edge, point 2 has two.
	edges := selection(4, [2]int{0, 1}, [2]int{2, 3}, [2]int{2, 1}, [2]int{3, 0})
	_, err := ExtractTour(m, edges)
	require.ErrorIs(t, err, ErrInconsistentSelection)
}

func TestExtractTourRejectsDisjointSubtours(t *testing.T) {
	m := testMatrix4(t)

	// Two 2-cycles: 0<->1 and 2<->3. Degrees are all 1, but the walk
	// returns to the depot after two steps.
	edges := selection(4, [2]int{0, 1}, [2]int{1, 0}, [2]int{2, 3}, [2]int{3, 2})
	_, err := ExtractTour(m, edges)
	require.ErrorIs(t, err, ErrInconsistentSelection)
}

func TestExtractTourRejectsWrongInDegree(t *testing.T) {
	m := testMatrix4(t)

	// Point 1 receives two edges, point 3 none.
	edges := selection(4, [2]int{0, 1}, [2]int{2, 1}, [2]int{1, 2}, [2]int{3, 0})
	_, err := ExtractTour(m, edges)
	require.ErrorIs(t, err, ErrInconsistentSelection)
}

func TestExtractTourRejectsSizeMismatch(t *testing.T) {
	m := testMatrix4(t)
	_, err := ExtractTour(m, selection(3, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0}))
	require.ErrorIs(t, err, ErrInconsistentSelection)
}
