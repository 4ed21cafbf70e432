package solver

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteForceTotal computes the optimal closed-tour length by enumerating all
// destination permutations. Only viable for the small instances used here.
func bruteForceTotal(m *Matrix) float64 {
	n := m.Size()
	perm := make([]int, 0, n-1)
	used := make([]bool, n)
	best := math.Inf(1)

	var walk func(last int, cost float64)
	walk = func(last int, cost float64) {
		if cost >= best {
			return
		}
		if len(perm) == n-1 {
			if total := cost + m.At(last, 0); total < best {
				best = total
			}
			return
		}
		for j := 1; j < n; j++ {
			if used[j] {
				continue
			}
			used[j] = true
			perm = append(perm, j)
			walk(j, cost+m.At(last, j))
			perm = perm[:len(perm)-1]
			used[j] = false
		}
	}
	walk(0, 0)
	return best
}

func randomMatrix(t *testing.T, n int, seed int64) *Matrix {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := range d[i] {
			if i != j {
				d[i][j] = float64(100 + rng.Intn(2000))
			}
		}
	}
	m, err := NewMatrix(d)
	require.NoError(t, err)
	return m
}

func requireValidTour(t *testing.T, m *Matrix, sol *Solution) *Tour {
	t.Helper()
	tour, err := ExtractTour(m, sol.Edges)
	require.NoError(t, err, "selected edges must form one cycle through every point")

	// The extracted order is a permutation of all destination indices.
	require.Len(t, tour.Order, m.Size()-1)
	seen := make(map[int]bool, len(tour.Order))
	for _, p := range tour.Order {
		require.Greater(t, p, 0)
		require.Less(t, p, m.Size())
		require.False(t, seen[p], "destination %d visited twice", p)
		seen[p] = true
	}

	assert.InDelta(t, sol.Objective, tour.TotalMeters, 1e-6,
		"objective must equal the sum of matrix entries along the cycle")
	return tour
}

func TestSolveKnownSymmetricInstance(t *testing.T) {
	m := testMatrix4(t)

	sol, err := Solve(context.Background(), m, Config{})
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	tour := requireValidTour(t, m, sol)
	assert.InDelta(t, 40, tour.TotalMeters, 1e-6)

	// Both orientations of the square are optimal.
	if tour.Order[0] != 1 {
		assert.Equal(t, []int{3, 2, 1}, tour.Order)
	} else {
		assert.Equal(t, []int{1, 2, 3}, tour.Order)
	}
}

func TestSolveDegenerateTwoPoints(t *testing.T) {
	m, err := NewMatrix([][]float64{{0, 700}, {700, 0}})
	require.NoError(t, err)

	sol, err := Solve(context.Background(), m, Config{})
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	tour := requireValidTour(t, m, sol)
	assert.Equal(t, []int{1}, tour.Order)
	assert.InDelta(t, 1400, tour.TotalMeters, 1e-9)
}

func TestSolveMatchesBruteForce(t *testing.T) {
	for _, seed := range []int64{1, 7, 42} {
		m := randomMatrix(t, 7, seed)

		sol, err := Solve(context.Background(), m, Config{})
		require.NoError(t, err)
		require.Equal(t, StatusOptimal, sol.Status)

		requireValidTour(t, m, sol)
		assert.InDelta(t, bruteForceTotal(m), sol.Objective, 1e-6, "seed %d", seed)
	}
}

func TestSolveNeverReturnsSubtours(t *testing.T) {
	// Asymmetric instances across several sizes; requireValidTour fails if
	// the selection ever contains a disjoint cycle or a bad degree.
	for n := 3; n <= 8; n++ {
		m := randomMatrix(t, n, int64(100+n))

		sol, err := Solve(context.Background(), m, Config{})
		require.NoError(t, err, "n=%d", n)
		requireValidTour(t, m, sol)
	}
}

func TestSolveIdempotentObjective(t *testing.T) {
	m := randomMatrix(t, 6, 9)

	first, err := Solve(context.Background(), m, Config{})
	require.NoError(t, err)
	second, err := Solve(context.Background(), m, Config{})
	require.NoError(t, err)

	assert.InDelta(t, first.Objective, second.Objective, 1e-9)
}

func TestSolveRoutesUnreachableDestinationThroughDepot(t *testing.T) {
	// Destination 3 is unreachable from the other destinations; the degree
	// constraints still force a Hamiltonian cycle, paid for with sentinel
	// legs rather than failing.
	u := math.NaN()
	m, err := NewMatrix([][]float64{
		{0, 100, 150, 200},
		{100, 0, 80, u},
		{150, 80, 0, u},
		{200, u, u, 0},
	})
	require.NoError(t, err)
	require.Len(t, m.Substituted(), 4)

	sol, err := Solve(context.Background(), m, Config{})
	require.NoError(t, err)

	tour := requireValidTour(t, m, sol)
	// Exactly one sentinel leg is unavoidable: destination 3 borders the
	// depot on one side and a sentinel edge on the other.
	assert.GreaterOrEqual(t, tour.TotalMeters, float64(UnreachableSentinel))
	assert.Less(t, tour.TotalMeters, 2*float64(UnreachableSentinel))
}

func TestSolveReturnsWithinTimeBudget(t *testing.T) {
	// A small instance must come back optimal long before a 2 s budget runs
	// out; no single subproblem may stall the solve past the deadline.
	m := randomMatrix(t, 7, 1)

	budget := 2 * time.Second
	start := time.Now()
	sol, err := Solve(context.Background(), m, Config{TimeLimit: budget})
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	requireValidTour(t, m, sol)
	assert.InDelta(t, bruteForceTotal(m), sol.Objective, 1e-6)
	assert.Less(t, elapsed, budget+time.Second,
		"solve overran its wall-clock budget: %v", elapsed)
}

func TestSolveProvesOptimalityAtTargetSize(t *testing.T) {
	// Ten destinations is the expected production size; the default budget
	// must be enough to prove optimality, not just find an incumbent.
	m := randomMatrix(t, 11, 3)

	start := time.Now()
	sol, err := Solve(context.Background(), m, Config{})
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	requireValidTour(t, m, sol)
	assert.InDelta(t, bruteForceTotal(m), sol.Objective, 1e-6)
	assert.Less(t, elapsed, DefaultTimeLimit)
}

func TestSolveTimeBudgetReturnsBestFeasible(t *testing.T) {
	m := randomMatrix(t, 26, 3)

	sol, err := Solve(context.Background(), m, Config{TimeLimit: time.Nanosecond})
	require.NoError(t, err)
	require.Equal(t, StatusFeasible, sol.Status)

	// Best-effort result still satisfies every tour invariant.
	requireValidTour(t, m, sol)
}

func TestSolveNoFeasibleSolutionWithinBudget(t *testing.T) {
	m := randomMatrix(t, 26, 3)

	_, err := Solve(context.Background(), m, Config{
		TimeLimit:        time.Nanosecond,
		DisableWarmStart: true,
	})
	require.ErrorIs(t, err, ErrNoSolution)
}
