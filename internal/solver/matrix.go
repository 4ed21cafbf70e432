package solver

import (
	"fmt"
	"math"
)

// UnreachableSentinel replaces missing or unreachable pairwise distances, in
// meters. It sits at least two orders of magnitude above any realistic walking
// leg, so the optimizer only ever selects such an edge when the degree
// constraints force it (e.g. a destination reachable solely through the
// depot). Summing n sentinels for the instance sizes this solver targets stays
// far below float64 precision loss.
const UnreachableSentinel = 999_999

// Matrix is the distance model for one optimization run: an n×n array of
// directed travel distances with the depot at index 0. It is rebuilt fresh per
// request and never shared.
type Matrix struct {
	d           [][]float64
	substituted [][2]int
}

// NewMatrix validates and adopts a raw distance matrix. The input must be
// square with n ≥ 2 (depot plus at least one destination), have a zero
// diagonal and no negative entries. NaN or infinite entries are treated as
// unreachable pairs: they are replaced by UnreachableSentinel and reported via
// Substituted rather than failing the run.
func NewMatrix(d [][]float64) (*Matrix, error) {
	n := len(d)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points (depot + 1 destination), got %d", ErrInvalidInput, n)
	}

	m := &Matrix{d: make([][]float64, n)}
	for i, row := range d {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrInvalidInput, i, len(row), n)
		}

		m.d[i] = make([]float64, n)
		for j, v := range row {
			if i == j {
				if v != 0 && !math.IsNaN(v) {
					return nil, fmt.Errorf("%w: diagonal entry d[%d][%d] = %v, want 0", ErrInvalidInput, i, j, v)
				}
				continue
			}

			if math.IsNaN(v) || math.IsInf(v, 0) {
				m.d[i][j] = UnreachableSentinel
				m.substituted = append(m.substituted, [2]int{i, j})
				continue
			}
			if v < 0 {
				return nil, fmt.Errorf("%w: negative distance d[%d][%d] = %v", ErrInvalidInput, i, j, v)
			}
			m.d[i][j] = v
		}
	}

	return m, nil
}

// Size returns the point count n (depot included).
func (m *Matrix) Size() int { return len(m.d) }

// At returns the directed travel distance from point i to point j.
func (m *Matrix) At(i, j int) float64 { return m.d[i][j] }

// DepotDistances returns the direct depot-to-destination distances
// (d[0][1..n-1]). Informational only; the optimizer works on the full matrix.
func (m *Matrix) DepotDistances() []float64 {
	out := make([]float64, m.Size()-1)
	copy(out, m.d[0][1:])
	return out
}

// Rows returns a copy of the full matrix for reporting. Mutating the copy
// does not affect the model.
func (m *Matrix) Rows() [][]float64 {
	out := make([][]float64, len(m.d))
	for i, row := range m.d {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

// Substituted lists the (i, j) pairs whose distance was replaced by
// UnreachableSentinel. A non-empty list is a warning, not an error.
func (m *Matrix) Substituted() [][2]int { return m.substituted }
