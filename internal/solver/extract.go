package solver

import "fmt"

// Tour is the linear visiting order derived from an edge selection.
//
// Order holds destination indices (1..n-1) in visiting sequence; the depot is
// implicit at both ends. SegmentMeters has n entries: depot→Order[0], the
// legs between consecutive stops, and the closing leg Order[n-2]→depot.
// TotalMeters is the sum of all n segments.
type Tour struct {
	Order         []int
	SegmentMeters []float64
	TotalMeters   float64
}

// ExtractTour walks the selected edges from the depot into an explicit
// visiting order. The traversal is well-defined only because the degree and
// MTZ constraints guarantee a single cycle; any deviation (wrong degree, a
// premature return, a dead end) is reported as ErrInconsistentSelection and
// never as a partial tour.
func ExtractTour(m *Matrix, edges [][]bool) (*Tour, error) {
	n := m.Size()
	if len(edges) != n {
		return nil, fmt.Errorf("%w: selection has %d rows, want %d", ErrInconsistentSelection, len(edges), n)
	}

	// Every point must have exactly one outgoing and one incoming edge.
	next := make([]int, n)
	indeg := make([]int, n)
	for i := 0; i < n; i++ {
		if len(edges[i]) != n {
			return nil, fmt.Errorf("%w: selection row %d has %d entries, want %d", ErrInconsistentSelection, i, len(edges[i]), n)
		}
		out := 0
		for j := 0; j < n; j++ {
			if !edges[i][j] {
				continue
			}
			if j == i {
				return nil, fmt.Errorf("%w: self-loop at point %d", ErrInconsistentSelection, i)
			}
			out++
			next[i] = j
			indeg[j]++
		}
		if out != 1 {
			return nil, fmt.Errorf("%w: point %d has out-degree %d", ErrInconsistentSelection, i, out)
		}
	}
	for j := 0; j < n; j++ {
		if indeg[j] != 1 {
			return nil, fmt.Errorf("%w: point %d has in-degree %d", ErrInconsistentSelection, j, indeg[j])
		}
	}

	order := make([]int, 0, n)
	order = append(order, 0)
	visited := make([]bool, n)
	visited[0] = true
	cur := 0
	for len(order) < n {
		nxt := next[cur]
		if visited[nxt] {
			return nil, fmt.Errorf("%w: cycle returned to point %d after %d of %d steps", ErrInconsistentSelection, nxt, len(order), n)
		}
		visited[nxt] = true
		order = append(order, nxt)
		cur = nxt
	}
	if next[cur] != 0 {
		return nil, fmt.Errorf("%w: cycle closes at point %d, not the depot", ErrInconsistentSelection, next[cur])
	}

	segments := make([]float64, 0, n)
	total := 0.0
	for k := 0; k < n-1; k++ {
		d := m.At(order[k], order[k+1])
		segments = append(segments, d)
		total += d
	}
	closing := m.At(order[n-1], 0)
	segments = append(segments, closing)
	total += closing

	return &Tour{Order: order[1:], SegmentMeters: segments, TotalMeters: total}, nil
}
