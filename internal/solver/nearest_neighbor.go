package solver

// nearestNeighborTour builds a Hamiltonian cycle greedily: from the depot,
// repeatedly step to the closest unvisited point. The result is only used as
// the branch-and-bound warm start, giving an immediate upper bound and a
// feasible fallback when the time budget expires mid-search. It is never
// returned as an "optimal" answer on its own.
//
// Ties break toward the lowest index so the tour is deterministic.
func nearestNeighborTour(m *Matrix) ([]int, float64) {
	n := m.Size()

	order := make([]int, 0, n)
	order = append(order, 0)
	visited := make([]bool, n)
	visited[0] = true

	cur := 0
	total := 0.0
	for len(order) < n {
		next := -1
		for j := 0; j < n; j++ {
			if visited[j] || j == cur {
				continue
			}
			if next == -1 || m.At(cur, j) < m.At(cur, next) {
				next = j
			}
		}

		total += m.At(cur, next)
		visited[next] = true
		order = append(order, next)
		cur = next
	}
	total += m.At(cur, 0)

	return order, total
}

// edgesFromOrder converts a visiting order (starting at the depot) into the
// boolean edge-selection form the optimizer reports.
func edgesFromOrder(n int, order []int) [][]bool {
	edges := make([][]bool, n)
	for i := range edges {
		edges[i] = make([]bool, n)
	}
	for k := 0; k < len(order)-1; k++ {
		edges[order[k]][order[k+1]] = true
	}
	edges[order[len(order)-1]][order[0]] = true
	return edges
}
