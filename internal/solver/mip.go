package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Status reports how the returned tour was obtained.
type Status int

const (
	// StatusOptimal: the branch-and-bound search ran to completion, the
	// tour is a proven optimum.
	StatusOptimal Status = iota
	// StatusFeasible: the time budget expired first; the tour is the best
	// feasible solution found so far.
	StatusFeasible
)

func (s Status) String() string {
	if s == StatusOptimal {
		return "optimal"
	}
	return "feasible"
}

// Config carries the per-run solver tuning. The zero value is usable.
type Config struct {
	// TimeLimit is the wall-clock budget for the solve. Zero means
	// DefaultTimeLimit.
	TimeLimit time.Duration

	// DisableWarmStart skips seeding the search with a greedy tour. With
	// the warm start enabled the solver always has a feasible fallback
	// when the budget expires; without it a tight budget can end in
	// ErrNoSolution.
	DisableWarmStart bool
}

const DefaultTimeLimit = 30 * time.Second

// lpNodeBudget caps how long a single node waits for its LP relaxation.
// The LP only sharpens the bound; when it overruns, the node falls back to
// the reduction bound and the search keeps its pace.
const lpNodeBudget = 250 * time.Millisecond

// Solution is the optimizer's raw output: the selected-edge matrix plus the
// exact objective value. The constraints guarantee Edges forms one cycle
// through every point; ExtractTour turns it into a visiting order.
type Solution struct {
	Edges     [][]bool
	Objective float64
	Status    Status
	Nodes     int
}

// Solve formulates the tour problem as an integer program and solves it by
// branch-and-bound.
//
// Variables: binary x[i][j] (travel directly from i to j) and an ordering
// variable u[i] ∈ [1, n-1] per non-depot point. Constraints: every point has
// exactly one outgoing and one incoming selected edge, and for every ordered
// pair of non-depot points i ≠ j the MTZ inequality
//
//	u[i] - u[j] + n·x[i][j] ≤ n - 1
//
// which rules out any cycle that excludes the depot. Objective: minimize
// Σ d[i][j]·x[i][j].
//
// Every node is bounded by a constant-time-per-entry reduction bound (fixed
// arc costs plus row minima plus column residuals), so the wall-clock budget
// is honored no matter how any one subproblem behaves. When time permits, a
// node additionally solves the LP relaxation of the model above for a tighter
// bound and a fractional branching variable; the LP runs on a single worker
// under a time slice, and an LP that stalls, fails, or misses its slice only
// costs that node the sharper bound, never correctness.
func Solve(ctx context.Context, m *Matrix, cfg Config) (*Solution, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil distance matrix", ErrInvalidInput)
	}
	n := m.Size()

	limit := cfg.TimeLimit
	if limit == 0 {
		limit = DefaultTimeLimit
	}
	deadline := time.Now().Add(limit)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	// A two-point instance has a single Hamiltonian cycle; no search needed.
	if n == 2 {
		return &Solution{
			Edges:     edgesFromOrder(n, []int{0, 1}),
			Objective: m.At(0, 1) + m.At(1, 0),
			Status:    StatusOptimal,
		}, nil
	}

	mo := &mipModel{n: n, d: m}

	bestCost := math.Inf(1)
	var bestEdges [][]bool
	if !cfg.DisableWarmStart {
		order, cost := nearestNeighborTour(m)
		bestCost = cost
		bestEdges = edgesFromOrder(n, order)
	}

	// One LP at a time: a stalled relaxation keeps the token until it
	// finishes, and the search simply runs on reduction bounds meanwhile.
	lpToken := make(chan struct{}, 1)
	lpToken <- struct{}{}

	root := make([]int8, mo.numX())
	for i := range root {
		root[i] = unfixed
	}
	stack := []bbNode{{fixes: root, bound: math.Inf(-1)}}

	nodes := 0
	for len(stack) > 0 {
		if time.Now().After(deadline) || ctx.Err() != nil {
			if bestEdges == nil {
				return nil, ErrNoSolution
			}
			return &Solution{Edges: bestEdges, Objective: bestCost, Status: StatusFeasible, Nodes: nodes}, nil
		}

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node.bound >= bestCost-1e-6 {
			continue
		}

		nodes++
		lb, forced, forcedCost, feasible := mo.reductionBound(node.fixes)
		if !feasible {
			continue
		}
		if forced != nil {
			// Every arc is determined; the subtree holds exactly one
			// selection. Keep it only if it forms a single cycle.
			if _, exErr := ExtractTour(m, forced); exErr == nil && forcedCost < bestCost-1e-9 {
				bestCost = forcedCost
				bestEdges = forced
			}
			continue
		}
		if lb >= bestCost-1e-6 {
			continue
		}

		rel, pruned := mo.tryRelaxation(node.fixes, lpToken, deadline)
		if pruned {
			continue
		}
		if rel != nil {
			if rel.obj > lb {
				lb = rel.obj
			}
			if lb >= bestCost-1e-6 {
				continue
			}
			if branch := mo.mostFractional(node.fixes, rel); branch >= 0 {
				pushChildren(&stack, node.fixes, branch, lb)
				continue
			}
			edges, cost := mo.integralCandidate(node.fixes, rel)
			if _, exErr := ExtractTour(m, edges); exErr == nil {
				if cost < bestCost-1e-9 {
					bestCost = cost
					bestEdges = edges
				}
				continue
			}
			// Integral but not one cycle (numerical edge case): branch on.
		}

		branch := mo.regretArc(node.fixes)
		if branch < 0 {
			continue
		}
		pushChildren(&stack, node.fixes, branch, lb)
	}

	if bestEdges == nil {
		return nil, ErrNoSolution
	}
	return &Solution{Edges: bestEdges, Objective: bestCost, Status: StatusOptimal, Nodes: nodes}, nil
}

const unfixed int8 = -1

type bbNode struct {
	fixes []int8
	bound float64
}

// pushChildren splits a node on one edge variable. LIFO: the x=1 branch goes
// on top so the search reaches full tours quickly.
func pushChildren(stack *[]bbNode, fixes []int8, branch int, bound float64) {
	zero := make([]int8, len(fixes))
	copy(zero, fixes)
	zero[branch] = 0
	one := make([]int8, len(fixes))
	copy(one, fixes)
	one[branch] = 1

	*stack = append(*stack, bbNode{fixes: zero, bound: bound})
	*stack = append(*stack, bbNode{fixes: one, bound: bound})
}

// mipModel owns the variable indexing for one instance. The n(n-1) x
// variables are laid out row-major with the diagonal skipped.
type mipModel struct {
	n int
	d *Matrix
}

func (mo *mipModel) numX() int { return mo.n * (mo.n - 1) }

func (mo *mipModel) xIndex(i, j int) int {
	off := j
	if j > i {
		off = j - 1
	}
	return i*(mo.n-1) + off
}

func (mo *mipModel) arc(idx int) (int, int) {
	i := idx / (mo.n - 1)
	j := idx % (mo.n - 1)
	if j >= i {
		j++
	}
	return i, j
}

// fixedArcs collects the arcs fixed to 1: rowFixed[i] is the destination
// forced for point i (or -1), colFixed[j] the forced source into j. Reports
// infeasible when two fixed arcs share a row or column.
func (mo *mipModel) fixedArcs(fixes []int8) (rowFixed, colFixed []int, cost float64, ok bool) {
	n := mo.n
	rowFixed = make([]int, n)
	colFixed = make([]int, n)
	for i := range rowFixed {
		rowFixed[i], colFixed[i] = -1, -1
	}
	for idx, f := range fixes {
		if f != 1 {
			continue
		}
		i, j := mo.arc(idx)
		if rowFixed[i] != -1 || colFixed[j] != -1 {
			return nil, nil, 0, false
		}
		rowFixed[i], colFixed[j] = j, i
		cost += mo.d.At(i, j)
	}
	return rowFixed, colFixed, cost, true
}

// reductionBound computes a fast lower bound for one node: the cost of the
// fixed arcs, plus each free row's cheapest allowed arc, plus each free
// column's residual after the row reduction. Any tour in the subtree pays at
// least this much. When every row is down to a single allowed arc the node's
// selection is fully determined and is returned as forced edges.
func (mo *mipModel) reductionBound(fixes []int8) (lb float64, forced [][]bool, forcedCost float64, feasible bool) {
	n := mo.n
	rowFixed, colFixed, base, ok := mo.fixedArcs(fixes)
	if !ok {
		return 0, nil, 0, false
	}
	lb = base

	rowMin := make([]float64, n)
	onlyDest := make([]int, n)
	allForced := true
	for i := 0; i < n; i++ {
		if rowFixed[i] != -1 {
			onlyDest[i] = rowFixed[i]
			continue
		}
		minC, count, dest := math.Inf(1), 0, -1
		for j := 0; j < n; j++ {
			if j == i || colFixed[j] != -1 || fixes[mo.xIndex(i, j)] == 0 {
				continue
			}
			count++
			if c := mo.d.At(i, j); c < minC {
				minC, dest = c, j
			}
		}
		if count == 0 {
			return 0, nil, 0, false
		}
		if count == 1 {
			onlyDest[i] = dest
		} else {
			onlyDest[i] = -1
			allForced = false
		}
		rowMin[i] = minC
		lb += minC
	}

	for j := 0; j < n; j++ {
		if colFixed[j] != -1 {
			continue
		}
		minR, count := math.Inf(1), 0
		for i := 0; i < n; i++ {
			if i == j || rowFixed[i] != -1 || fixes[mo.xIndex(i, j)] == 0 {
				continue
			}
			count++
			if r := mo.d.At(i, j) - rowMin[i]; r < minR {
				minR = r
			}
		}
		if count == 0 {
			return 0, nil, 0, false
		}
		if minR > 0 {
			lb += minR
		}
	}

	if !allForced {
		return lb, nil, 0, true
	}

	seen := make([]bool, n)
	edges := make([][]bool, n)
	for i := range edges {
		edges[i] = make([]bool, n)
	}
	cost := 0.0
	for i := 0; i < n; i++ {
		j := onlyDest[i]
		if j < 0 || seen[j] {
			return 0, nil, 0, false
		}
		seen[j] = true
		edges[i][j] = true
		cost += mo.d.At(i, j)
	}
	return lb, edges, cost, true
}

// regretArc picks the branching variable when no fractional LP solution is
// available: in the free row where settling for second-best would cost the
// most, branch on the cheapest allowed arc.
func (mo *mipModel) regretArc(fixes []int8) int {
	n := mo.n
	rowFixed, colFixed, _, ok := mo.fixedArcs(fixes)
	if !ok {
		return -1
	}

	bestIdx := -1
	bestRegret := -1.0
	for i := 0; i < n; i++ {
		if rowFixed[i] != -1 {
			continue
		}
		min1, min2 := math.Inf(1), math.Inf(1)
		argIdx := -1
		for j := 0; j < n; j++ {
			if j == i || colFixed[j] != -1 {
				continue
			}
			idx := mo.xIndex(i, j)
			if fixes[idx] == 0 {
				continue
			}
			c := mo.d.At(i, j)
			if c < min1 {
				min1, min2 = c, min1
				argIdx = idx
			} else if c < min2 {
				min2 = c
			}
		}
		if argIdx == -1 {
			return -1
		}
		regret := min2 - min1
		if math.IsInf(regret, 1) {
			regret = math.MaxFloat64
		}
		if regret > bestRegret {
			bestRegret = regret
			bestIdx = argIdx
		}
	}
	return bestIdx
}

// relaxation is the LP solution of one branch-and-bound node, mapped back to
// the original variable space.
type relaxation struct {
	obj  float64   // objective including the cost of edges fixed to 1
	xval []float64 // per x variable; fixed variables hold their fixed value
}

// tryRelaxation runs the node LP on the single LP worker if it is free and
// the deadline leaves room, waiting at most lpNodeBudget. Returns pruned=true
// when the LP proves the node infeasible. A timed-out, busy, or failed LP
// returns (nil, false): the caller keeps the reduction bound and branches
// combinatorially, so no subtree is ever discarded on an LP failure.
func (mo *mipModel) tryRelaxation(fixes []int8, token chan struct{}, deadline time.Time) (rel *relaxation, pruned bool) {
	if time.Until(deadline) < lpNodeBudget {
		return nil, false
	}
	select {
	case <-token:
	default:
		return nil, false
	}

	owned := make([]int8, len(fixes))
	copy(owned, fixes)

	type lpOutcome struct {
		rel        *relaxation
		infeasible bool
	}
	done := make(chan lpOutcome, 1)
	go func() {
		defer func() { token <- struct{}{} }()
		r, err := mo.solveRelaxation(owned)
		if err != nil {
			done <- lpOutcome{infeasible: errors.Is(err, lp.ErrInfeasible)}
			return
		}
		done <- lpOutcome{rel: r}
	}()

	timer := time.NewTimer(lpNodeBudget)
	defer timer.Stop()
	select {
	case out := <-done:
		return out.rel, out.infeasible
	case <-timer.C:
		return nil, false
	}
}

// solveRelaxation builds and solves the LP relaxation of the node obtained by
// fixing the given x variables. Every constraint is expressed as an
// inequality with its own slack column, so the standard-form matrix always
// has full row rank regardless of which variables are fixed. Substituting
// u' = u - 1 keeps all variables non-negative. x ≤ 1 needs no rows of its
// own: the out-degree ≤ row plus non-negativity already implies it.
func (mo *mipModel) solveRelaxation(fixes []int8) (*relaxation, error) {
	n := mo.n

	// Column layout: unfixed x variables, then u' variables, then one
	// slack per row (appended as rows are emitted).
	xcol := make([]int, mo.numX())
	cols := 0
	for idx := range xcol {
		if fixes[idx] == unfixed {
			xcol[idx] = cols
			cols++
		} else {
			xcol[idx] = -1
		}
	}
	nUnfixed := cols
	ucol := func(k int) int { return nUnfixed + k - 1 } // k in 1..n-1
	cols += n - 1

	fixedCost := 0.0
	for idx, f := range fixes {
		if f == 1 {
			i, j := mo.arc(idx)
			fixedCost += mo.d.At(i, j)
		}
	}

	type row struct {
		cols []int
		vals []float64
		rhs  float64
	}
	var rows []row
	// emit appends a constraint row with a fresh slack column; sign +1
	// encodes ≤, sign -1 encodes ≥.
	emit := func(cs []int, vs []float64, sign float64, rhs float64) {
		cs = append(cs, cols)
		vs = append(vs, sign)
		cols++
		rows = append(rows, row{cols: cs, vals: vs, rhs: rhs})
	}

	// Degree constraints: exactly one outgoing and one incoming edge per
	// point, written as paired ≤ / ≥ rows.
	for i := 0; i < n; i++ {
		outCols, outVals := []int{}, []float64{}
		inCols, inVals := []int{}, []float64{}
		outRHS, inRHS := 1.0, 1.0
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			if out := mo.xIndex(i, j); fixes[out] == unfixed {
				outCols = append(outCols, xcol[out])
				outVals = append(outVals, 1)
			} else {
				outRHS -= float64(fixes[out])
			}
			if in := mo.xIndex(j, i); fixes[in] == unfixed {
				inCols = append(inCols, xcol[in])
				inVals = append(inVals, 1)
			} else {
				inRHS -= float64(fixes[in])
			}
		}
		emit(append([]int{}, outCols...), append([]float64{}, outVals...), 1, outRHS)
		emit(outCols, outVals, -1, outRHS)
		emit(append([]int{}, inCols...), append([]float64{}, inVals...), 1, inRHS)
		emit(inCols, inVals, -1, inRHS)
	}

	// u' ≤ n-2.
	for k := 1; k < n; k++ {
		emit([]int{ucol(k)}, []float64{1}, 1, float64(n-2))
	}

	// MTZ subtour elimination over non-depot ordered pairs:
	// u[i] - u[j] + n·x[i][j] ≤ n - 1. The shift u = u' + 1 cancels in the
	// difference, so the bound is unchanged in u' space.
	for i := 1; i < n; i++ {
		for j := 1; j < n; j++ {
			if i == j {
				continue
			}
			idx := mo.xIndex(i, j)
			rhs := float64(n - 1)
			cs := []int{ucol(i), ucol(j)}
			vs := []float64{1, -1}
			if fixes[idx] == unfixed {
				cs = append(cs, xcol[idx])
				vs = append(vs, float64(n))
			} else {
				rhs -= float64(n) * float64(fixes[idx])
			}
			emit(cs, vs, 1, rhs)
		}
	}

	a := mat.NewDense(len(rows), cols, nil)
	b := make([]float64, len(rows))
	for r, rw := range rows {
		for k, c := range rw.cols {
			a.Set(r, c, rw.vals[k])
		}
		b[r] = rw.rhs
	}

	c := make([]float64, cols)
	for idx := 0; idx < mo.numX(); idx++ {
		if fixes[idx] == unfixed {
			i, j := mo.arc(idx)
			c[xcol[idx]] = mo.d.At(i, j)
		}
	}

	opt, xopt, err := lp.Simplex(c, a, b, 1e-10, nil)
	if err != nil {
		return nil, err
	}

	xval := make([]float64, mo.numX())
	for idx := range xval {
		if fixes[idx] == unfixed {
			xval[idx] = xopt[xcol[idx]]
		} else {
			xval[idx] = float64(fixes[idx])
		}
	}

	return &relaxation{obj: opt + fixedCost, xval: xval}, nil
}

// mostFractional picks the unfixed x variable farthest from integral, or -1
// when the relaxation is already integral.
func (mo *mipModel) mostFractional(fixes []int8, rel *relaxation) int {
	const tol = 1e-6
	best, bestFrac := -1, tol
	for idx, f := range fixes {
		if f != unfixed {
			continue
		}
		v := rel.xval[idx]
		frac := math.Min(v-math.Floor(v), math.Ceil(v)-v)
		if frac > bestFrac {
			bestFrac = frac
			best = idx
		}
	}
	return best
}

// integralCandidate converts an integral relaxation into an edge selection and
// recomputes its cost exactly from the distance matrix.
func (mo *mipModel) integralCandidate(fixes []int8, rel *relaxation) ([][]bool, float64) {
	n := mo.n
	edges := make([][]bool, n)
	for i := range edges {
		edges[i] = make([]bool, n)
	}

	cost := 0.0
	for idx := 0; idx < mo.numX(); idx++ {
		selected := fixes[idx] == 1 || (fixes[idx] == unfixed && rel.xval[idx] > 0.5)
		if selected {
			i, j := mo.arc(idx)
			edges[i][j] = true
			cost += mo.d.At(i, j)
		}
	}
	return edges, cost
}
