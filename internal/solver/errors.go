package solver

import "errors"

// The three failure classes callers are expected to branch on. They are
// deliberately distinct: input problems are the caller's to fix, a missing
// solution can be retried with a larger budget or fewer points, and a
// consistency failure is a defect in the solver itself.
var (
	// ErrInvalidInput marks malformed instances: too few points, a
	// non-square matrix, or negative distances. Raised before any solve
	// attempt.
	ErrInvalidInput = errors.New("solver: invalid input")

	// ErrNoSolution means no feasible tour was found within the time
	// budget. The solver never retries or escalates the budget itself.
	ErrNoSolution = errors.New("solver: no feasible tour within time budget")

	// ErrInconsistentSelection means the edge selection handed to the
	// extractor violates the single-cycle invariant the optimizer is
	// supposed to guarantee.
	ErrInconsistentSelection = errors.New("solver: edge selection violates tour invariants")
)
