package constraint

import "errors"

// Error kinds surfaced by the builder, compiler, and orchestrator. Callers
// match them with errors.Is.
var (
	// ErrUnknownReference indicates a constraint references a URI that is
	// neither a registered section nor a candidate item.
	ErrUnknownReference = errors.New("unknown reference")

	// ErrInvalidConfiguration indicates builder misuse, e.g. adding
	// constraints before sections are set or a non-positive scaling.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInfeasible indicates the solver proved no assignment satisfies the
	// constraints.
	ErrInfeasible = errors.New("infeasible")

	// ErrSolverFailure indicates the solver failed or exceeded its time
	// budget without finding any feasible assignment.
	ErrSolverFailure = errors.New("solver failure")
)
