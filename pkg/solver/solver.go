package solver

import (
	"context"
	"fmt"
	"time"
)

// Var is an opaque handle to a model variable.
type Var int

// Term is one coefficient*variable product in a linear expression.
type Term struct {
	Var   Var
	Coeff int
}

// LinearExpr is a linear combination of variables plus a constant.
type LinearExpr struct {
	Terms []Term
	Const int
}

// Sum returns a linear expression summing the given variables with
// coefficient 1.
func Sum(vars ...Var) LinearExpr {
	e := LinearExpr{Terms: make([]Term, 0, len(vars))}
	for _, v := range vars {
		e.Terms = append(e.Terms, Term{Var: v, Coeff: 1})
	}
	return e
}

// AddTerm appends coeff*v to the expression.
func (e *LinearExpr) AddTerm(v Var, coeff int) {
	e.Terms = append(e.Terms, Term{Var: v, Coeff: coeff})
}

// Relation is a binary relation between a linear expression and a constant.
type Relation int

const (
	// EQ is equality.
	EQ Relation = iota
	// LEQ is less-than-or-equal.
	LEQ
	// GEQ is greater-than-or-equal.
	GEQ
	// LT is strict less-than.
	LT
	// GT is strict greater-than.
	GT
)

// String returns the relation's operator spelling.
func (r Relation) String() string {
	switch r {
	case EQ:
		return "=="
	case LEQ:
		return "<="
	case GEQ:
		return ">="
	case LT:
		return "<"
	case GT:
		return ">"
	default:
		return fmt.Sprintf("Relation(%d)", int(r))
	}
}

// Constraint is a handle to a posted linear constraint. OnlyEnforceIf makes
// the constraint conditional: it must hold only when every given 0/1 literal
// is 1. Calling it repeatedly accumulates literals.
type Constraint interface {
	OnlyEnforceIf(literals ...Var) Constraint
}

// Model is the abstract constraint model consumed by the compiler. All
// variables are bounded integers; boolean variables are 0/1 integers.
// Implementations are not safe for concurrent mutation and are single-use.
type Model interface {
	// NewBoolVar creates a 0/1 variable.
	NewBoolVar(name string) Var

	// NewIntVar creates an integer variable with inclusive bounds.
	NewIntVar(lo, hi int, name string) Var

	// AddLinear posts expr rel rhs and returns a handle for conditional
	// enforcement.
	AddLinear(expr LinearExpr, rel Relation, rhs int) Constraint

	// AddMaxEquality posts target == max(vars) over 0/1 variables.
	AddMaxEquality(target Var, vars []Var)

	// Maximize sets the objective. At most one objective per model; a later
	// call replaces an earlier one.
	Maximize(expr LinearExpr)

	// Solve searches for an assignment maximizing the objective. A positive
	// budget bounds search time; on expiry the best feasible incumbent found
	// so far is returned. A model with no feasible assignment yields a Result
	// with Feasible == false and a nil error. A nil Result is only returned
	// together with a non-nil error.
	Solve(ctx context.Context, budget time.Duration) (*Result, error)
}

// Result is a solved model's assignment.
type Result struct {
	// Feasible reports whether any assignment satisfying all constraints
	// was found.
	Feasible bool

	// Objective is the achieved objective value. Zero when infeasible.
	Objective int

	// Optimal reports whether the solver proved optimality. False when the
	// result is a best-effort incumbent produced under a time budget.
	Optimal bool

	values []int
}

// Value returns the solved value of a variable. Only valid when Feasible.
func (r *Result) Value(v Var) int {
	return r.values[int(v)]
}

// BoolValue returns the solved value of a 0/1 variable as a bool.
func (r *Result) BoolValue(v Var) bool {
	return r.values[int(v)] != 0
}
