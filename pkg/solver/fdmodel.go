package solver

import (
	"context"
	"fmt"
	"time"

	kanren "github.com/gitrdm/gokanlogic/pkg/minikanren"
)

// maxExprRange caps the value range of a lowered linear expression. The FD
// backend represents each expression total as a bitset domain, so the range
// bounds memory per constraint.
const maxExprRange = 1 << 22

// FDModel is the default Model implementation. It lowers the 0/1 integer
// model onto the gokanlogic finite-domain solver:
//
//   - FD domains are 1-based, so every variable is shifted by an offset
//     (a 0/1 boolean becomes an FD variable over {1,2}).
//   - Each linear relation becomes a LinearSum equality against a fresh
//     total variable whose initial domain encodes the relation.
//   - Conditional enforcement is lowered to big-M terms on the enforcement
//     literals, sized from the expression bounds so a false literal always
//     relaxes the relation.
//   - The objective becomes a LinearSum into an objective variable maximized
//     by branch-and-bound; a time budget maps to the solver's anytime mode.
type FDModel struct {
	vars       []varSpec
	cons       []*fdConstraint
	obj        LinearExpr
	buildErr   error
	infeasible bool
}

type varSpec struct {
	lo, hi int
	name   string
}

type fdConstraint struct {
	expr LinearExpr
	rel  Relation
	rhs  int
	lits []Var
}

// OnlyEnforceIf implements Constraint.
func (c *fdConstraint) OnlyEnforceIf(literals ...Var) Constraint {
	c.lits = append(c.lits, literals...)
	return c
}

// NewFDModel creates an empty model backed by the FD solver.
func NewFDModel() *FDModel {
	return &FDModel{}
}

// NewBoolVar implements Model.
func (m *FDModel) NewBoolVar(name string) Var {
	return m.NewIntVar(0, 1, name)
}

// NewIntVar implements Model.
func (m *FDModel) NewIntVar(lo, hi int, name string) Var {
	if hi < lo {
		m.fail(fmt.Errorf("variable %q: hi %d < lo %d", name, hi, lo))
		hi = lo
	}
	m.vars = append(m.vars, varSpec{lo: lo, hi: hi, name: name})
	return Var(len(m.vars) - 1)
}

// AddLinear implements Model.
func (m *FDModel) AddLinear(expr LinearExpr, rel Relation, rhs int) Constraint {
	c := &fdConstraint{expr: expr, rel: rel, rhs: rhs}
	for _, t := range expr.Terms {
		m.checkVar(t.Var)
	}
	m.cons = append(m.cons, c)
	return c
}

// AddMaxEquality implements Model. target == max(vars) over 0/1 variables is
// linearized as target <= sum(vars) plus v <= target for each v.
func (m *FDModel) AddMaxEquality(target Var, vars []Var) {
	for _, v := range vars {
		e := LinearExpr{}
		e.AddTerm(v, 1)
		e.AddTerm(target, -1)
		m.AddLinear(e, LEQ, 0)
	}
	e := Sum(vars...)
	e.AddTerm(target, -1)
	m.AddLinear(e, GEQ, 0)
}

// Maximize implements Model.
func (m *FDModel) Maximize(expr LinearExpr) {
	for _, t := range expr.Terms {
		m.checkVar(t.Var)
	}
	m.obj = expr
}

func (m *FDModel) fail(err error) {
	if m.buildErr == nil {
		m.buildErr = err
	}
}

func (m *FDModel) checkVar(v Var) {
	if int(v) < 0 || int(v) >= len(m.vars) {
		m.fail(fmt.Errorf("unknown variable handle %d", int(v)))
	}
}

// normalized is a constraint reduced to LEQ or GEQ form.
type normalized struct {
	terms []Term
	rel   Relation
	rhs   int
	lits  []Var
}

// mergeTerms collapses duplicate variables and drops zero coefficients.
func mergeTerms(terms []Term) []Term {
	coeffs := map[Var]int{}
	order := make([]Var, 0, len(terms))
	for _, t := range terms {
		if _, seen := coeffs[t.Var]; !seen {
			order = append(order, t.Var)
		}
		coeffs[t.Var] += t.Coeff
	}
	out := make([]Term, 0, len(order))
	for _, v := range order {
		if c := coeffs[v]; c != 0 {
			out = append(out, Term{Var: v, Coeff: c})
		}
	}
	return out
}

// normalize rewrites a constraint into one or two LEQ/GEQ forms with the
// expression constant and variable offsets folded into the right-hand side.
func (m *FDModel) normalize(c *fdConstraint) []normalized {
	terms := mergeTerms(c.expr.Terms)

	// Fold the constant and the FD offsets into the rhs: a variable with
	// bounds [lo,hi] is represented by an FD value in [1, hi-lo+1], shifted
	// by lo-1.
	rhs := c.rhs - c.expr.Const
	for _, t := range terms {
		rhs -= t.Coeff * (m.vars[t.Var].lo - 1)
	}

	switch c.rel {
	case LEQ:
		return []normalized{{terms: terms, rel: LEQ, rhs: rhs, lits: c.lits}}
	case GEQ:
		return []normalized{{terms: terms, rel: GEQ, rhs: rhs, lits: c.lits}}
	case LT:
		return []normalized{{terms: terms, rel: LEQ, rhs: rhs - 1, lits: c.lits}}
	case GT:
		return []normalized{{terms: terms, rel: GEQ, rhs: rhs + 1, lits: c.lits}}
	case EQ:
		return []normalized{
			{terms: terms, rel: LEQ, rhs: rhs, lits: c.lits},
			{terms: terms, rel: GEQ, rhs: rhs, lits: c.lits},
		}
	default:
		m.fail(fmt.Errorf("unknown relation %v", c.rel))
		return nil
	}
}

// fdBounds returns the min and max of a merged term list in FD value space.
func (m *FDModel) fdBounds(terms []Term) (int, int) {
	minSum, maxSum := 0, 0
	for _, t := range terms {
		width := m.vars[t.Var].hi - m.vars[t.Var].lo + 1
		if t.Coeff > 0 {
			minSum += t.Coeff
			maxSum += t.Coeff * width
		} else {
			minSum += t.Coeff * width
			maxSum += t.Coeff
		}
	}
	return minSum, maxSum
}

// build lowers the model and returns the kanren model, the per-variable FD
// handles, and the objective variable plus its value shift.
type lowered struct {
	km      *kanren.Model
	fdVars  []*kanren.FDVariable
	one     *kanren.FDVariable // constant 1, carries shift offsets into sums
	objVar  *kanren.FDVariable
	objBase int // true objective = fd(objVar) + objBase
}

func (m *FDModel) build() (*lowered, error) {
	km := kanren.NewModel()
	low := &lowered{km: km, fdVars: make([]*kanren.FDVariable, len(m.vars))}

	for i, vs := range m.vars {
		width := vs.hi - vs.lo + 1
		if width > maxExprRange {
			return nil, fmt.Errorf("variable %q range %d too large", vs.name, width)
		}
		low.fdVars[i] = km.NewVariableWithName(kanren.NewBitSetDomain(width), vs.name)
	}
	low.one = km.NewVariableWithName(kanren.NewBitSetDomain(1), "one")

	for _, c := range m.cons {
		for _, n := range m.normalize(c) {
			if err := m.post(low, n); err != nil {
				return nil, err
			}
			if m.infeasible {
				return low, nil
			}
		}
	}

	// Objective total. An empty objective still needs a variable for the
	// branch-and-bound entry point.
	objTerms := mergeTerms(m.obj.Terms)
	shift := m.obj.Const
	for _, t := range objTerms {
		shift += t.Coeff * (m.vars[t.Var].lo - 1)
	}
	if len(objTerms) == 0 {
		low.objVar = km.NewVariableWithName(kanren.NewBitSetDomain(1), "objective")
		low.objBase = shift - 1
		return low, nil
	}

	minSum, maxSum := m.fdBounds(objTerms)
	width := maxSum - minSum + 1
	if width > maxExprRange {
		return nil, fmt.Errorf("objective range %d too large", width)
	}
	low.objVar = km.NewVariableWithName(kanren.NewBitSetDomain(width), "objective")
	low.objBase = shift + minSum - 1

	// The objective variable lives in [1..width], so the sum is shifted by
	// 1-minSum through the constant-one variable.
	vars, coeffs := low.termVars(objTerms, 1-minSum)
	ls, err := kanren.NewLinearSum(vars, coeffs, low.objVar)
	if err != nil {
		return nil, fmt.Errorf("objective sum: %w", err)
	}
	km.AddConstraint(ls)
	return low, nil
}

// termVars maps terms to FD variables, appending the constant-one variable
// with the given shift coefficient when it is non-zero.
func (l *lowered) termVars(terms []Term, shift int) ([]*kanren.FDVariable, []int) {
	vars := make([]*kanren.FDVariable, 0, len(terms)+1)
	coeffs := make([]int, 0, len(terms)+1)
	for _, t := range terms {
		vars = append(vars, l.fdVars[t.Var])
		coeffs = append(coeffs, t.Coeff)
	}
	if shift != 0 {
		vars = append(vars, l.one)
		coeffs = append(coeffs, shift)
	}
	return vars, coeffs
}

// post lowers one normalized constraint onto the kanren model.
func (m *FDModel) post(low *lowered, n normalized) error {
	for _, lit := range n.lits {
		m.checkVar(lit)
		if vs := m.vars[lit]; vs.lo != 0 || vs.hi != 1 {
			return fmt.Errorf("enforcement literal %q is not a 0/1 variable", vs.name)
		}
	}

	minSum, maxSum := m.fdBounds(n.terms)

	// Statically decidable constraints never reach the solver.
	alwaysTrue := (n.rel == LEQ && maxSum <= n.rhs) || (n.rel == GEQ && minSum >= n.rhs)
	neverTrue := (n.rel == LEQ && minSum > n.rhs) || (n.rel == GEQ && maxSum < n.rhs)
	if alwaysTrue {
		return nil
	}
	if neverTrue {
		if len(n.lits) == 0 {
			m.infeasible = true
			return nil
		}
		// The relation can never hold, so forbid its enforcement: at least
		// one literal must be 0. In FD space literals are {1,2}.
		forbid := normalized{terms: make([]Term, 0, len(n.lits)), rel: LEQ, rhs: 2*len(n.lits) - 1}
		for _, lit := range n.lits {
			forbid.terms = append(forbid.terms, Term{Var: lit, Coeff: 1})
		}
		return m.post(low, forbid)
	}

	terms := n.terms
	rhs := n.rhs
	if len(n.lits) > 0 {
		// Big-M relaxation: with k false literals the bound widens by k*M,
		// which is enough to make the relation vacuous.
		count := len(n.lits)
		switch n.rel {
		case LEQ:
			bigM := maxSum - rhs
			for _, lit := range n.lits {
				terms = append(terms, Term{Var: lit, Coeff: bigM})
			}
			rhs += 2 * count * bigM
		case GEQ:
			bigM := rhs - minSum
			for _, lit := range n.lits {
				terms = append(terms, Term{Var: lit, Coeff: -bigM})
			}
			rhs -= 2 * count * bigM
		}
		terms = mergeTerms(terms)
		minSum, maxSum = m.fdBounds(terms)
	}

	width := maxSum - minSum + 1
	if width > maxExprRange {
		return fmt.Errorf("constraint range %d too large", width)
	}

	// The total variable's initial domain encodes the relation.
	lo, hi := minSum, maxSum
	switch n.rel {
	case LEQ:
		if rhs < hi {
			hi = rhs
		}
	case GEQ:
		if rhs > lo {
			lo = rhs
		}
	}
	if lo > hi {
		m.infeasible = true
		return nil
	}

	offset := 1 - minSum
	domain := kanren.Domain(kanren.NewBitSetDomain(width))
	if lo+offset > 1 {
		domain = domain.RemoveBelow(lo + offset)
	}
	if hi+offset < width {
		domain = domain.RemoveAbove(hi + offset)
	}
	if domain.Count() == 0 {
		m.infeasible = true
		return nil
	}
	total := low.km.NewVariable(domain)

	vars, coeffs := low.termVars(terms, offset)
	ls, err := kanren.NewLinearSum(vars, coeffs, total)
	if err != nil {
		return fmt.Errorf("linear sum: %w", err)
	}
	low.km.AddConstraint(ls)
	return nil
}

// Solve implements Model.
func (m *FDModel) Solve(ctx context.Context, budget time.Duration) (*Result, error) {
	if m.buildErr != nil {
		return nil, m.buildErr
	}
	if len(m.vars) == 0 {
		// Trivial model: nothing to assign.
		if m.infeasible {
			return &Result{}, nil
		}
		return &Result{Feasible: true, Objective: m.obj.Const, Optimal: true}, nil
	}

	low, err := m.build()
	if err != nil {
		return nil, err
	}
	if m.buildErr != nil {
		return nil, m.buildErr
	}
	if m.infeasible {
		return &Result{}, nil
	}

	var opts []kanren.OptimizeOption
	if budget > 0 {
		opts = append(opts, kanren.WithTimeLimit(budget))
	}

	fdSolver := kanren.NewSolver(low.km)
	sol, best, err := fdSolver.SolveOptimalWithOptions(ctx, low.objVar, false, opts...)
	switch {
	case sol == nil && err != nil:
		return nil, fmt.Errorf("fd solve: %w", err)
	case sol == nil:
		return &Result{}, nil
	}

	values := make([]int, len(m.vars))
	for i, vs := range m.vars {
		values[i] = sol[low.fdVars[i].ID()] + vs.lo - 1
	}
	return &Result{
		Feasible:  true,
		Objective: best + low.objBase,
		Optimal:   err == nil,
		values:    values,
	}, nil
}
