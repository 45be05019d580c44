package solver

import (
	"context"
	"testing"
	"time"
)

func solve(t *testing.T, m Model) *Result {
	t.Helper()
	res, err := m.Solve(context.Background(), 0)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	return res
}

func TestMaximizeSimple(t *testing.T) {
	m := NewFDModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")

	e := Sum(a, b)
	m.AddLinear(e, LEQ, 1)

	obj := LinearExpr{}
	obj.AddTerm(a, 3)
	obj.AddTerm(b, 2)
	m.Maximize(obj)

	res := solve(t, m)
	if !res.Feasible {
		t.Fatal("model should be feasible")
	}
	if res.Objective != 3 {
		t.Errorf("objective = %d, want 3", res.Objective)
	}
	if res.Value(a) != 1 || res.Value(b) != 0 {
		t.Errorf("assignment a=%d b=%d, want a=1 b=0", res.Value(a), res.Value(b))
	}
}

func TestObjectiveConstant(t *testing.T) {
	m := NewFDModel()
	a := m.NewBoolVar("a")

	obj := LinearExpr{Const: 10}
	obj.AddTerm(a, 5)
	m.Maximize(obj)

	res := solve(t, m)
	if res.Objective != 15 {
		t.Errorf("objective = %d, want 15", res.Objective)
	}
}

func TestIntVarBounds(t *testing.T) {
	m := NewFDModel()
	x := m.NewIntVar(2, 7, "x")
	y := m.NewBoolVar("y")

	e := LinearExpr{}
	e.AddTerm(x, 1)
	e.AddTerm(y, 3)
	m.AddLinear(e, LEQ, 6)

	obj := LinearExpr{}
	obj.AddTerm(x, 1)
	obj.AddTerm(y, 4)
	m.Maximize(obj)

	res := solve(t, m)
	if !res.Feasible {
		t.Fatal("model should be feasible")
	}
	if res.Objective != 7 {
		t.Errorf("objective = %d, want 7", res.Objective)
	}
	if res.Value(x) != 3 || res.Value(y) != 1 {
		t.Errorf("assignment x=%d y=%d, want x=3 y=1", res.Value(x), res.Value(y))
	}
}

func TestEqualityInfeasible(t *testing.T) {
	m := NewFDModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	m.AddLinear(Sum(a, b), EQ, 3)
	m.Maximize(Sum(a, b))

	res := solve(t, m)
	if res.Feasible {
		t.Fatal("two booleans cannot sum to 3")
	}
}

func TestContradictionInfeasible(t *testing.T) {
	m := NewFDModel()
	a := m.NewBoolVar("a")
	m.AddLinear(Sum(a), GEQ, 1)
	m.AddLinear(Sum(a), EQ, 0)
	m.Maximize(Sum(a))

	res := solve(t, m)
	if res.Feasible {
		t.Fatal("contradictory bounds on one boolean should be infeasible")
	}
}

func TestStrictRelations(t *testing.T) {
	m := NewFDModel()
	x := m.NewIntVar(0, 5, "x")
	m.AddLinear(Sum(x), LT, 3)
	m.Maximize(Sum(x))

	res := solve(t, m)
	if res.Objective != 2 || res.Value(x) != 2 {
		t.Errorf("x = %d (objective %d), want 2 under x < 3", res.Value(x), res.Objective)
	}
}

func TestEnforcementLiteral(t *testing.T) {
	m := NewFDModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	e := m.NewBoolVar("e")

	// When e is chosen, both a and b must be set, which costs more than e
	// earns unless the coefficients reward it.
	m.AddLinear(Sum(a, b), GEQ, 2).OnlyEnforceIf(e)

	obj := LinearExpr{}
	obj.AddTerm(e, 3)
	obj.AddTerm(a, -1)
	obj.AddTerm(b, -1)
	m.Maximize(obj)

	res := solve(t, m)
	if !res.Feasible {
		t.Fatal("model should be feasible")
	}
	if res.Objective != 1 {
		t.Errorf("objective = %d, want 1 (e=1 forces a=b=1)", res.Objective)
	}
	if res.Value(e) != 1 || res.Value(a) != 1 || res.Value(b) != 1 {
		t.Errorf("assignment e=%d a=%d b=%d, want all 1", res.Value(e), res.Value(a), res.Value(b))
	}
}

func TestEnforcementRelaxedWhenLiteralFalse(t *testing.T) {
	m := NewFDModel()
	a := m.NewBoolVar("a")
	e := m.NewBoolVar("e")

	// Enforced constraint is unsatisfiable, so e must stay 0.
	m.AddLinear(Sum(a), GEQ, 2).OnlyEnforceIf(e)

	obj := LinearExpr{}
	obj.AddTerm(e, 5)
	obj.AddTerm(a, 1)
	m.Maximize(obj)

	res := solve(t, m)
	if !res.Feasible {
		t.Fatal("model should be feasible with e = 0")
	}
	if res.Value(e) != 0 {
		t.Errorf("e = %d, want 0: its constraint can never hold", res.Value(e))
	}
	if res.Value(a) != 1 {
		t.Errorf("a = %d, want 1: a is free and rewarded", res.Value(a))
	}
}

func TestFixedLiteralEnforces(t *testing.T) {
	m := NewFDModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	e := m.NewBoolVar("e")

	m.AddLinear(Sum(e), EQ, 1)
	m.AddLinear(Sum(a, b), LEQ, 1).OnlyEnforceIf(e)

	m.Maximize(Sum(a, b))

	res := solve(t, m)
	if !res.Feasible {
		t.Fatal("model should be feasible")
	}
	if res.Objective != 1 {
		t.Errorf("objective = %d, want 1 (at-most-one enforced)", res.Objective)
	}
}

func TestAddMaxEquality(t *testing.T) {
	m := NewFDModel()
	sel := m.NewBoolVar("sel")
	a1 := m.NewBoolVar("a1")
	a2 := m.NewBoolVar("a2")
	m.AddMaxEquality(sel, []Var{a1, a2})
	m.AddLinear(Sum(a1), EQ, 1)

	// Reward keeping sel low to prove the max forces it up.
	obj := LinearExpr{Const: 5}
	obj.AddTerm(sel, -1)
	m.Maximize(obj)

	res := solve(t, m)
	if !res.Feasible {
		t.Fatal("model should be feasible")
	}
	if res.Value(sel) != 1 {
		t.Errorf("sel = %d, want 1 when an assignment is fixed", res.Value(sel))
	}
}

func TestAddMaxEqualityForcesZero(t *testing.T) {
	m := NewFDModel()
	sel := m.NewBoolVar("sel")
	a1 := m.NewBoolVar("a1")
	m.AddMaxEquality(sel, []Var{a1})
	m.AddLinear(Sum(a1), EQ, 0)

	m.Maximize(Sum(sel))

	res := solve(t, m)
	if res.Value(sel) != 0 {
		t.Errorf("sel = %d, want 0 when no assignment exists", res.Value(sel))
	}
}

func TestNegativeBounds(t *testing.T) {
	m := NewFDModel()
	x := m.NewIntVar(-5, 5, "x")
	m.AddLinear(Sum(x), LEQ, -2)
	m.Maximize(Sum(x))

	res := solve(t, m)
	if !res.Feasible {
		t.Fatal("model should be feasible")
	}
	if res.Value(x) != -2 || res.Objective != -2 {
		t.Errorf("x = %d (objective %d), want -2", res.Value(x), res.Objective)
	}
}

func TestEmptyModel(t *testing.T) {
	m := NewFDModel()
	res, err := m.Solve(context.Background(), 0)
	if err != nil {
		t.Fatalf("empty model solve failed: %v", err)
	}
	if !res.Feasible || res.Objective != 0 {
		t.Errorf("empty model: feasible=%v objective=%d, want feasible with 0", res.Feasible, res.Objective)
	}
}

func TestTimeBudgetStillSolvesSmallModel(t *testing.T) {
	m := NewFDModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	m.AddLinear(Sum(a, b), LEQ, 1)
	m.Maximize(Sum(a, b))

	res, err := m.Solve(context.Background(), 5*time.Second)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !res.Feasible || res.Objective != 1 {
		t.Errorf("feasible=%v objective=%d, want feasible with 1", res.Feasible, res.Objective)
	}
}
