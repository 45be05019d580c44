package constraint

import (
	"fmt"

	"github.com/dshills/slotter/pkg/item"
	"github.com/dshills/slotter/pkg/solver"
)

// Type is the kind of relation a constraint imposes.
type Type int

const (
	// EQ constrains two values to be equal.
	EQ Type = iota
	// LEQ constrains the left value to be at most the right.
	LEQ
	// GEQ constrains the left value to be at least the right.
	GEQ
	// Less constrains the left value to be strictly below the right.
	Less
	// Greater constrains the left value to be strictly above the right.
	Greater
	// AtMostOne constrains a pair of 0/1 indicators to sum to at most one.
	// Only meaningful for section-assignment constraints.
	AtMostOne
)

// String returns the constraint type name.
func (t Type) String() string {
	switch t {
	case EQ:
		return "EQ"
	case LEQ:
		return "LEQ"
	case GEQ:
		return "GEQ"
	case Less:
		return "LESS"
	case Greater:
		return "GRTR"
	case AtMostOne:
		return "AM1"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// ParseType parses a constraint type name as produced by String.
func ParseType(name string) (Type, error) {
	switch name {
	case "EQ", "eq", "==":
		return EQ, nil
	case "LEQ", "leq", "<=":
		return LEQ, nil
	case "GEQ", "geq", ">=":
		return GEQ, nil
	case "LESS", "less", "<":
		return Less, nil
	case "GRTR", "grtr", ">":
		return Greater, nil
	case "AM1", "am1":
		return AtMostOne, nil
	default:
		return 0, fmt.Errorf("unknown constraint type %q: %w", name, ErrInvalidConfiguration)
	}
}

// relation maps a constraint type to the solver relation. AtMostOne has no
// direct relation and is handled by the compiler.
func (t Type) relation() (solver.Relation, bool) {
	switch t {
	case EQ:
		return solver.EQ, true
	case LEQ:
		return solver.LEQ, true
	case GEQ:
		return solver.GEQ, true
	case Less:
		return solver.LT, true
	case Greater:
		return solver.GT, true
	default:
		return 0, false
	}
}

// strict reports whether the type is a strict inequality.
func (t Type) strict() bool {
	return t == Less || t == Greater
}

// ItemCountAttribute is the synthetic attribute name meaning "number of
// items assigned to this section".
const ItemCountAttribute = "__item_count"

// AttributeConstraint bounds the sum of one attribute over the items
// assigned to a section. The attribute name may be dotted and is resolved
// through the domain object's nested attribute map. Value is expressed in
// the user's units; the compiler lifts it to integers with the section set's
// scaling factor. Count constraints on ItemCountAttribute are never scaled.
type AttributeConstraint struct {
	Attribute string
	Type      Type
	Value     float64
}

// String returns a compact rendering for logs and errors.
func (c AttributeConstraint) String() string {
	return fmt.Sprintf("%s %s %g", c.Attribute, c.Type, c.Value)
}

// SectionAssignmentConstraint relates each item's assignment indicator for
// one section to the same item's indicator for another section.
type SectionAssignmentConstraint struct {
	Type     Type
	SectionA string
	SectionB string
}

// ItemOrderingConstraint relates the section positions of two items, with
// section order treated as a temporal sequence. The independent item may be
// selected freely; the dependent item's selection must respect the ordering.
type ItemOrderingConstraint struct {
	Type        Type
	Independent string
	Dependent   string
}

// Hierarchy is a rose-tree node describing conditional enforcement among
// sections. The constraints of the section named by RootURI (and of every
// section reachable below it) apply only while the node's enforcement
// boolean is true. All DependencyAnd children must be enforced together;
// DependencyOr requires at least one child to be enforced. The root of a
// hierarchy passed to the builder is always enforced.
type Hierarchy struct {
	RootURI       string
	DependencyAnd []*Hierarchy
	DependencyOr  []*Hierarchy
}

// walk applies fn to the node and every descendant.
func (h *Hierarchy) walk(fn func(*Hierarchy)) {
	if h == nil {
		return
	}
	fn(h)
	for _, child := range h.DependencyAnd {
		child.walk(fn)
	}
	for _, child := range h.DependencyOr {
		child.walk(fn)
	}
}

// CountBounds specifies bounds on the number of items assigned to a section.
// Exact wins over Min/Max when set; the builder records a warning rather
// than an error when they are combined.
type CountBounds struct {
	Min   *int
	Max   *int
	Exact *int
}

// Count is a convenience for building CountBounds literals.
func Count(n int) *int {
	return &n
}

// FilterFunc decides whether a domain object may be assigned to a section.
// Filters must be pure: the compiler evaluates them once per item/section
// pair and bakes the results into the model as constants.
type FilterFunc func(obj item.Object) bool
