package constraint

import (
	"fmt"
	"math"

	"github.com/dshills/slotter/pkg/item"
	"github.com/dshills/slotter/pkg/solver"
)

// Compiled is the result of lowering a SectionSet onto a solver model. It
// retains the variable handles needed to read a solution back out. A
// Compiled instance is owned by one compile/solve/extract chain and is
// discarded afterwards.
type Compiled struct {
	set   *SectionSet
	items []*item.Candidate

	// assignments[i][s] is the 0/1 indicator that item i is assigned to
	// section s.
	assignments [][]solver.Var

	// filterValues[i][s] caches the section filter evaluated on item i.
	filterValues [][]bool
}

// Compile lowers the section set's constraints onto the model. The caller
// provides the candidate items and one 0/1 selection indicator per item;
// the compiler creates the per-section assignment indicators and every
// constraint described by the builder. After Compile the builder is
// read-only.
func (s *SectionSet) Compile(m solver.Model, items []*item.Candidate, selection []solver.Var) (*Compiled, error) {
	if len(s.sections) == 0 {
		return nil, fmt.Errorf("SetSections must be called before compile: %w", ErrInvalidConfiguration)
	}
	if len(items) != len(selection) {
		return nil, fmt.Errorf("item count %d != selection count %d: %w",
			len(items), len(selection), ErrInvalidConfiguration)
	}
	s.compiled = true

	itemIndex := make(map[string]int, len(items))
	for i, c := range items {
		itemIndex[c.Object.URI] = i
	}
	if err := s.validateItemReferences(itemIndex); err != nil {
		return nil, err
	}

	sectionCount := len(s.sections)
	c := &Compiled{
		set:          s,
		items:        items,
		assignments:  make([][]solver.Var, len(items)),
		filterValues: make([][]bool, len(items)),
	}

	// Assignment indicators, filter gating, required assignments, coverage.
	for i, cand := range items {
		c.assignments[i] = make([]solver.Var, sectionCount)
		c.filterValues[i] = make([]bool, sectionCount)
		requiredSection, hasRequired := s.required[cand.Object.URI]

		for sec := 0; sec < sectionCount; sec++ {
			a := m.NewBoolVar(fmt.Sprintf("assign[%s,%s]", cand.Object.URI, s.sections[sec].URI))
			c.assignments[i][sec] = a
			c.filterValues[i][sec] = s.filterFor(sec)(cand.Object)

			// Assignment implies selection.
			e := solver.LinearExpr{}
			e.AddTerm(a, 1)
			e.AddTerm(selection[i], -1)
			m.AddLinear(e, solver.LEQ, 0)

			// Filter gating: without an invalid-assignment opt-out, a
			// rejected item can never sit in this section.
			if !s.allowInvalid[sec] && !c.filterValues[i][sec] {
				m.AddLinear(solver.Sum(a), solver.EQ, 0)
			}

			if hasRequired && s.sections[sec].URI == requiredSection {
				m.AddLinear(solver.Sum(a), solver.EQ, 1)
			}
		}

		// A selected item is assigned to at least one section.
		m.AddMaxEquality(selection[i], c.assignments[i])
	}

	enforcement, err := s.compileHierarchies(m)
	if err != nil {
		return nil, err
	}

	if err := s.compileSectionConstraints(m, c, enforcement); err != nil {
		return nil, err
	}
	if err := s.compileAssignmentConstraints(m, c); err != nil {
		return nil, err
	}
	if err := s.compileOrderingConstraints(m, c, itemIndex, selection); err != nil {
		return nil, err
	}
	return c, nil
}

// validateItemReferences checks that every item URI referenced by ordering
// or required-assignment constraints is among the candidates.
func (s *SectionSet) validateItemReferences(itemIndex map[string]int) error {
	for _, oc := range s.orderings {
		if _, ok := itemIndex[oc.Independent]; !ok {
			return fmt.Errorf("ordering constraint references item %q: %w", oc.Independent, ErrUnknownReference)
		}
		if _, ok := itemIndex[oc.Dependent]; !ok {
			return fmt.Errorf("ordering constraint references item %q: %w", oc.Dependent, ErrUnknownReference)
		}
	}
	for itemURI := range s.required {
		if _, ok := itemIndex[itemURI]; !ok {
			return fmt.Errorf("required assignment references item %q: %w", itemURI, ErrUnknownReference)
		}
	}
	return nil
}

// compileHierarchies creates the enforcement booleans for every hierarchy
// and returns the per-section enforcement sets. A section absent from every
// hierarchy gets an empty set, meaning its constraints hold unconditionally.
func (s *SectionSet) compileHierarchies(m solver.Model) ([][]solver.Var, error) {
	enforcement := make([][]solver.Var, len(s.sections))
	for _, h := range s.hierarchies {
		top := m.NewBoolVar(fmt.Sprintf("enforce[%s]", h.RootURI))
		m.AddLinear(solver.Sum(top), solver.EQ, 1)
		if err := s.addEnforcementBooleans(m, enforcement, []solver.Var{top}, h); err != nil {
			return nil, err
		}
	}
	return enforcement, nil
}

// addEnforcementBooleans recursively descends a hierarchy, threading the
// chain of parent booleans. AND children must all be enforced while the
// parent chain holds; OR children require at least one.
func (s *SectionSet) addEnforcementBooleans(m solver.Model, enforcement [][]solver.Var, parents []solver.Var, h *Hierarchy) error {
	index, ok := s.uriToIndex[h.RootURI]
	if !ok {
		return fmt.Errorf("hierarchy references section %q: %w", h.RootURI, ErrUnknownReference)
	}
	enforcement[index] = append(enforcement[index], parents...)

	var andBools []solver.Var
	for _, child := range h.DependencyAnd {
		b := m.NewBoolVar(fmt.Sprintf("and[%s]", child.RootURI))
		andBools = append(andBools, b)
		if err := s.addEnforcementBooleans(m, enforcement, append(chain(parents), b), child); err != nil {
			return err
		}
	}
	if len(andBools) > 0 {
		m.AddLinear(solver.Sum(andBools...), solver.GEQ, len(andBools)).OnlyEnforceIf(parents...)
	}

	var orBools []solver.Var
	for _, child := range h.DependencyOr {
		b := m.NewBoolVar(fmt.Sprintf("or[%s]", child.RootURI))
		orBools = append(orBools, b)
		if err := s.addEnforcementBooleans(m, enforcement, append(chain(parents), b), child); err != nil {
			return err
		}
	}
	if len(orBools) > 0 {
		m.AddLinear(solver.Sum(orBools...), solver.GEQ, 1).OnlyEnforceIf(parents...)
	}
	return nil
}

// chain copies a parent-boolean slice so sibling recursion cannot alias.
func chain(parents []solver.Var) []solver.Var {
	out := make([]solver.Var, len(parents))
	copy(out, parents)
	return out
}

// compileSectionConstraints posts the per-section count and attribute
// constraints under each section's enforcement set.
func (s *SectionSet) compileSectionConstraints(m solver.Model, c *Compiled, enforcement [][]solver.Var) error {
	for sec := range s.sections {
		for _, ac := range s.counts[sec] {
			// Count only items the section's filter accepts.
			e := solver.LinearExpr{}
			for i := range c.items {
				if c.filterValues[i][sec] {
					e.AddTerm(c.assignments[i][sec], 1)
				}
			}
			rel, _ := ac.Type.relation()
			m.AddLinear(e, rel, int(math.Round(ac.Value))).OnlyEnforceIf(enforcement[sec]...)
		}

		for _, ac := range s.targeted[sec] {
			s.attributesOfInterest[ac.Attribute] = true
			e := solver.LinearExpr{}
			for i, cand := range c.items {
				if !c.filterValues[i][sec] {
					continue
				}
				value, err := cand.Object.Number(ac.Attribute)
				if err != nil {
					return fmt.Errorf("section %q constraint %s: %w", s.sections[sec].URI, ac, err)
				}
				e.AddTerm(c.assignments[i][sec], int(math.Round(value*float64(s.scaling))))
			}
			rel, _ := ac.Type.relation()
			rhs := int(math.Round(ac.Value * float64(s.scaling)))
			m.AddLinear(e, rel, rhs).OnlyEnforceIf(enforcement[sec]...)
		}
	}
	return nil
}

// compileAssignmentConstraints posts the cross-section per-item constraints.
func (s *SectionSet) compileAssignmentConstraints(m solver.Model, c *Compiled) error {
	for _, sac := range s.assignments {
		idxA := s.uriToIndex[sac.SectionA]
		idxB := s.uriToIndex[sac.SectionB]
		for i := range c.items {
			a := c.assignments[i][idxA]
			b := c.assignments[i][idxB]

			if sac.Type == AtMostOne {
				// Items rejected by both filters are skipped. Filter gating
				// keeps such an item out of every section that does not
				// allow invalid assignment; if both sections allow it, the
				// item is left unconstrained by this pair.
				if !c.filterValues[i][idxA] && !c.filterValues[i][idxB] {
					continue
				}
				e := solver.LinearExpr{}
				e.AddTerm(a, 1)
				e.AddTerm(b, 1)
				m.AddLinear(e, solver.LEQ, 1)
				continue
			}

			rel, ok := sac.Type.relation()
			if !ok {
				return fmt.Errorf("assignment constraint type %s: %w", sac.Type, ErrInvalidConfiguration)
			}
			e := solver.LinearExpr{}
			e.AddTerm(a, 1)
			e.AddTerm(b, -1)
			m.AddLinear(e, rel, 0)
		}
	}
	return nil
}

// compileOrderingConstraints posts the temporal ordering constraints.
// Section positions are 1-based; the (S+2) padding on the opposite item's
// selection indicator lets the independent item be selected freely while the
// dependent item's selection must respect the ordering.
func (s *SectionSet) compileOrderingConstraints(m solver.Model, c *Compiled, itemIndex map[string]int, selection []solver.Var) error {
	sectionCount := len(s.sections)
	pad := sectionCount + 2

	position := func(i int) solver.LinearExpr {
		e := solver.LinearExpr{}
		for sec := 0; sec < sectionCount; sec++ {
			e.AddTerm(c.assignments[i][sec], sec+1)
		}
		return e
	}

	for _, oc := range s.orderings {
		ia := itemIndex[oc.Independent]
		ib := itemIndex[oc.Dependent]

		// content: pos(a) + sel(b)*pad  REL  pos(b) + sel(a)*pad,
		// expressed as a single left-hand expression against zero.
		content := position(ia)
		content.AddTerm(selection[ib], pad)
		right := position(ib)
		right.AddTerm(selection[ia], pad)
		for _, t := range right.Terms {
			content.AddTerm(t.Var, -t.Coeff)
		}

		rel, ok := oc.Type.relation()
		if !ok {
			return fmt.Errorf("ordering constraint type %s: %w", oc.Type, ErrInvalidConfiguration)
		}

		if !oc.Type.strict() {
			m.AddLinear(content, rel, 0)
			continue
		}

		// Strict ordering posts the content conditionally: the side boolean
		// is tied to the dependent item's selection, so selecting the
		// dependent item forces the ordering (for Less, also the independent
		// item's selection), while leaving it unselected relaxes the relation.
		cond := m.NewBoolVar(fmt.Sprintf("order[%s<%s]", oc.Independent, oc.Dependent))
		m.AddLinear(content, rel, 0).OnlyEnforceIf(cond)
		tie := solver.LinearExpr{}
		tie.AddTerm(selection[ib], 1)
		tie.AddTerm(cond, -1)
		m.AddLinear(tie, solver.EQ, 0)
	}
	return nil
}
