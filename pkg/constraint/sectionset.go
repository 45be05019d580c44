package constraint

import (
	"fmt"

	"github.com/dshills/slotter/pkg/item"
)

// SectionSet collects all constraints for one logical group of sections.
// Sections are ordered: an item's position in the order carries temporal
// meaning for ordering constraints. The builder is mutated only before
// Compile; afterwards it is read-only.
//
// A typical use in a course recommender: one section set assigns courses to
// graduation requirements, a second assigns the same courses to semesters.
type SectionSet struct {
	sections   []item.Object
	uriToIndex map[string]int

	targeted    map[int][]AttributeConstraint
	counts      map[int][]AttributeConstraint
	hierarchies []*Hierarchy

	filters      map[int]FilterFunc
	allowInvalid map[int]bool

	assignments []SectionAssignmentConstraint
	orderings   []ItemOrderingConstraint
	required    map[string]string // item URI -> section URI

	scaling  int
	warnings []string

	attributesOfInterest map[string]bool
	compiled             bool
}

// NewSectionSet creates an empty section set with scaling 1.
func NewSectionSet() *SectionSet {
	return &SectionSet{
		uriToIndex:           map[string]int{},
		targeted:             map[int][]AttributeConstraint{},
		counts:               map[int][]AttributeConstraint{},
		filters:              map[int]FilterFunc{},
		allowInvalid:         map[int]bool{},
		required:             map[string]string{},
		scaling:              1,
		attributesOfInterest: map[string]bool{},
	}
}

// SetScaling sets the positive integer factor used to lift float attribute
// values and constraint thresholds into solver integers.
func (s *SectionSet) SetScaling(scaling int) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if scaling <= 0 {
		return fmt.Errorf("scaling must be positive, got %d: %w", scaling, ErrInvalidConfiguration)
	}
	s.scaling = scaling
	return nil
}

// Scaling returns the current scaling factor.
func (s *SectionSet) Scaling() int {
	return s.scaling
}

// SetSections fixes the ordered sections items are assigned to. It must be
// called exactly once, before any mutator that references a section.
func (s *SectionSet) SetSections(sections ...item.Object) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if len(s.sections) > 0 {
		return fmt.Errorf("sections already set: %w", ErrInvalidConfiguration)
	}
	if len(sections) == 0 {
		return fmt.Errorf("at least one section required: %w", ErrInvalidConfiguration)
	}
	for index, section := range sections {
		if _, dup := s.uriToIndex[section.URI]; dup {
			return fmt.Errorf("duplicate section URI %q: %w", section.URI, ErrInvalidConfiguration)
		}
		s.uriToIndex[section.URI] = index
	}
	s.sections = sections
	return nil
}

// Sections returns the ordered sections. The returned slice must not be
// modified.
func (s *SectionSet) Sections() []item.Object {
	return s.sections
}

// SetSectionAssignmentFilter overrides the default always-true assignment
// filter for one section.
func (s *SectionSet) SetSectionAssignmentFilter(targetURI string, filter FilterFunc) error {
	index, err := s.sectionIndex(targetURI)
	if err != nil {
		return err
	}
	if filter == nil {
		return fmt.Errorf("nil filter for section %q: %w", targetURI, ErrInvalidConfiguration)
	}
	s.filters[index] = filter
	return nil
}

// AllowInvalidAssignmentToSection opts the section out of filter gating:
// items rejected by its filter may still be assigned there. The filter then
// only affects which items count toward the section's constraints.
func (s *SectionSet) AllowInvalidAssignmentToSection(targetURI string) error {
	index, err := s.sectionIndex(targetURI)
	if err != nil {
		return err
	}
	s.allowInvalid[index] = true
	return nil
}

// AddSectionConstraint bounds the scaled sum of an attribute over a
// section's assigned items. An empty targetURI applies the constraint to
// every currently-registered section.
func (s *SectionSet) AddSectionConstraint(attribute string, typ Type, value float64, targetURI string) error {
	if err := s.requireSections(); err != nil {
		return err
	}
	if attribute == "" {
		return fmt.Errorf("empty attribute name: %w", ErrInvalidConfiguration)
	}
	if _, ok := typ.relation(); !ok {
		return fmt.Errorf("constraint type %s not valid for attribute constraints: %w", typ, ErrInvalidConfiguration)
	}
	ac := AttributeConstraint{Attribute: attribute, Type: typ, Value: value}
	if targetURI == "" {
		for index := range s.sections {
			s.targeted[index] = append(s.targeted[index], ac)
		}
		return nil
	}
	index, err := s.sectionIndex(targetURI)
	if err != nil {
		return err
	}
	s.targeted[index] = append(s.targeted[index], ac)
	return nil
}

// AddSectionCountConstraint bounds the number of items assigned to a
// section. Exact wins over Min/Max; when combined, the min/max bounds are
// dropped and a warning is recorded. An empty targetURI applies the bounds
// to every currently-registered section.
func (s *SectionSet) AddSectionCountConstraint(bounds CountBounds, targetURI string) error {
	if err := s.requireSections(); err != nil {
		return err
	}

	var constraints []AttributeConstraint
	switch {
	case bounds.Exact != nil:
		if bounds.Min != nil || bounds.Max != nil {
			s.warnings = append(s.warnings,
				fmt.Sprintf("count constraint on %q: exact=%d overrides min/max", targetURI, *bounds.Exact))
		}
		constraints = append(constraints, AttributeConstraint{
			Attribute: ItemCountAttribute, Type: EQ, Value: float64(*bounds.Exact),
		})
	default:
		if bounds.Min != nil {
			constraints = append(constraints, AttributeConstraint{
				Attribute: ItemCountAttribute, Type: GEQ, Value: float64(*bounds.Min),
			})
		}
		if bounds.Max != nil {
			constraints = append(constraints, AttributeConstraint{
				Attribute: ItemCountAttribute, Type: LEQ, Value: float64(*bounds.Max),
			})
		}
	}
	if len(constraints) == 0 {
		return fmt.Errorf("count constraint needs min, max, or exact: %w", ErrInvalidConfiguration)
	}

	if targetURI == "" {
		for index := range s.sections {
			s.counts[index] = append(s.counts[index], constraints...)
		}
		return nil
	}
	index, err := s.sectionIndex(targetURI)
	if err != nil {
		return err
	}
	s.counts[index] = append(s.counts[index], constraints...)
	return nil
}

// AddHierarchicalSectionConstraint registers an AND/OR enforcement
// hierarchy. Multiple hierarchies may be added; each is enforced
// independently, and a section named by several hierarchies accumulates the
// union of their enforcement conditions.
func (s *SectionSet) AddHierarchicalSectionConstraint(h *Hierarchy) error {
	if err := s.requireSections(); err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("nil hierarchy: %w", ErrInvalidConfiguration)
	}
	var unknown error
	h.walk(func(node *Hierarchy) {
		if _, ok := s.uriToIndex[node.RootURI]; !ok && unknown == nil {
			unknown = fmt.Errorf("hierarchy references section %q: %w", node.RootURI, ErrUnknownReference)
		}
	})
	if unknown != nil {
		return unknown
	}
	s.hierarchies = append(s.hierarchies, h)
	return nil
}

// AddSectionAssignmentConstraint relates per-item assignment indicators
// between two sections, e.g. AtMostOne forbids assigning the same item to
// both sections.
func (s *SectionSet) AddSectionAssignmentConstraint(sectionAURI, sectionBURI string, typ Type) error {
	if _, err := s.sectionIndex(sectionAURI); err != nil {
		return err
	}
	if _, err := s.sectionIndex(sectionBURI); err != nil {
		return err
	}
	s.assignments = append(s.assignments, SectionAssignmentConstraint{
		Type: typ, SectionA: sectionAURI, SectionB: sectionBURI,
	})
	return nil
}

// AddItemOrderingConstraint constrains the relative section positions of two
// items. The independent item may always be selected; selecting the
// dependent item requires the ordering to hold. Item URIs are validated at
// compile time against the candidate list.
func (s *SectionSet) AddItemOrderingConstraint(independentURI, dependentURI string, typ Type) error {
	if err := s.requireSections(); err != nil {
		return err
	}
	if typ == AtMostOne {
		return fmt.Errorf("constraint type %s not valid for ordering constraints: %w", typ, ErrInvalidConfiguration)
	}
	s.orderings = append(s.orderings, ItemOrderingConstraint{
		Type: typ, Independent: independentURI, Dependent: dependentURI,
	})
	return nil
}

// AddRequiredItemAssignment pins the item to the given section. The compiler
// fixes the item's assignment indicator for that section to 1, which also
// forces the item's selection; if the section's filter rejects the item and
// the section does not allow invalid assignment, the model is infeasible. A
// later call for the same item replaces the earlier target.
func (s *SectionSet) AddRequiredItemAssignment(sectionURI, itemURI string) error {
	if _, err := s.sectionIndex(sectionURI); err != nil {
		return err
	}
	if itemURI == "" {
		return fmt.Errorf("empty item URI: %w", ErrInvalidConfiguration)
	}
	s.required[itemURI] = sectionURI
	return nil
}

// Warnings returns the non-fatal configuration warnings recorded so far.
func (s *SectionSet) Warnings() []string {
	return s.warnings
}

// AttributesOfInterest returns the attribute names referenced by compiled
// constraints. Populated during Compile.
func (s *SectionSet) AttributesOfInterest() []string {
	attrs := make([]string, 0, len(s.attributesOfInterest))
	for name := range s.attributesOfInterest {
		attrs = append(attrs, name)
	}
	return attrs
}

// FilterAccepts evaluates the section's assignment filter on an object.
func (s *SectionSet) FilterAccepts(sectionURI string, obj item.Object) (bool, error) {
	index, ok := s.uriToIndex[sectionURI]
	if !ok {
		return false, fmt.Errorf("section %q not registered: %w", sectionURI, ErrUnknownReference)
	}
	return s.filterFor(index)(obj), nil
}

// InvalidAllowed reports whether the section accepts filter-rejected items.
func (s *SectionSet) InvalidAllowed(sectionURI string) bool {
	index, ok := s.uriToIndex[sectionURI]
	return ok && s.allowInvalid[index]
}

// RequiredAssignments returns a copy of the item-to-section requirements.
func (s *SectionSet) RequiredAssignments() map[string]string {
	out := make(map[string]string, len(s.required))
	for itemURI, sectionURI := range s.required {
		out[itemURI] = sectionURI
	}
	return out
}

// OrderingConstraints returns the registered item-ordering constraints.
func (s *SectionSet) OrderingConstraints() []ItemOrderingConstraint {
	return s.orderings
}

// AssignmentConstraints returns the registered cross-section constraints.
func (s *SectionSet) AssignmentConstraints() []SectionAssignmentConstraint {
	return s.assignments
}

// CountConstraints returns the count constraints registered for a section.
func (s *SectionSet) CountConstraints(sectionURI string) []AttributeConstraint {
	index, ok := s.uriToIndex[sectionURI]
	if !ok {
		return nil
	}
	return s.counts[index]
}

// HierarchySections returns the URIs of sections referenced by any
// enforcement hierarchy. Constraints on these sections are conditional.
func (s *SectionSet) HierarchySections() map[string]bool {
	out := map[string]bool{}
	for _, h := range s.hierarchies {
		h.walk(func(node *Hierarchy) { out[node.RootURI] = true })
	}
	return out
}

// filterFor returns the assignment filter for a section, defaulting to
// always-true.
func (s *SectionSet) filterFor(index int) FilterFunc {
	if f, ok := s.filters[index]; ok {
		return f
	}
	return func(item.Object) bool { return true }
}

func (s *SectionSet) sectionIndex(uri string) (int, error) {
	if err := s.requireSections(); err != nil {
		return 0, err
	}
	index, ok := s.uriToIndex[uri]
	if !ok {
		return 0, fmt.Errorf("section %q not registered: %w", uri, ErrUnknownReference)
	}
	return index, nil
}

func (s *SectionSet) requireSections() error {
	if err := s.mutable(); err != nil {
		return err
	}
	if len(s.sections) == 0 {
		return fmt.Errorf("SetSections must be called first: %w", ErrInvalidConfiguration)
	}
	return nil
}

func (s *SectionSet) mutable() error {
	if s.compiled {
		return fmt.Errorf("section set already compiled: %w", ErrInvalidConfiguration)
	}
	return nil
}
