package recommend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/slotter/pkg/constraint"
	"github.com/dshills/slotter/pkg/item"
)

// Scenario is a YAML-loadable description of a complete solve: solver
// options, the sections, the candidate items with pre-assigned scores, and
// the constraints to apply. It is the file format consumed by the CLI.
type Scenario struct {
	// Options configures the assembler.
	Options Options `yaml:",inline"`

	// Sections lists the ordered sections.
	Sections []ScenarioObject `yaml:"sections"`

	// Items lists the candidate items.
	Items []ScenarioItem `yaml:"items"`

	// Constraints collects all constraint declarations.
	Constraints ScenarioConstraints `yaml:"constraints"`
}

// ScenarioObject is a domain object in scenario form.
type ScenarioObject struct {
	URI   string         `yaml:"uri"`
	Attrs map[string]any `yaml:"attrs"`
}

// ScenarioItem is a candidate item with its configured score.
type ScenarioItem struct {
	URI   string         `yaml:"uri"`
	Score float64        `yaml:"score"`
	Attrs map[string]any `yaml:"attrs"`
}

// ScenarioConstraints mirrors the SectionSet mutators in data form.
type ScenarioConstraints struct {
	Counts      []ScenarioCount      `yaml:"counts"`
	Attributes  []ScenarioAttribute  `yaml:"attributes"`
	Assignments []ScenarioAssignment `yaml:"assignments"`
	Orderings   []ScenarioOrdering   `yaml:"orderings"`
	Required    []ScenarioRequired   `yaml:"required"`
	Filters     []ScenarioFilter     `yaml:"filters"`
}

// ScenarioCount bounds a section's item count. An empty section applies the
// bounds to every section.
type ScenarioCount struct {
	Section string `yaml:"section"`
	Min     *int   `yaml:"min"`
	Max     *int   `yaml:"max"`
	Exact   *int   `yaml:"exact"`
}

// ScenarioAttribute bounds a section's attribute sum.
type ScenarioAttribute struct {
	Section   string  `yaml:"section"`
	Attribute string  `yaml:"attribute"`
	Type      string  `yaml:"type"`
	Value     float64 `yaml:"value"`
}

// ScenarioAssignment relates item assignments between two sections.
type ScenarioAssignment struct {
	SectionA string `yaml:"sectionA"`
	SectionB string `yaml:"sectionB"`
	Type     string `yaml:"type"`
}

// ScenarioOrdering constrains the relative positions of two items.
type ScenarioOrdering struct {
	Independent string `yaml:"independent"`
	Dependent   string `yaml:"dependent"`
	Type        string `yaml:"type"`
}

// ScenarioRequired pins an item to a section; the item is always selected.
type ScenarioRequired struct {
	Section string `yaml:"section"`
	Item    string `yaml:"item"`
}

// ScenarioFilter restricts which items a section accepts, by numeric range
// or exact value on one attribute. AllowInvalid opts the section out of
// filter gating while keeping the filter for count/attribute sums.
type ScenarioFilter struct {
	Section      string   `yaml:"section"`
	Attribute    string   `yaml:"attribute"`
	Equals       *string  `yaml:"equals"`
	Min          *float64 `yaml:"min"`
	Max          *float64 `yaml:"max"`
	AllowInvalid bool     `yaml:"allowInvalid"`
}

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return LoadScenarioFromBytes(data)
}

// LoadScenarioFromBytes parses a YAML scenario from a byte slice.
func LoadScenarioFromBytes(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if sc.Options.Scaling == 0 {
		sc.Options.Scaling = 1
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &sc, nil
}

// Validate checks the scenario's basic structure. Constraint references are
// validated when the section set is built.
func (sc *Scenario) Validate() error {
	if err := sc.Options.Validate(); err != nil {
		return err
	}
	if len(sc.Sections) == 0 {
		return fmt.Errorf("at least one section required: %w", constraint.ErrInvalidConfiguration)
	}
	if len(sc.Items) == 0 {
		return fmt.Errorf("at least one item required: %w", constraint.ErrInvalidConfiguration)
	}
	for i, section := range sc.Sections {
		if section.URI == "" {
			return fmt.Errorf("section[%d]: empty URI: %w", i, constraint.ErrInvalidConfiguration)
		}
	}
	for i, it := range sc.Items {
		if it.URI == "" {
			return fmt.Errorf("item[%d]: empty URI: %w", i, constraint.ErrInvalidConfiguration)
		}
	}
	return nil
}

// Candidates converts the scenario items into scored candidates, preserving
// file order.
func (sc *Scenario) Candidates() []*item.Candidate {
	out := make([]*item.Candidate, 0, len(sc.Items))
	for _, it := range sc.Items {
		cand := item.NewCandidate(item.NewObject(it.URI, it.Attrs), "configured in scenario", 0.0)
		cand.Apply("configured score", it.Score)
		out = append(out, cand)
	}
	return out
}

// SectionSet builds the constraint builder described by the scenario.
func (sc *Scenario) SectionSet() (*constraint.SectionSet, error) {
	set := constraint.NewSectionSet()
	if err := set.SetScaling(sc.Options.Scaling); err != nil {
		return nil, err
	}

	sections := make([]item.Object, 0, len(sc.Sections))
	for _, section := range sc.Sections {
		sections = append(sections, item.NewObject(section.URI, section.Attrs))
	}
	if err := set.SetSections(sections...); err != nil {
		return nil, err
	}

	for _, f := range sc.Constraints.Filters {
		if err := set.SetSectionAssignmentFilter(f.Section, f.filterFunc()); err != nil {
			return nil, err
		}
		if f.AllowInvalid {
			if err := set.AllowInvalidAssignmentToSection(f.Section); err != nil {
				return nil, err
			}
		}
	}

	for _, cc := range sc.Constraints.Counts {
		bounds := constraint.CountBounds{Min: cc.Min, Max: cc.Max, Exact: cc.Exact}
		if err := set.AddSectionCountConstraint(bounds, cc.Section); err != nil {
			return nil, err
		}
	}

	for _, ac := range sc.Constraints.Attributes {
		typ, err := constraint.ParseType(ac.Type)
		if err != nil {
			return nil, err
		}
		if err := set.AddSectionConstraint(ac.Attribute, typ, ac.Value, ac.Section); err != nil {
			return nil, err
		}
	}

	for _, sa := range sc.Constraints.Assignments {
		typ, err := constraint.ParseType(sa.Type)
		if err != nil {
			return nil, err
		}
		if err := set.AddSectionAssignmentConstraint(sa.SectionA, sa.SectionB, typ); err != nil {
			return nil, err
		}
	}

	for _, oc := range sc.Constraints.Orderings {
		typ, err := constraint.ParseType(oc.Type)
		if err != nil {
			return nil, err
		}
		if err := set.AddItemOrderingConstraint(oc.Independent, oc.Dependent, typ); err != nil {
			return nil, err
		}
	}

	for _, rq := range sc.Constraints.Required {
		if err := set.AddRequiredItemAssignment(rq.Section, rq.Item); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// filterFunc compiles a scenario filter into a predicate.
func (f ScenarioFilter) filterFunc() constraint.FilterFunc {
	return func(obj item.Object) bool {
		if f.Equals != nil {
			val, err := obj.Resolve(f.Attribute)
			if err != nil {
				return false
			}
			return fmt.Sprintf("%v", val) == *f.Equals
		}
		num, err := obj.Number(f.Attribute)
		if err != nil {
			return false
		}
		if f.Min != nil && num < *f.Min {
			return false
		}
		if f.Max != nil && num > *f.Max {
			return false
		}
		return true
	}
}
