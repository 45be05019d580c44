package constraint

import (
	"fmt"
	"math"

	"github.com/dshills/slotter/pkg/item"
	"github.com/dshills/slotter/pkg/solver"
)

// SolutionSection is one section of a solved section set: the section
// object, the candidates assigned to it, and the scaled score and attribute
// totals of those candidates. Scores and attribute values are expressed in
// solver integers, i.e. user values multiplied by the section set's scaling
// factor and rounded.
type SolutionSection struct {
	Section         item.Object       `json:"section"`
	Score           int               `json:"score"`
	AttributeValues map[string]int    `json:"attributeValues"`
	Candidates      []*item.Candidate `json:"candidates"`
}

// SolutionSectionSet is the solved form of one SectionSet, aligned with its
// section order.
type SolutionSectionSet struct {
	Sections []SolutionSection `json:"sections"`
}

// Solution is the complete output of one solve: per-set section
// assignments, the aggregate score and attribute totals, and the
// deduplicated selected candidates.
type Solution struct {
	OverallScore           int                  `json:"overallScore"`
	OverallAttributeValues map[string]int       `json:"overallAttributeValues"`
	SectionSets            []SolutionSectionSet `json:"sectionSets"`
	Items                  []*item.Candidate    `json:"items"`
}

// Extract reads the solved assignment grid back into a structured section
// set. Attribute totals cover every attribute referenced by the compiled
// constraints.
func (c *Compiled) Extract(res *solver.Result) (*SolutionSectionSet, error) {
	if res == nil || !res.Feasible {
		return nil, fmt.Errorf("no feasible assignment to extract: %w", ErrInfeasible)
	}

	set := &SolutionSectionSet{Sections: make([]SolutionSection, len(c.set.sections))}
	scaling := float64(c.set.scaling)

	for sec, sectionObj := range c.set.sections {
		section := SolutionSection{
			Section:         sectionObj,
			AttributeValues: map[string]int{},
		}
		for name := range c.set.attributesOfInterest {
			section.AttributeValues[name] = 0
		}

		for i, cand := range c.items {
			if !res.BoolValue(c.assignments[i][sec]) {
				continue
			}
			section.Candidates = append(section.Candidates, cand)
			section.Score += int(math.Round(cand.TotalScore() * scaling))
			for name := range c.set.attributesOfInterest {
				value, err := cand.Object.Number(name)
				if err != nil {
					return nil, fmt.Errorf("extracting attribute %q: %w", name, err)
				}
				section.AttributeValues[name] += int(math.Round(value * scaling))
			}
		}
		set.Sections[sec] = section
	}
	return set, nil
}

// Assignment reports whether item i is assigned to section sec in the
// result. Exposed for validation and tests.
func (c *Compiled) Assignment(res *solver.Result, i, sec int) bool {
	return res.BoolValue(c.assignments[i][sec])
}

// Items returns the candidates the section set was compiled against.
func (c *Compiled) Items() []*item.Candidate {
	return c.items
}

// SectionSet returns the builder this compilation came from.
func (c *Compiled) SectionSet() *SectionSet {
	return c.set
}
