package validation

import (
	"testing"

	"github.com/dshills/slotter/pkg/constraint"
	"github.com/dshills/slotter/pkg/item"
)

func cand(uri string, score float64, attrs map[string]any) *item.Candidate {
	c := item.NewCandidate(item.NewObject(uri, attrs), "test item", 0.0)
	c.Apply("test score", score)
	return c
}

// buildSolved constructs a section set plus a hand-made solution for it.
func buildSolved(t *testing.T) (*constraint.SectionSet, *constraint.Solution, []*item.Candidate) {
	t.Helper()
	set := constraint.NewSectionSet()
	sections := []item.Object{
		item.NewObject("sec:a", nil),
		item.NewObject("sec:b", nil),
	}
	if err := set.SetSections(sections...); err != nil {
		t.Fatal(err)
	}
	if err := set.AddSectionCountConstraint(constraint.CountBounds{Max: constraint.Count(1)}, ""); err != nil {
		t.Fatal(err)
	}

	x := cand("item:x", 2, nil)
	y := cand("item:y", 1, nil)

	sol := &constraint.Solution{
		OverallScore:           3,
		OverallAttributeValues: map[string]int{},
		SectionSets: []constraint.SolutionSectionSet{{
			Sections: []constraint.SolutionSection{
				{Section: sections[0], Score: 2, AttributeValues: map[string]int{}, Candidates: []*item.Candidate{x}},
				{Section: sections[1], Score: 1, AttributeValues: map[string]int{}, Candidates: []*item.Candidate{y}},
			},
		}},
		Items: []*item.Candidate{x, y},
	}
	return set, sol, []*item.Candidate{x, y}
}

func TestValidSolutionPasses(t *testing.T) {
	set, sol, _ := buildSolved(t)

	report, err := Validate(sol, set)
	if err != nil {
		t.Fatalf("validation failed to run: %v", err)
	}
	if !report.Passed {
		t.Fatalf("valid solution reported errors: %v", report.Errors)
	}
	if len(report.Results) == 0 {
		t.Error("report should list individual checks")
	}
}

func TestCountViolationDetected(t *testing.T) {
	set, sol, cands := buildSolved(t)

	// Cram both items into the first section, exceeding its max of 1.
	sol.SectionSets[0].Sections[0].Candidates = cands
	sol.SectionSets[0].Sections[0].Score = 3
	sol.SectionSets[0].Sections[1].Candidates = nil
	sol.SectionSets[0].Sections[1].Score = 0

	report, err := Validate(sol, set)
	if err != nil {
		t.Fatal(err)
	}
	if report.Passed {
		t.Fatal("count violation not detected")
	}
}

func TestCoverageViolationDetected(t *testing.T) {
	set, sol, _ := buildSolved(t)

	// item:y selected but dropped from every section.
	sol.SectionSets[0].Sections[1].Candidates = nil
	sol.SectionSets[0].Sections[1].Score = 0

	report, err := Validate(sol, set)
	if err != nil {
		t.Fatal(err)
	}
	if report.Passed {
		t.Fatal("coverage violation not detected")
	}
}

func TestFilterViolationDetected(t *testing.T) {
	set := constraint.NewSectionSet()
	sections := []item.Object{item.NewObject("sec:a", nil)}
	if err := set.SetSections(sections...); err != nil {
		t.Fatal(err)
	}
	if err := set.SetSectionAssignmentFilter("sec:a", func(item.Object) bool { return false }); err != nil {
		t.Fatal(err)
	}

	x := cand("item:x", 1, nil)
	sol := &constraint.Solution{
		OverallScore:           1,
		OverallAttributeValues: map[string]int{},
		SectionSets: []constraint.SolutionSectionSet{{
			Sections: []constraint.SolutionSection{
				{Section: sections[0], Score: 1, AttributeValues: map[string]int{}, Candidates: []*item.Candidate{x}},
			},
		}},
		Items: []*item.Candidate{x},
	}

	report, err := Validate(sol, set)
	if err != nil {
		t.Fatal(err)
	}
	if report.Passed {
		t.Fatal("filter violation not detected")
	}
}

func TestScoreMismatchDetected(t *testing.T) {
	set, sol, _ := buildSolved(t)
	sol.SectionSets[0].Sections[0].Score = 99

	report, err := Validate(sol, set)
	if err != nil {
		t.Fatal(err)
	}
	if report.Passed {
		t.Fatal("score mismatch not detected")
	}
}

func TestOrderingViolationDetected(t *testing.T) {
	set, sol, _ := buildSolved(t)
	// item:y (in sec:b, position 2) must come strictly before item:x
	// (position 1): violated.
	if err := set.AddItemOrderingConstraint("item:y", "item:x", constraint.Less); err != nil {
		t.Fatal(err)
	}

	report, err := Validate(sol, set)
	if err != nil {
		t.Fatal(err)
	}
	if report.Passed {
		t.Fatal("ordering violation not detected")
	}
}

func TestMismatchedSetCount(t *testing.T) {
	set, sol, _ := buildSolved(t)
	if _, err := Validate(sol, set, set); err == nil {
		t.Fatal("expected error for mismatched section set count")
	}
}
