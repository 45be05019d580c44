package validation

import (
	"fmt"
	"math"

	"github.com/dshills/slotter/pkg/constraint"
)

// Validate re-checks a solution against the section sets it was solved for.
// The i-th section set must correspond to sol.SectionSets[i]. Validation is
// post-hoc and best-effort: constraints that depend on solver-internal
// enforcement booleans are not re-checked.
func Validate(sol *constraint.Solution, sets ...*constraint.SectionSet) (*Report, error) {
	if sol == nil {
		return nil, fmt.Errorf("solution cannot be nil")
	}
	if len(sol.SectionSets) != len(sets) {
		return nil, fmt.Errorf("solution has %d section sets, expected %d", len(sol.SectionSets), len(sets))
	}

	report := &Report{Passed: true}
	checkTrails(report, sol)
	checkItemsDeduped(report, sol)

	selected := map[string]bool{}
	for _, cand := range sol.Items {
		selected[cand.Object.URI] = true
	}

	for i, set := range sets {
		solved := sol.SectionSets[i]
		if len(solved.Sections) != len(set.Sections()) {
			report.add("structure", false, "set %d has %d sections, expected %d",
				i, len(solved.Sections), len(set.Sections()))
			continue
		}
		checkFilterGating(report, set, solved)
		checkCoverage(report, set, solved, selected)
		checkRequired(report, set, solved, selected)
		checkOrdering(report, set, solved, selected)
		checkCrossSection(report, set, solved, selected)
		checkCounts(report, set, solved)
		checkScores(report, set, solved)
	}
	return report, nil
}

func checkTrails(r *Report, sol *constraint.Solution) {
	for _, cand := range sol.Items {
		if len(cand.AppliedExplanations) != len(cand.AppliedScores) {
			r.add("trail-consistency", false, "item %s has %d explanations but %d scores",
				cand.Object.URI, len(cand.AppliedExplanations), len(cand.AppliedScores))
			return
		}
	}
	r.add("trail-consistency", true, "")
}

func checkItemsDeduped(r *Report, sol *constraint.Solution) {
	seen := map[string]bool{}
	for _, cand := range sol.Items {
		if seen[cand.Object.URI] {
			r.add("items-deduped", false, "item %s listed twice", cand.Object.URI)
			return
		}
		seen[cand.Object.URI] = true
	}
	r.add("items-deduped", true, "")
}

func checkFilterGating(r *Report, set *constraint.SectionSet, solved constraint.SolutionSectionSet) {
	for _, section := range solved.Sections {
		if set.InvalidAllowed(section.Section.URI) {
			continue
		}
		for _, cand := range section.Candidates {
			ok, err := set.FilterAccepts(section.Section.URI, cand.Object)
			if err != nil {
				r.add("filter-gating", false, "section %s: %v", section.Section.URI, err)
				return
			}
			if !ok {
				r.add("filter-gating", false, "item %s assigned to %s despite failing its filter",
					cand.Object.URI, section.Section.URI)
				return
			}
		}
	}
	r.add("filter-gating", true, "")
}

func checkCoverage(r *Report, set *constraint.SectionSet, solved constraint.SolutionSectionSet, selected map[string]bool) {
	assigned := map[string]bool{}
	for _, section := range solved.Sections {
		for _, cand := range section.Candidates {
			assigned[cand.Object.URI] = true
		}
	}
	for uri := range selected {
		if !assigned[uri] {
			r.add("coverage", false, "selected item %s is not assigned to any section", uri)
			return
		}
	}
	r.add("coverage", true, "")
}

func checkRequired(r *Report, set *constraint.SectionSet, solved constraint.SolutionSectionSet, selected map[string]bool) {
	members := sectionMembers(solved)
	for itemURI, sectionURI := range set.RequiredAssignments() {
		if !selected[itemURI] {
			continue
		}
		if !members[sectionURI][itemURI] {
			r.add("required-assignment", false, "selected item %s is not in required section %s",
				itemURI, sectionURI)
			return
		}
	}
	r.add("required-assignment", true, "")
}

// positionSum mirrors the compiler's position expression: the sum of
// (index+1) over every section containing the item, zero when unassigned.
func positionSum(solved constraint.SolutionSectionSet, itemURI string) int {
	pos := 0
	for index, section := range solved.Sections {
		for _, cand := range section.Candidates {
			if cand.Object.URI == itemURI {
				pos += index + 1
				break
			}
		}
	}
	return pos
}

func checkOrdering(r *Report, set *constraint.SectionSet, solved constraint.SolutionSectionSet, selected map[string]bool) {
	pad := len(solved.Sections) + 2
	for _, oc := range set.OrderingConstraints() {
		aSel, bSel := boolToInt(selected[oc.Independent]), boolToInt(selected[oc.Dependent])
		strict := oc.Type == constraint.Less || oc.Type == constraint.Greater
		if strict && bSel == 0 {
			continue
		}
		lhs := positionSum(solved, oc.Independent) + bSel*pad
		rhs := positionSum(solved, oc.Dependent) + aSel*pad
		if !relate(oc.Type, lhs, rhs) {
			r.add("ordering", false, "%s %s %s violated: %d vs %d",
				oc.Independent, oc.Type, oc.Dependent, lhs, rhs)
			return
		}
	}
	r.add("ordering", true, "")
}

func checkCrossSection(r *Report, set *constraint.SectionSet, solved constraint.SolutionSectionSet, selected map[string]bool) {
	members := sectionMembers(solved)
	for _, sac := range set.AssignmentConstraints() {
		inA, inB := members[sac.SectionA], members[sac.SectionB]

		scope := map[string]bool{}
		for uri := range selected {
			scope[uri] = true
		}
		for uri := range inA {
			scope[uri] = true
		}
		for uri := range inB {
			scope[uri] = true
		}

		for uri := range scope {
			a, b := boolToInt(inA[uri]), boolToInt(inB[uri])
			if sac.Type == constraint.AtMostOne {
				if a+b > 1 {
					r.add("cross-section", false, "item %s assigned to both %s and %s",
						uri, sac.SectionA, sac.SectionB)
					return
				}
				continue
			}
			if !relate(sac.Type, a, b) {
				r.add("cross-section", false, "item %s: assignment %s %s %s violated",
					uri, sac.SectionA, sac.Type, sac.SectionB)
				return
			}
		}
	}
	r.add("cross-section", true, "")
}

func checkCounts(r *Report, set *constraint.SectionSet, solved constraint.SolutionSectionSet) {
	conditional := set.HierarchySections()
	for _, section := range solved.Sections {
		if conditional[section.Section.URI] {
			continue
		}
		count := 0
		for _, cand := range section.Candidates {
			ok, err := set.FilterAccepts(section.Section.URI, cand.Object)
			if err == nil && ok {
				count++
			}
		}
		for _, cc := range set.CountConstraints(section.Section.URI) {
			if !relate(cc.Type, count, int(math.Round(cc.Value))) {
				r.add("count-bounds", false, "section %s has %d items, violates %s",
					section.Section.URI, count, cc)
				return
			}
		}
	}
	r.add("count-bounds", true, "")
}

func checkScores(r *Report, set *constraint.SectionSet, solved constraint.SolutionSectionSet) {
	scaling := float64(set.Scaling())
	for _, section := range solved.Sections {
		want := 0
		for _, cand := range section.Candidates {
			want += int(math.Round(cand.TotalScore() * scaling))
		}
		if section.Score != want {
			r.add("score-consistency", false, "section %s reports score %d, candidates sum to %d",
				section.Section.URI, section.Score, want)
			return
		}
	}
	r.add("score-consistency", true, "")
}

// sectionMembers indexes assigned item URIs per section URI.
func sectionMembers(solved constraint.SolutionSectionSet) map[string]map[string]bool {
	out := map[string]map[string]bool{}
	for _, section := range solved.Sections {
		members := map[string]bool{}
		for _, cand := range section.Candidates {
			members[cand.Object.URI] = true
		}
		out[section.Section.URI] = members
	}
	return out
}

func relate(t constraint.Type, a, b int) bool {
	switch t {
	case constraint.EQ:
		return a == b
	case constraint.LEQ:
		return a <= b
	case constraint.GEQ:
		return a >= b
	case constraint.Less:
		return a < b
	case constraint.Greater:
		return a > b
	default:
		return false
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
