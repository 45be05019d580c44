package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/slotter/pkg/constraint"
)

// RenderText creates a plain-text summary of a solution for CLI output and
// debugging. Returns a multi-line string listing each section set, its
// sections, and the candidates assigned to each.
func RenderText(sol *constraint.Solution) string {
	if sol == nil {
		return "No solution available"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall score: %d\n", sol.OverallScore)
	fmt.Fprintf(&sb, "Selected items: %d\n", len(sol.Items))

	if len(sol.OverallAttributeValues) > 0 {
		sb.WriteString("Attribute totals:\n")
		for _, name := range sortedKeys(sol.OverallAttributeValues) {
			fmt.Fprintf(&sb, "   %s: %d\n", name, sol.OverallAttributeValues[name])
		}
	}

	for i, set := range sol.SectionSets {
		fmt.Fprintf(&sb, "\nSection set %d:\n", i+1)
		for _, section := range set.Sections {
			fmt.Fprintf(&sb, "   [%s] score=%d items=%d\n",
				section.Section.URI, section.Score, len(section.Candidates))
			for _, cand := range section.Candidates {
				fmt.Fprintf(&sb, "      - %s (score %.2f)\n", cand.Object.URI, cand.TotalScore())
				for j, exp := range cand.AppliedExplanations {
					fmt.Fprintf(&sb, "        * %s (%+.2f)\n", string(exp), cand.AppliedScores[j])
				}
			}
		}
	}
	return sb.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
