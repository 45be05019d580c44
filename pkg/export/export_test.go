package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dshills/slotter/pkg/constraint"
	"github.com/dshills/slotter/pkg/item"
)

func sampleSolution() *constraint.Solution {
	x := item.NewCandidate(item.NewObject("item:x", map[string]any{"cost": 4.0}), "generated", 0.0)
	x.Apply("scored", 2.5)
	y := item.NewCandidate(item.NewObject("item:y", map[string]any{"cost": 3.0}), "generated", 0.0)
	y.Apply("scored", 1.5)

	return &constraint.Solution{
		OverallScore:           40,
		OverallAttributeValues: map[string]int{"cost": 70},
		SectionSets: []constraint.SolutionSectionSet{{
			Sections: []constraint.SolutionSection{
				{
					Section:         item.NewObject("sec:first", nil),
					Score:           25,
					AttributeValues: map[string]int{"cost": 40},
					Candidates:      []*item.Candidate{x},
				},
				{
					Section:         item.NewObject("sec:second", nil),
					Score:           15,
					AttributeValues: map[string]int{"cost": 30},
					Candidates:      []*item.Candidate{y},
				},
			},
		}},
		Items: []*item.Candidate{x, y},
	}
}

func TestExportJSONRoundTrips(t *testing.T) {
	data, err := ExportJSON(sampleSolution())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if decoded["overallScore"] != float64(40) {
		t.Errorf("overallScore = %v, want 40", decoded["overallScore"])
	}
	if _, ok := decoded["sectionSets"]; !ok {
		t.Error("exported JSON missing sectionSets")
	}
}

func TestExportJSONNil(t *testing.T) {
	if _, err := ExportJSON(nil); err == nil {
		t.Error("expected error for nil solution")
	}
}

func TestRenderText(t *testing.T) {
	text := RenderText(sampleSolution())

	for _, want := range []string{"Overall score: 40", "sec:first", "sec:second", "item:x", "cost: 70"} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered text missing %q:\n%s", want, text)
		}
	}
}

func TestRenderTextNil(t *testing.T) {
	if got := RenderText(nil); !strings.Contains(got, "No solution") {
		t.Errorf("nil render = %q", got)
	}
}

func TestExportSVG(t *testing.T) {
	data, err := ExportSVG(sampleSolution(), DefaultSVGOptions())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	svg := string(data)
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Error("output is not an SVG document")
	}
	for _, want := range []string{"sec:first", "sec:second", "item:x", "item:y"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestExportSVGNil(t *testing.T) {
	if _, err := ExportSVG(nil, DefaultSVGOptions()); err == nil {
		t.Error("expected error for nil solution")
	}
}
