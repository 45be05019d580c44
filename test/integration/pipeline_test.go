package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/dshills/slotter/pkg/constraint"
	"github.com/dshills/slotter/pkg/export"
	"github.com/dshills/slotter/pkg/item"
	"github.com/dshills/slotter/pkg/pipeline"
	"github.com/dshills/slotter/pkg/recommend"
	"github.com/dshills/slotter/pkg/validation"
)

// TestIntegration_CompleteFlow verifies the full pipeline-to-export flow:
// generate candidates from a source, filter and score them, assemble a
// constrained solution, validate it, and export every format.
func TestIntegration_CompleteFlow(t *testing.T) {
	source := pipeline.NewMemorySource(
		menuItem("item:omelet", "breakfast", 4.2, 3.0),
		menuItem("item:granola", "breakfast", 4.5, 2.0),
		menuItem("item:ramen", "any", 4.8, 5.0),
		menuItem("item:salad", "any", 3.9, 4.0),
		menuItem("item:curry", "dinner", 4.6, 6.0),
	)

	p := pipeline.New(
		pipeline.NewSourceGenerator("catalog", "item is on the menu", source, ""),
		&pipeline.Scorer{
			StageName:   "rating",
			Explanation: "item has a high rating",
			Score: func(_ *item.Context, c *item.Candidate) (float64, error) {
				return c.Object.Number("rating")
			},
		},
		&pipeline.Ranker{},
	)

	set := constraint.NewSectionSet()
	if err := set.SetScaling(100); err != nil {
		t.Fatal(err)
	}
	slots := []item.Object{
		item.NewObject("slot:breakfast", nil),
		item.NewObject("slot:dinner", nil),
	}
	if err := set.SetSections(slots...); err != nil {
		t.Fatal(err)
	}
	if err := set.AddSectionCountConstraint(constraint.CountBounds{Exact: constraint.Count(1)}, ""); err != nil {
		t.Fatal(err)
	}
	if err := set.AddSectionConstraint("cost", constraint.LEQ, 6.5, ""); err != nil {
		t.Fatal(err)
	}
	if err := set.SetSectionAssignmentFilter("slot:breakfast", func(obj item.Object) bool {
		style, err := obj.StringValue("style")
		return err == nil && (style == "breakfast" || style == "any")
	}); err != nil {
		t.Fatal(err)
	}
	if err := set.AddSectionAssignmentConstraint("slot:breakfast", "slot:dinner", constraint.AtMostOne); err != nil {
		t.Fatal(err)
	}

	assembler, err := recommend.NewAssembler(recommend.Options{Scaling: 100, SolverTimeBudgetMS: 5000})
	if err != nil {
		t.Fatal(err)
	}
	sol, err := assembler.Run(context.Background(), p, item.NewContext(nil), set)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}

	if len(sol.Items) != 2 {
		t.Fatalf("selected %d items, want 2", len(sol.Items))
	}

	report, err := validation.Validate(sol, set)
	if err != nil {
		t.Fatalf("validation failed to run: %v", err)
	}
	if !report.Passed {
		t.Fatalf("solution violates invariants: %v", report.Errors)
	}

	jsonData, err := export.ExportJSON(sol)
	if err != nil || !strings.Contains(string(jsonData), "overallScore") {
		t.Errorf("JSON export failed: %v", err)
	}
	if text := export.RenderText(sol); !strings.Contains(text, "slot:breakfast") {
		t.Errorf("text export missing section: %s", text)
	}
	svgData, err := export.ExportSVG(sol, export.DefaultSVGOptions())
	if err != nil || !strings.Contains(string(svgData), "<svg") {
		t.Errorf("SVG export failed: %v", err)
	}
}

// TestIntegration_ScenarioFile drives the same flow through the YAML
// scenario format the CLI consumes.
func TestIntegration_ScenarioFile(t *testing.T) {
	scenario := `
scaling: 10
sections:
  - uri: slot:morning
  - uri: slot:evening
items:
  - uri: item:eggs
    score: 2.0
    attrs: {cost: 3.0}
  - uri: item:toast
    score: 1.0
    attrs: {cost: 1.5}
constraints:
  counts:
    - section: ""
      exact: 1
  orderings:
    - independent: item:eggs
      dependent: item:toast
      type: LESS
`
	sc, err := recommend.LoadScenarioFromBytes([]byte(scenario))
	if err != nil {
		t.Fatalf("loading scenario failed: %v", err)
	}
	set, err := sc.SectionSet()
	if err != nil {
		t.Fatal(err)
	}
	assembler, err := recommend.NewAssembler(sc.Options)
	if err != nil {
		t.Fatal(err)
	}
	sol, err := assembler.Solve(context.Background(), sc.Candidates(), set)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	morning := sol.SectionSets[0].Sections[0]
	evening := sol.SectionSets[0].Sections[1]
	if len(morning.Candidates) != 1 || morning.Candidates[0].Object.URI != "item:eggs" {
		t.Errorf("slot:morning should hold item:eggs, got %v", morning.Candidates)
	}
	if len(evening.Candidates) != 1 || evening.Candidates[0].Object.URI != "item:toast" {
		t.Errorf("slot:evening should hold item:toast, got %v", evening.Candidates)
	}
}

func menuItem(uri, style string, rating, cost float64) item.Object {
	return item.NewObject(uri, map[string]any{
		"style":  style,
		"rating": rating,
		"cost":   cost,
	})
}
