package item

import (
	"errors"
	"math"
	"testing"
)

func testObject() Object {
	return NewObject("item:ramen-1", map[string]any{
		"style":  "tonkotsu",
		"rating": 4.5,
		"cost":   7,
		"nutrition": map[string]any{
			"calories": 650,
			"macros": map[string]any{
				"protein": 32.5,
			},
		},
	})
}

func TestResolveTopLevel(t *testing.T) {
	obj := testObject()

	val, err := obj.Resolve("style")
	if err != nil {
		t.Fatalf("Resolve(style) failed: %v", err)
	}
	if val != "tonkotsu" {
		t.Errorf("Resolve(style) = %v, want tonkotsu", val)
	}
}

func TestResolveNested(t *testing.T) {
	obj := testObject()

	tests := []struct {
		path string
		want float64
	}{
		{"rating", 4.5},
		{"cost", 7},
		{"nutrition.calories", 650},
		{"nutrition.macros.protein", 32.5},
	}
	for _, tt := range tests {
		got, err := obj.Number(tt.path)
		if err != nil {
			t.Errorf("Number(%s) failed: %v", tt.path, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Number(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestResolveMissing(t *testing.T) {
	obj := testObject()

	tests := []string{
		"",
		"absent",
		"nutrition.absent",
		"style.nested",       // string is not a nested object
		"nutrition.calories.deep", // number is not a nested object
	}
	for _, path := range tests {
		if _, err := obj.Resolve(path); !errors.Is(err, ErrMissingAttribute) {
			t.Errorf("Resolve(%q) error = %v, want ErrMissingAttribute", path, err)
		}
	}
}

func TestNumberNonNumeric(t *testing.T) {
	obj := testObject()
	if _, err := obj.Number("style"); !errors.Is(err, ErrMissingAttribute) {
		t.Errorf("Number(style) error = %v, want ErrMissingAttribute", err)
	}
}

func TestStringValue(t *testing.T) {
	obj := testObject()

	got, err := obj.StringValue("style")
	if err != nil {
		t.Fatalf("StringValue(style) failed: %v", err)
	}
	if got != "tonkotsu" {
		t.Errorf("StringValue(style) = %q, want tonkotsu", got)
	}
	if _, err := obj.StringValue("rating"); !errors.Is(err, ErrMissingAttribute) {
		t.Errorf("StringValue(rating) error = %v, want ErrMissingAttribute", err)
	}
}

func TestResolveNestedObject(t *testing.T) {
	inner := NewObject("item:inner", map[string]any{"depth": 2})
	obj := NewObject("item:outer", map[string]any{"child": inner})

	got, err := obj.Number("child.depth")
	if err != nil {
		t.Fatalf("Number(child.depth) failed: %v", err)
	}
	if got != 2 {
		t.Errorf("Number(child.depth) = %v, want 2", got)
	}
}

func TestCandidateTrail(t *testing.T) {
	cand := NewCandidate(testObject(), "generated", 0.0)
	if cand.TrailLen() != 1 {
		t.Fatalf("new candidate trail length = %d, want 1", cand.TrailLen())
	}

	cand.Apply("rated highly", 4.5)
	cand.Apply("style mismatch", 0.0)

	if len(cand.AppliedExplanations) != len(cand.AppliedScores) {
		t.Fatalf("trail lengths diverged: %d explanations, %d scores",
			len(cand.AppliedExplanations), len(cand.AppliedScores))
	}
	if got := cand.TotalScore(); math.Abs(got-4.5) > 1e-9 {
		t.Errorf("TotalScore() = %v, want 4.5", got)
	}
}
