package item

// Explanation is an immutable human-readable string describing why a
// pipeline stage generated, passed, or scored a candidate.
type Explanation string

// Candidate wraps a domain Object together with the trail of explanations
// and scores applied by pipeline stages. The two trails are parallel: the
// i-th score was applied together with the i-th explanation. All mutation
// goes through Apply so the trails cannot diverge in length.
type Candidate struct {
	// Object is the wrapped domain object.
	Object Object

	// AppliedExplanations records one entry per stage contribution.
	AppliedExplanations []Explanation

	// AppliedScores records the score paired with each explanation.
	AppliedScores []float64
}

// NewCandidate creates a candidate with an initial explanation/score pair.
// Generators use this so every candidate starts with a non-empty trail.
func NewCandidate(obj Object, explanation Explanation, score float64) *Candidate {
	return &Candidate{
		Object:              obj,
		AppliedExplanations: []Explanation{explanation},
		AppliedScores:       []float64{score},
	}
}

// Apply appends an explanation/score pair to the candidate's trail.
func (c *Candidate) Apply(explanation Explanation, score float64) {
	c.AppliedExplanations = append(c.AppliedExplanations, explanation)
	c.AppliedScores = append(c.AppliedScores, score)
}

// TotalScore returns the sum of all applied scores.
func (c *Candidate) TotalScore() float64 {
	total := 0.0
	for _, s := range c.AppliedScores {
		total += s
	}
	return total
}

// TrailLen returns the number of explanation/score pairs applied so far.
func (c *Candidate) TrailLen() int {
	return len(c.AppliedExplanations)
}
