package validation

import "fmt"

// CheckResult is the outcome of one invariant check.
type CheckResult struct {
	// Name identifies the check, e.g. "filter-gating".
	Name string

	// Satisfied is the pass/fail outcome.
	Satisfied bool

	// Details explains the violation, empty when satisfied.
	Details string
}

// Report aggregates all invariant checks for one solution.
type Report struct {
	// Passed is true when every check is satisfied.
	Passed bool

	// Results holds the individual check outcomes.
	Results []CheckResult

	// Errors lists the details of every failed check.
	Errors []string
}

// add records a check outcome.
func (r *Report) add(name string, satisfied bool, format string, args ...any) {
	details := ""
	if !satisfied {
		details = fmt.Sprintf(format, args...)
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %s", name, details))
		r.Passed = false
	}
	r.Results = append(r.Results, CheckResult{Name: name, Satisfied: satisfied, Details: details})
}
