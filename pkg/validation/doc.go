// Package validation re-checks a constraint solution against the section
// sets it was solved for. It verifies the structural invariants a correct
// solve guarantees: filter gating, selection coverage, required assignments,
// item ordering, cross-section constraints, unconditional count bounds, and
// score/trail consistency. Constraints conditioned on enforcement
// hierarchies are skipped, since the enforcement booleans are not part of
// the extracted solution.
package validation
