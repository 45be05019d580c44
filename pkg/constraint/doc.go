// Package constraint implements the section-set constraint model: a
// declarative description of how selected candidate items are partitioned
// into ordered sections, compiled down to the abstract solver model.
//
// A SectionSet collects per-section attribute and count constraints,
// cross-section assignment constraints, AND/OR hierarchies of conditional
// enforcement, temporal item-ordering constraints, and per-section assignment
// filters. Compile lowers everything into 0/1 assignment indicators tied to
// the caller's item-selection indicators; Extract reads a solved model back
// into a structured SolutionSectionSet.
package constraint
