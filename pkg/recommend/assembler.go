package recommend

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/slotter/pkg/constraint"
	"github.com/dshills/slotter/pkg/item"
	"github.com/dshills/slotter/pkg/pipeline"
	"github.com/dshills/slotter/pkg/solver"
)

// ModelFactory produces a fresh solver model per invocation. Overridable so
// tests and callers can substitute solver backends.
type ModelFactory func() solver.Model

// Assembler drives a candidate pipeline and assembles a constraint solution
// from its output. Each Run builds a fresh solver model; nothing is shared
// across invocations.
type Assembler struct {
	opts     Options
	logger   *zap.Logger
	newModel ModelFactory
}

// AssemblerOption customizes an Assembler.
type AssemblerOption func(*Assembler)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) AssemblerOption {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithModelFactory overrides the solver backend.
func WithModelFactory(factory ModelFactory) AssemblerOption {
	return func(a *Assembler) {
		if factory != nil {
			a.newModel = factory
		}
	}
}

// NewAssembler creates an assembler with the given options.
func NewAssembler(opts Options, assemblerOpts ...AssemblerOption) (*Assembler, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	a := &Assembler{
		opts:     opts,
		logger:   zap.NewNop(),
		newModel: func() solver.Model { return solver.NewFDModel() },
	}
	for _, opt := range assemblerOpts {
		opt(a)
	}
	return a, nil
}

// Run executes the pipeline, compiles every section set against one shared
// item-selection vector, solves, and extracts the combined solution.
func (a *Assembler) Run(ctx context.Context, p *pipeline.Pipeline, rc *item.Context, sets ...*constraint.SectionSet) (*constraint.Solution, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("at least one section set required: %w", constraint.ErrInvalidConfiguration)
	}

	if rc == nil {
		rc = item.NewContext(nil)
	}

	start := time.Now()
	candidates, err := p.Run(ctx, rc)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("pipeline complete",
		zap.Stringer("request", rc.RequestID),
		zap.Int("candidates", len(candidates)),
		zap.Duration("elapsed", time.Since(start)))

	return a.Solve(ctx, candidates, sets...)
}

// Solve assembles a solution for an already-ranked candidate list.
func (a *Assembler) Solve(ctx context.Context, candidates []*item.Candidate, sets ...*constraint.SectionSet) (*constraint.Solution, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("at least one section set required: %w", constraint.ErrInvalidConfiguration)
	}

	m := a.newModel()

	// One selection indicator per item, shared by every section set.
	selection := make([]solver.Var, len(candidates))
	objective := solver.LinearExpr{}
	for i, cand := range candidates {
		selection[i] = m.NewBoolVar(fmt.Sprintf("select[%s]", cand.Object.URI))
		objective.AddTerm(selection[i], int(math.Round(cand.TotalScore()*float64(a.opts.Scaling))))
	}
	m.Maximize(objective)

	compiled := make([]*constraint.Compiled, len(sets))
	for i, set := range sets {
		c, err := set.Compile(m, candidates, selection)
		if err != nil {
			return nil, fmt.Errorf("compiling section set %d: %w", i, err)
		}
		compiled[i] = c
	}

	start := time.Now()
	res, err := m.Solve(ctx, time.Duration(a.opts.SolverTimeBudgetMS)*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constraint.ErrSolverFailure, err)
	}
	a.logger.Info("solve complete",
		zap.Bool("feasible", res.Feasible),
		zap.Bool("optimal", res.Optimal),
		zap.Int("objective", res.Objective),
		zap.Duration("elapsed", time.Since(start)))

	if !res.Feasible {
		if a.opts.AllowInfeasibleReport {
			return emptySolution(sets), nil
		}
		return nil, fmt.Errorf("no assignment satisfies the section constraints: %w", constraint.ErrInfeasible)
	}

	solution := &constraint.Solution{
		OverallScore:           res.Objective,
		OverallAttributeValues: map[string]int{},
	}
	for _, c := range compiled {
		set, err := c.Extract(res)
		if err != nil {
			return nil, err
		}
		solution.SectionSets = append(solution.SectionSets, *set)
		for _, section := range set.Sections {
			for name, value := range section.AttributeValues {
				solution.OverallAttributeValues[name] += value
			}
		}
	}
	for i, cand := range candidates {
		if res.BoolValue(selection[i]) {
			solution.Items = append(solution.Items, cand)
		}
	}
	return solution, nil
}

// emptySolution is the infeasible report: zero score, empty sections.
func emptySolution(sets []*constraint.SectionSet) *constraint.Solution {
	sol := &constraint.Solution{OverallAttributeValues: map[string]int{}}
	for _, set := range sets {
		sectionSet := constraint.SolutionSectionSet{}
		for _, section := range set.Sections() {
			sectionSet.Sections = append(sectionSet.Sections, constraint.SolutionSection{
				Section:         section,
				AttributeValues: map[string]int{},
			})
		}
		sol.SectionSets = append(sol.SectionSets, sectionSet)
	}
	return sol
}
