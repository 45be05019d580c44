package pipeline

import (
	"context"
	"errors"

	"github.com/dshills/slotter/pkg/item"
)

// FilterFunc decides whether a candidate passes a filter. It must be pure
// and reentrant.
type FilterFunc func(rc *item.Context, c *item.Candidate) bool

// Filter is a stage that passes through candidates satisfying a predicate.
// Each passing candidate has the filter's explanation appended with a 0.0
// score, so the trail records which filters were applied.
type Filter struct {
	// StageName identifies the filter in errors and logs.
	StageName string

	// Explanation is appended to each passing candidate.
	Explanation item.Explanation

	// Predicate decides whether a candidate passes.
	Predicate FilterFunc
}

// Name implements Stage.
func (f *Filter) Name() string {
	return f.StageName
}

// Run implements Stage.
func (f *Filter) Run(ctx context.Context, rc *item.Context, in Stream) Stream {
	if f.Predicate == nil {
		return failStream(f.StageName, errors.New("filter has no predicate"))
	}
	return func(yield func(*item.Candidate, error) bool) {
		for c, err := range in {
			if err != nil {
				yield(nil, err)
				return
			}
			if ctx.Err() != nil {
				yield(nil, &StageError{Stage: f.StageName, Err: ctx.Err()})
				return
			}
			if !f.Predicate(rc, c) {
				continue
			}
			c.Apply(f.Explanation, 0.0)
			if !yield(c, nil) {
				return
			}
		}
	}
}
