package pipeline

import (
	"context"
	"sort"

	"github.com/dshills/slotter/pkg/item"
)

// Ranker is a stage that materializes the stream and emits candidates in
// non-increasing total-score order. The sort is stable: candidates with equal
// scores keep their first-seen order. It is the only order-changing stage.
type Ranker struct {
	// StageName identifies the ranker in errors and logs. Defaults to
	// "ranker" when empty.
	StageName string
}

// Name implements Stage.
func (r *Ranker) Name() string {
	if r.StageName == "" {
		return "ranker"
	}
	return r.StageName
}

// Run implements Stage.
func (r *Ranker) Run(ctx context.Context, _ *item.Context, in Stream) Stream {
	return func(yield func(*item.Candidate, error) bool) {
		var all []*item.Candidate
		for c, err := range in {
			if err != nil {
				yield(nil, err)
				return
			}
			all = append(all, c)
		}
		if ctx.Err() != nil {
			yield(nil, &StageError{Stage: r.Name(), Err: ctx.Err()})
			return
		}
		sort.SliceStable(all, func(i, j int) bool {
			return all[i].TotalScore() > all[j].TotalScore()
		})
		for _, c := range all {
			if !yield(c, nil) {
				return
			}
		}
	}
}
