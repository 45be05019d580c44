package pipeline

import (
	"context"
	"errors"

	"github.com/dshills/slotter/pkg/item"
)

// GenerateFunc produces candidate objects for a request.
type GenerateFunc func(ctx context.Context, rc *item.Context) ([]item.Object, error)

// Generator is a stage that produces new candidates from the request context
// and an external source. It ignores its input stream entirely. Every emitted
// candidate starts its trail with the generator's explanation and a 0.0 score.
type Generator struct {
	// StageName identifies the generator in errors and logs.
	StageName string

	// Explanation is applied as the first trail entry of each candidate.
	Explanation item.Explanation

	// Generate produces the candidate objects.
	Generate GenerateFunc
}

// NewSourceGenerator creates a generator that queries an ItemSource with a
// fixed query string.
func NewSourceGenerator(name string, explanation item.Explanation, source ItemSource, query string) *Generator {
	return &Generator{
		StageName:   name,
		Explanation: explanation,
		Generate: func(ctx context.Context, _ *item.Context) ([]item.Object, error) {
			return source.Query(ctx, query)
		},
	}
}

// Name implements Stage.
func (g *Generator) Name() string {
	return g.StageName
}

// Run implements Stage. The input stream is discarded, not drained.
func (g *Generator) Run(ctx context.Context, rc *item.Context, _ Stream) Stream {
	if g.Generate == nil {
		return failStream(g.StageName, errors.New("generator has no Generate function"))
	}
	return func(yield func(*item.Candidate, error) bool) {
		objects, err := g.Generate(ctx, rc)
		if err != nil {
			yield(nil, &StageError{Stage: g.StageName, Err: err})
			return
		}
		for _, obj := range objects {
			if ctx.Err() != nil {
				yield(nil, &StageError{Stage: g.StageName, Err: ctx.Err()})
				return
			}
			if !yield(item.NewCandidate(obj, g.Explanation, 0.0), nil) {
				return
			}
		}
	}
}
