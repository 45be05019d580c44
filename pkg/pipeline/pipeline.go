package pipeline

import (
	"context"
	"errors"

	"github.com/dshills/slotter/pkg/item"
)

// Pipeline is an ordered composition of stages. Stages are applied left to
// right over a lazy candidate stream; the stream is only materialized when
// Run collects the final output.
type Pipeline struct {
	stages []Stage
}

// New creates a pipeline from the given stages, applied in order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Stages returns the stages in application order. The returned slice must
// not be modified.
func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// Stream composes all stages over an empty initial stream and returns the
// resulting lazy sequence without materializing it.
func (p *Pipeline) Stream(ctx context.Context, rc *item.Context) Stream {
	out := emptyStream()
	for _, stage := range p.stages {
		out = stage.Run(ctx, rc, out)
	}
	return out
}

// Run drives the composed stream to completion and returns the candidates
// emitted by the last stage; they are ranked only when a Ranker is among the
// stages. Any stage failure aborts the run: partial output is discarded
// and the error surfaces with the failing stage's identity.
func (p *Pipeline) Run(ctx context.Context, rc *item.Context) ([]*item.Candidate, error) {
	if len(p.stages) == 0 {
		return nil, errors.New("pipeline has no stages")
	}

	var out []*item.Candidate
	for c, err := range p.Stream(ctx, rc) {
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
