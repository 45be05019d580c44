package pipeline

import (
	"context"
	"errors"

	"github.com/dshills/slotter/pkg/item"
)

// ScoreFunc computes a score for a candidate. Scoring may fail, e.g. when a
// required attribute is missing from the domain object.
type ScoreFunc func(rc *item.Context, c *item.Candidate) (float64, error)

// BoolScoreFunc computes a predicate outcome and the score to apply for it.
type BoolScoreFunc func(rc *item.Context, c *item.Candidate) (bool, float64, error)

// Scorer is a stage that appends one explanation/score pair to every
// candidate that passes through it.
type Scorer struct {
	// StageName identifies the scorer in errors and logs.
	StageName string

	// Explanation is appended together with the computed score.
	Explanation item.Explanation

	// Score computes the candidate's score.
	Score ScoreFunc
}

// Name implements Stage.
func (s *Scorer) Name() string {
	return s.StageName
}

// Run implements Stage.
func (s *Scorer) Run(ctx context.Context, rc *item.Context, in Stream) Stream {
	if s.Score == nil {
		return failStream(s.StageName, errors.New("scorer has no score function"))
	}
	return func(yield func(*item.Candidate, error) bool) {
		for c, err := range in {
			if err != nil {
				yield(nil, err)
				return
			}
			if ctx.Err() != nil {
				yield(nil, &StageError{Stage: s.StageName, Err: ctx.Err()})
				return
			}
			score, err := s.Score(rc, c)
			if err != nil {
				yield(nil, &StageError{Stage: s.StageName, Err: err})
				return
			}
			c.Apply(s.Explanation, score)
			if !yield(c, nil) {
				return
			}
		}
	}
}

// BoolScorer is a stage that scores candidates based on a predicate outcome,
// appending the success or failure explanation accordingly.
type BoolScorer struct {
	// StageName identifies the scorer in errors and logs.
	StageName string

	// SuccessExplanation is appended when the predicate holds.
	SuccessExplanation item.Explanation

	// FailureExplanation is appended when the predicate does not hold.
	FailureExplanation item.Explanation

	// Score computes the predicate outcome and score.
	Score BoolScoreFunc
}

// Name implements Stage.
func (s *BoolScorer) Name() string {
	return s.StageName
}

// Run implements Stage.
func (s *BoolScorer) Run(ctx context.Context, rc *item.Context, in Stream) Stream {
	if s.Score == nil {
		return failStream(s.StageName, errors.New("bool scorer has no score function"))
	}
	return func(yield func(*item.Candidate, error) bool) {
		for c, err := range in {
			if err != nil {
				yield(nil, err)
				return
			}
			if ctx.Err() != nil {
				yield(nil, &StageError{Stage: s.StageName, Err: ctx.Err()})
				return
			}
			ok, score, err := s.Score(rc, c)
			if err != nil {
				yield(nil, &StageError{Stage: s.StageName, Err: err})
				return
			}
			if ok {
				c.Apply(s.SuccessExplanation, score)
			} else {
				c.Apply(s.FailureExplanation, score)
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}
