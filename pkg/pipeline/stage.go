package pipeline

import (
	"context"
	"fmt"
	"iter"

	"github.com/dshills/slotter/pkg/item"
)

// Stream is a lazy candidate sequence. A stage pulls candidates on demand
// from its upstream stream and yields transformed candidates downstream.
// A non-nil error terminates the stream; the candidate paired with an error
// is always nil.
type Stream = iter.Seq2[*item.Candidate, error]

// Stage transforms a candidate stream. Stages must be pure with respect to
// the stream: no shared mutable state across invocations. They may hold
// immutable pre-loaded resources.
type Stage interface {
	// Name identifies the stage in errors and logs.
	Name() string

	// Run returns the transformed stream. The returned stream must yield a
	// StageError carrying this stage's name if the stage fails.
	Run(ctx context.Context, rc *item.Context, in Stream) Stream
}

// StageError wraps a failure raised by a pipeline stage, carrying the
// identity of the stage that failed.
type StageError struct {
	// Stage is the name of the failing stage.
	Stage string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %q: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}

// failStream returns a stream that yields a single stage error.
func failStream(stage string, err error) Stream {
	return func(yield func(*item.Candidate, error) bool) {
		yield(nil, &StageError{Stage: stage, Err: err})
	}
}

// emptyStream returns a stream that yields nothing.
func emptyStream() Stream {
	return func(yield func(*item.Candidate, error) bool) {}
}
