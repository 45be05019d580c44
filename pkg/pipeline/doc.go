// Package pipeline composes candidate-processing stages into recommendation
// pipelines. A pipeline is an ordered sequence of stages; each stage lazily
// transforms a candidate stream while threading an opaque request context.
// The four stage roles are generation, filtering, scoring, and ranking; the
// ranker is the only stage allowed to reorder the stream.
package pipeline
