// Package freqflow provides a top-level convenience entry point for frequency
// analysis and corpus affinity scoring with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/freqflow"
//
//	res, err := freqflow.Analyze(ctx, text)
//	res, err := freqflow.Analyze(ctx, text, freqflow.WithNGram(3, tokenizer.UnitCharacters))
//	out, err := freqflow.Score(ctx, document, reference)
//
// This is a thin wrapper around [quick.Analyze] and [quick.Score]; both
// surfaces produce identical results. Use this package when you prefer the
// shorter import path.
package freqflow

import (
	"context"

	"github.com/BaSui01/freqflow/quick"
	"github.com/BaSui01/freqflow/runner"
)

// Option configures a one-shot [Analyze] or [Score] call.
type Option = quick.Option

// Analyze tokenizes and counts text in one call, returning the ranked
// frequency report.
func Analyze(ctx context.Context, text string, opts ...Option) (*runner.Result, error) {
	return quick.Analyze(ctx, text, opts...)
}

// Score builds a reference model from reference and rates how characteristic
// the document's tokens are of it, all in one call.
func Score(ctx context.Context, document, reference string, opts ...Option) (*runner.ScoreOutcome, error) {
	return quick.Score(ctx, document, reference, opts...)
}

// Re-export the option constructors so callers never need to import quick/.

// WithMode sets the tokenization mode. Defaults to word mode.
var WithMode = quick.WithMode

// WithNGram switches to n-gram mode with the given window size and unit.
var WithNGram = quick.WithNGram

// WithCaseFold controls Unicode case folding. Defaults to true.
var WithCaseFold = quick.WithCaseFold

// WithStripPunctuation controls punctuation stripping. Defaults to true.
var WithStripPunctuation = quick.WithStripPunctuation

// WithTopN truncates the Analyze report after sorting.
var WithTopN = quick.WithTopN

// WithOrder sets the report sort direction. Defaults to descending.
var WithOrder = quick.WithOrder

// WithRequireNonEmpty makes a zero-token input an EMPTY_INPUT error.
var WithRequireNonEmpty = quick.WithRequireNonEmpty

// WithBaseRate overrides the Score model's prior probability.
var WithBaseRate = quick.WithBaseRate

// WithSmoothing overrides the Score model's Laplace constant.
var WithSmoothing = quick.WithSmoothing

// WithTopContributors sets how many contributor tokens a Score result carries.
var WithTopContributors = quick.WithTopContributors

// WithLogger sets a custom zap logger.
var WithLogger = quick.WithLogger

// WithRunner runs the call through a pre-built runner.
var WithRunner = quick.WithRunner
