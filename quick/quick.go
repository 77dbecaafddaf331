// =============================================================================
// Package quick — One-Line Frequency Analysis
// =============================================================================
// Provides convenience entry points for tokenizing, counting, and scoring
// text with minimal boilerplate. Delegates to runner.Runner internally.
//
// The package lives under quick/ (not root) so the root package can stay a
// thin alias layer over it; both surfaces produce identical results.
//
// Usage:
//
//	import "github.com/BaSui01/freqflow/quick"
//
//	res, err := quick.Analyze(ctx, text)
//	res, err := quick.Analyze(ctx, text, quick.WithNGram(3, tokenizer.UnitCharacters))
//	out, err := quick.Score(ctx, document, reference)
//
// =============================================================================
package quick

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/freqflow/corpus"
	"github.com/BaSui01/freqflow/freq"
	"github.com/BaSui01/freqflow/runner"
	"github.com/BaSui01/freqflow/tokenizer"
)

// Option configures a one-shot Analyze or Score call.
type Option func(*options)

type options struct {
	tokenizer       tokenizer.Config
	report          freq.ReportOptions
	model           corpus.ModelConfig
	topContributors int
	requireNonEmpty bool
	logger          *zap.Logger
	runner          *runner.Runner
}

// WithMode sets the tokenization mode. Defaults to word mode.
func WithMode(mode tokenizer.Mode) Option {
	return func(o *options) { o.tokenizer.Mode = mode }
}

// WithNGram switches to n-gram mode with the given window size and unit.
func WithNGram(size int, unit tokenizer.Unit) Option {
	return func(o *options) {
		o.tokenizer.Mode = tokenizer.ModeNGram
		o.tokenizer.NGramSize = size
		o.tokenizer.NGramUnit = unit
	}
}

// WithCaseFold controls Unicode case folding. Defaults to true.
func WithCaseFold(fold bool) Option {
	return func(o *options) { o.tokenizer.CaseFold = fold }
}

// WithStripPunctuation controls punctuation stripping. Defaults to true.
func WithStripPunctuation(strip bool) Option {
	return func(o *options) { o.tokenizer.StripPunctuation = strip }
}

// WithTopN truncates the Analyze report after sorting. Zero keeps every entry.
func WithTopN(n int) Option {
	return func(o *options) { o.report.TopN = n }
}

// WithOrder sets the report sort direction. Defaults to descending.
func WithOrder(order freq.Order) Option {
	return func(o *options) { o.report.Order = order }
}

// WithRequireNonEmpty makes a zero-token input an EMPTY_INPUT error instead
// of an empty result.
func WithRequireNonEmpty(require bool) Option {
	return func(o *options) { o.requireNonEmpty = require }
}

// WithBaseRate overrides the Score model's prior probability. Zero selects
// the default 1/(V+1).
func WithBaseRate(rate float64) Option {
	return func(o *options) { o.model.BaseRate = rate }
}

// WithSmoothing overrides the Score model's Laplace constant. Zero selects
// corpus.DefaultSmoothing.
func WithSmoothing(alpha float64) Option {
	return func(o *options) { o.model.Smoothing = alpha }
}

// WithTopContributors sets how many high and low contributor tokens a Score
// result carries. Zero omits the contributor lists.
func WithTopContributors(n int) Option {
	return func(o *options) { o.topContributors = n }
}

// WithLogger sets a custom zap logger. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRunner runs the call through a pre-built runner, keeping its metrics
// collector and empty-input policy. Overrides WithLogger.
func WithRunner(r *runner.Runner) Option {
	return func(o *options) { o.runner = r }
}

func defaultOptions() *options {
	return &options{
		tokenizer: tokenizer.Config{
			Mode:             tokenizer.ModeWord,
			CaseFold:         true,
			StripPunctuation: true,
		},
		topContributors: 10,
	}
}

func (o *options) resolve() *runner.Runner {
	if o.runner != nil {
		return o.runner
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return runner.NewRunner(o.logger)
}

// Analyze tokenizes and counts text in one call, returning the ranked
// frequency report.
func Analyze(ctx context.Context, text string, opts ...Option) (*runner.Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return o.resolve().Run(ctx, runner.Request{
		Tokenizer:       o.tokenizer,
		Report:          o.report,
		Sources:         []runner.Source{{Name: "text", Reader: strings.NewReader(text)}},
		RequireNonEmpty: o.requireNonEmpty,
	})
}

// Score builds a reference model from reference and rates how characteristic
// the document's tokens are of it, all in one call. Document and reference
// are tokenized with the same configuration.
func Score(ctx context.Context, document, reference string, opts ...Option) (*runner.ScoreOutcome, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	r := o.resolve()
	model, err := r.BuildModel(ctx, o.tokenizer, o.model,
		runner.Source{Name: "reference", Reader: strings.NewReader(reference)})
	if err != nil {
		return nil, err
	}

	return r.Score(ctx, runner.ScoreRequest{
		Tokenizer:       o.tokenizer,
		Model:           model,
		TopContributors: o.topContributors,
		Sources:         []runner.Source{{Name: "document", Reader: strings.NewReader(document)}},
	})
}
