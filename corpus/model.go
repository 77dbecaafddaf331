package corpus

import (
	"fmt"

	"github.com/BaSui01/freqflow/freq"
	"github.com/BaSui01/freqflow/types"
)

// DefaultSmoothing is the Laplace smoothing constant applied when the
// configuration leaves it unset.
const DefaultSmoothing = 1.0

// ModelConfig tunes model derivation.
type ModelConfig struct {
	// BaseRate is the prior probability an arbitrary token belongs to the
	// reference corpus. It must lie strictly between 0 and 1. Zero selects
	// the default 1/(V+1), with V the reference vocabulary size.
	BaseRate float64 `json:"base_rate" yaml:"base_rate" env:"BASE_RATE"`
	// Smoothing is the Laplace constant added to every count, reserving
	// probability mass for tokens the reference never saw. It must not be
	// negative; zero selects DefaultSmoothing.
	Smoothing float64 `json:"smoothing" yaml:"smoothing" env:"SMOOTHING"`
}

// Model holds per-token log-odds weights derived from a reference table.
// A model is immutable once built and safe for concurrent use.
type Model struct {
	weights   map[types.Token]float64
	bias      float64
	unknown   float64
	baseRate  float64
	smoothing float64
	vocab     int
	total     int64
}

// NewModel derives a model from a reference frequency table.
//
// Each token's smoothed relative frequency p(t) = (count+α) / (total+α·(V+1))
// becomes the weight w(t) = logit(p(t)) − bias with bias = logit(baseRate).
// The +1 in the denominator reserves mass for unseen tokens, whose weight
// uses the floor probability α / (total+α·(V+1)).
func NewModel(table freq.Table, cfg ModelConfig) (*Model, error) {
	if table.Total == 0 {
		return nil, types.NewError(types.ErrEmptyInput, "reference table is empty")
	}

	alpha := cfg.Smoothing
	if alpha == 0 {
		alpha = DefaultSmoothing
	}
	if alpha < 0 {
		return nil, types.NewError(types.ErrInvalidConfig,
			fmt.Sprintf("smoothing must not be negative, got %v", cfg.Smoothing))
	}

	vocab := len(table.Counts)
	baseRate := cfg.BaseRate
	if baseRate == 0 {
		baseRate = 1 / float64(vocab+1)
	}
	bias, err := Logit(baseRate)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidConfig,
			fmt.Sprintf("base rate must be strictly between 0 and 1, got %v", cfg.BaseRate))
	}

	denom := float64(table.Total) + alpha*float64(vocab+1)
	weights := make(map[types.Token]float64, vocab)
	for tok, count := range table.Counts {
		p := (float64(count) + alpha) / denom
		logit, err := Logit(p)
		if err != nil {
			return nil, err
		}
		weights[tok] = logit - bias
	}

	floor, err := Logit(alpha / denom)
	if err != nil {
		return nil, err
	}

	return &Model{
		weights:   weights,
		bias:      bias,
		unknown:   floor - bias,
		baseRate:  baseRate,
		smoothing: alpha,
		vocab:     vocab,
		total:     table.Total,
	}, nil
}

// Bias returns the log-odds of the base rate.
func (m *Model) Bias() float64 { return m.bias }

// BaseRate returns the effective base rate after defaulting.
func (m *Model) BaseRate() float64 { return m.baseRate }

// Smoothing returns the effective Laplace constant after defaulting.
func (m *Model) Smoothing() float64 { return m.smoothing }

// Vocabulary returns the number of distinct reference tokens.
func (m *Model) Vocabulary() int { return m.vocab }

// TotalTokens returns the reference table's token total.
func (m *Model) TotalTokens() int64 { return m.total }

// Weight returns the weight of tok and whether the reference saw it.
// Unseen tokens share the smoothed floor weight.
func (m *Model) Weight(tok types.Token) (float64, bool) {
	if w, ok := m.weights[tok]; ok {
		return w, true
	}
	return m.unknown, false
}
