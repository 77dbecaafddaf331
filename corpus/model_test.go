package corpus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/freqflow/freq"
	"github.com/BaSui01/freqflow/types"
)

func refTable(counts map[string]int64) freq.Table {
	table := freq.Table{Counts: make(map[types.Token]int64, len(counts))}
	for tok, c := range counts {
		table.Counts[types.Token(tok)] = c
		table.Total += c
	}
	return table
}

func TestLogit(t *testing.T) {
	tests := []struct {
		name    string
		p       float64
		want    float64
		wantErr bool
	}{
		{name: "even odds", p: 0.5, want: 0},
		{name: "one in three", p: 1.0 / 3.0, want: math.Log(0.5)},
		{name: "zero rejected", p: 0, wantErr: true},
		{name: "one rejected", p: 1, wantErr: true},
		{name: "negative rejected", p: -0.2, wantErr: true},
		{name: "above one rejected", p: 1.7, wantErr: true},
		{name: "NaN rejected", p: math.NaN(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Logit(tt.p)
			if tt.wantErr {
				assert.Equal(t, types.ErrInvalidConfig, types.GetErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestSigmoid_InvertsLogit(t *testing.T) {
	for _, p := range []float64{0.01, 0.25, 0.5, 0.75, 0.99} {
		x, err := Logit(p)
		require.NoError(t, err)
		assert.InDelta(t, p, Sigmoid(x), 1e-12)
	}
}

func TestNewModel_Validation(t *testing.T) {
	valid := refTable(map[string]int64{"a": 3, "b": 1})

	tests := []struct {
		name     string
		table    freq.Table
		cfg      ModelConfig
		wantCode types.ErrorCode
	}{
		{name: "defaults", table: valid},
		{name: "explicit base rate", table: valid, cfg: ModelConfig{BaseRate: 0.2}},
		{name: "empty table", table: freq.Table{}, wantCode: types.ErrEmptyInput},
		{name: "base rate one", table: valid, cfg: ModelConfig{BaseRate: 1}, wantCode: types.ErrInvalidConfig},
		{name: "base rate negative", table: valid, cfg: ModelConfig{BaseRate: -0.5}, wantCode: types.ErrInvalidConfig},
		{name: "base rate above one", table: valid, cfg: ModelConfig{BaseRate: 1.5}, wantCode: types.ErrInvalidConfig},
		{name: "negative smoothing", table: valid, cfg: ModelConfig{Smoothing: -1}, wantCode: types.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewModel(tt.table, tt.cfg)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.NotNil(t, m)
				return
			}
			assert.Equal(t, tt.wantCode, types.GetErrorCode(err))
		})
	}
}

func TestNewModel_DerivedQuantities(t *testing.T) {
	// Reference: a:3, b:1. V=2, total=4, alpha=1, denominator 4+3=7.
	m, err := NewModel(refTable(map[string]int64{"a": 3, "b": 1}), ModelConfig{})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Vocabulary())
	assert.Equal(t, int64(4), m.TotalTokens())

	// Default base rate 1/(V+1) = 1/3.
	assert.InDelta(t, 1.0/3.0, m.BaseRate(), 1e-12)
	wantBias := math.Log((1.0 / 3.0) / (2.0 / 3.0))
	assert.InDelta(t, wantBias, m.Bias(), 1e-12)

	logitAt := func(p float64) float64 { return math.Log(p / (1 - p)) }

	wA, known := m.Weight("a")
	assert.True(t, known)
	assert.InDelta(t, logitAt(4.0/7.0)-wantBias, wA, 1e-12)

	wB, known := m.Weight("b")
	assert.True(t, known)
	assert.InDelta(t, logitAt(2.0/7.0)-wantBias, wB, 1e-12)

	wUnknown, known := m.Weight("zzz")
	assert.False(t, known)
	assert.InDelta(t, logitAt(1.0/7.0)-wantBias, wUnknown, 1e-12)

	// More frequent tokens weigh more; unknown weighs least.
	assert.Greater(t, wA, wB)
	assert.Greater(t, wB, wUnknown)
}

func TestScore_EmptyDocument(t *testing.T) {
	m, err := NewModel(refTable(map[string]int64{"a": 1}), ModelConfig{})
	require.NoError(t, err)

	_, err = m.Score(freq.Table{}, 0)
	assert.Equal(t, types.ErrEmptyInput, types.GetErrorCode(err))
}

func TestScore_NegativeTopContributors(t *testing.T) {
	m, err := NewModel(refTable(map[string]int64{"a": 1}), ModelConfig{})
	require.NoError(t, err)

	_, err = m.Score(refTable(map[string]int64{"a": 1}), -1)
	assert.Equal(t, types.ErrInvalidConfig, types.GetErrorCode(err))
}

func TestScore_KnownTokensBeatUnknown(t *testing.T) {
	m, err := NewModel(refTable(map[string]int64{"common": 90, "rare": 10}), ModelConfig{})
	require.NoError(t, err)

	onCorpus, err := m.Score(refTable(map[string]int64{"common": 5}), 0)
	require.NoError(t, err)
	offCorpus, err := m.Score(refTable(map[string]int64{"alien": 5}), 0)
	require.NoError(t, err)

	assert.Greater(t, onCorpus.Affinity, offCorpus.Affinity)
	assert.Greater(t, onCorpus.Affinity, 0.0)
	assert.Less(t, onCorpus.Affinity, 1.0)

	assert.Zero(t, onCorpus.UnknownTokens)
	assert.Equal(t, int64(5), offCorpus.UnknownTokens)
}

func TestScore_Contributors(t *testing.T) {
	m, err := NewModel(refTable(map[string]int64{"high": 50, "mid": 10, "low": 1}), ModelConfig{})
	require.NoError(t, err)

	doc := refTable(map[string]int64{"high": 2, "low": 1, "novel": 3})
	result, err := m.Score(doc, 2)
	require.NoError(t, err)

	require.Len(t, result.Top, 2)
	assert.Equal(t, types.Token("high"), result.Top[0].Token)
	assert.True(t, result.Top[0].Known)
	assert.Equal(t, int64(2), result.Top[0].Count)
	assert.Equal(t, types.Token("low"), result.Top[1].Token)

	require.Len(t, result.Bottom, 2)
	assert.Equal(t, types.Token("novel"), result.Bottom[0].Token)
	assert.False(t, result.Bottom[0].Known)
	assert.Equal(t, int64(3), result.Bottom[0].Count)

	assert.Equal(t, int64(6), result.DocumentTokens)
	assert.Equal(t, int64(3), result.UnknownTokens)

	// Zero omits the lists entirely.
	bare, err := m.Score(doc, 0)
	require.NoError(t, err)
	assert.Nil(t, bare.Top)
	assert.Nil(t, bare.Bottom)
}

func TestScore_MeanKeepsLengthComparable(t *testing.T) {
	m, err := NewModel(refTable(map[string]int64{"a": 3, "b": 2}), ModelConfig{})
	require.NoError(t, err)

	short, err := m.Score(refTable(map[string]int64{"a": 1}), 0)
	require.NoError(t, err)
	long, err := m.Score(refTable(map[string]int64{"a": 1000}), 0)
	require.NoError(t, err)

	assert.InDelta(t, short.Affinity, long.Affinity, 1e-12)
}
