package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/BaSui01/freqflow/freq"
	"github.com/BaSui01/freqflow/internal/metrics"
	"github.com/BaSui01/freqflow/tokenizer"
	"github.com/BaSui01/freqflow/types"
)

var runnerNamespaceSeq uint64

func nextRunnerNamespace() string {
	seq := atomic.AddUint64(&runnerNamespaceSeq, 1)
	return fmt.Sprintf("runnertest%d", seq)
}

func wordConfig() tokenizer.Config {
	return tokenizer.Config{
		Mode:             tokenizer.ModeWord,
		CaseFold:         true,
		StripPunctuation: true,
	}
}

func wordRequest(texts ...string) Request {
	req := Request{Tokenizer: wordConfig()}
	for i, text := range texts {
		req.Sources = append(req.Sources, Source{
			Name:   fmt.Sprintf("doc-%d", i),
			Reader: strings.NewReader(text),
		})
	}
	return req
}

// brokenReader fails on the first read.
type brokenReader struct {
	err error
}

func (b brokenReader) Read([]byte) (int, error) {
	return 0, b.err
}

func TestRunner_Run_CountsWords(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))

	result, err := r.Run(context.Background(), wordRequest("the cat and the hat"))
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, 4, result.Distinct)
	require.NotEmpty(t, result.Entries)
	assert.Equal(t, freq.Entry{Rank: 1, Token: "the", Count: 2}, result.Entries[0])
	assert.GreaterOrEqual(t, result.Elapsed.Nanoseconds(), int64(0))
}

func TestRunner_Run_MultipleSourcesShareTable(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))

	result, err := r.Run(context.Background(), wordRequest("go go", "go gopher"))
	require.NoError(t, err)

	assert.Equal(t, int64(4), result.Total)
	assert.Equal(t, 2, result.Distinct)
	assert.Equal(t, freq.Entry{Rank: 1, Token: "go", Count: 3}, result.Entries[0])
}

func TestRunner_Run_TopNTruncates(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))

	req := wordRequest("a a a b b c")
	req.Report = freq.ReportOptions{TopN: 2}

	result, err := r.Run(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, types.Token("a"), result.Entries[0].Token)
	assert.Equal(t, types.Token("b"), result.Entries[1].Token)
	// 截断只影响报表，总量仍是全部摄取
	assert.Equal(t, int64(6), result.Total)
}

func TestRunner_Run_InvalidTokenizerConfig(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))

	req := wordRequest("whatever")
	req.Tokenizer.Mode = "bogus"

	_, err := r.Run(context.Background(), req)
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrInvalidConfig))
}

func TestRunner_Run_InvalidReportOptions(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))

	req := wordRequest("whatever")
	req.Report.TopN = -1

	_, err := r.Run(context.Background(), req)
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrInvalidConfig))
}

func TestRunner_Run_ReadErrorPassthrough(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))
	sentinel := errors.New("disk burst")

	req := Request{
		Tokenizer: wordConfig(),
		Sources:   []Source{{Name: "bad", Reader: brokenReader{err: sentinel}}},
	}

	_, err := r.Run(context.Background(), req)
	// 读取错误原样透传，既不包装也不翻译
	assert.Equal(t, sentinel, err)
}

func TestRunner_Run_EmptyInputAllowedByDefault(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))

	result, err := r.Run(context.Background(), wordRequest(""))
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.Total)
	assert.Empty(t, result.Entries)
}

func TestRunner_Run_RequireNonEmpty(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t), WithRequireNonEmpty(true))

	_, err := r.Run(context.Background(), wordRequest("   \t\n"))
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrEmptyInput))
}

func TestRunner_Run_RequireNonEmptyPerRequest(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))

	req := wordRequest("   ")
	req.RequireNonEmpty = true
	_, err := r.Run(context.Background(), req)
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrEmptyInput))
}

func TestRunner_Run_AssignsDistinctRunIDs(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))

	first, err := r.Run(context.Background(), wordRequest("one"))
	require.NoError(t, err)
	second, err := r.Run(context.Background(), wordRequest("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunner_Run_RecordsMetrics(t *testing.T) {
	ns := nextRunnerNamespace()
	collector := metrics.NewCollector(ns, zaptest.NewLogger(t))
	r := NewRunner(zaptest.NewLogger(t), WithCollector(collector))

	_, err := r.Run(context.Background(), wordRequest("alpha beta alpha"))
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(prometheus.DefaultGatherer, ns+"_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(prometheus.DefaultGatherer, ns+"_tokens_ingested_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunner_Run_RecordsErrorMetric(t *testing.T) {
	ns := nextRunnerNamespace()
	collector := metrics.NewCollector(ns, zaptest.NewLogger(t))
	r := NewRunner(zaptest.NewLogger(t), WithCollector(collector))

	req := wordRequest("whatever")
	req.Tokenizer.Mode = "bogus"
	_, err := r.Run(context.Background(), req)
	require.Error(t, err)

	count, err := testutil.GatherAndCount(prometheus.DefaultGatherer, ns+"_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
