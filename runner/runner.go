package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/freqflow/freq"
	"github.com/BaSui01/freqflow/internal/metrics"
	"github.com/BaSui01/freqflow/tokenizer"
	"github.com/BaSui01/freqflow/types"
)

// Source 命名的输入源。Name 仅用于日志，Reader 按需惰性消费。
type Source struct {
	Name   string
	Reader io.Reader
}

// Request 一次频率分析请求
type Request struct {
	// 分词器配置
	Tokenizer tokenizer.Config
	// 报表配置
	Report freq.ReportOptions
	// 输入源，全部摄取进同一张频率表
	Sources []Source
	// 零 token 摄取视为 EMPTY_INPUT。与 Runner 级别的
	// WithRequireNonEmpty 二者任一生效即生效。
	RequireNonEmpty bool
}

// Result 一次频率分析结果
type Result struct {
	// 本次运行的唯一标识
	RunID string `json:"run_id"`
	// 摄取的 token 总量
	Total int64 `json:"total"`
	// 去重后的 token 数
	Distinct int `json:"distinct"`
	// 按报表配置排序截断后的条目
	Entries []freq.Entry `json:"entries"`
	// 运行耗时
	Elapsed time.Duration `json:"elapsed"`
}

// Runner 编排完整的分析与评分运行：分词、摄取、报表、评分，
// 并负责运行标识、日志与指标记录。
type Runner struct {
	logger          *zap.Logger
	collector       *metrics.Collector
	requireNonEmpty bool
}

// Option 配置 Runner
type Option func(*Runner)

// WithCollector 设置指标收集器
func WithCollector(c *metrics.Collector) Option {
	return func(r *Runner) {
		r.collector = c
	}
}

// WithRequireNonEmpty 设置 Runner 级别的空输入策略：
// 零 token 摄取视为 EMPTY_INPUT 错误
func WithRequireNonEmpty(require bool) Option {
	return func(r *Runner) {
		r.requireNonEmpty = require
	}
}

// NewRunner 创建 Runner
func NewRunner(logger *zap.Logger, opts ...Option) *Runner {
	r := &Runner{
		logger: logger.With(zap.String("component", "runner")),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run 执行一次频率分析：校验配置、并发摄取所有输入源、生成报表。
// 输入源的读取错误原样返回，不做包装。
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.New().String()
	ctx = types.WithRunID(ctx, runID)
	start := time.Now()

	tok, err := tokenizer.New(req.Tokenizer)
	if err != nil {
		return nil, r.fail(runID, "analyze", start, err)
	}

	opts := req.Report.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, r.fail(runID, "analyze", start, err)
	}

	mode := string(tok.Config().Mode)
	r.logger.Info("run started",
		zap.String("run_id", runID),
		zap.String("kind", "analyze"),
		zap.String("mode", mode),
		zap.Int("sources", len(req.Sources)))

	engine := freq.NewEngine()
	total, err := r.ingest(ctx, engine, tok, req.Sources)
	if err != nil {
		return nil, r.fail(runID, "analyze", start, err)
	}

	if (r.requireNonEmpty || req.RequireNonEmpty) && total == 0 {
		err := types.NewError(types.ErrEmptyInput,
			fmt.Sprintf("no tokens ingested from %d sources", len(req.Sources)))
		return nil, r.fail(runID, "analyze", start, err)
	}

	entries, err := engine.Report(opts)
	if err != nil {
		return nil, r.fail(runID, "analyze", start, err)
	}

	result := &Result{
		RunID:    runID,
		Total:    total,
		Distinct: engine.DistinctTokens(),
		Entries:  entries,
		Elapsed:  time.Since(start),
	}

	if r.collector != nil {
		r.collector.RecordIngestion(mode, result.Total, int64(result.Distinct))
		r.collector.RecordReport(len(entries))
		r.collector.RecordRun("analyze", "success", result.Elapsed)
	}

	r.logger.Info("run completed",
		zap.String("run_id", runID),
		zap.String("kind", "analyze"),
		zap.Int64("total_tokens", result.Total),
		zap.Int("distinct_tokens", result.Distinct),
		zap.Int("report_entries", len(entries)),
		zap.Duration("elapsed", result.Elapsed))

	return result, nil
}

// ingest 并发摄取所有输入源
func (r *Runner) ingest(ctx context.Context, engine *freq.Engine, tok *tokenizer.Tokenizer, sources []Source) (int64, error) {
	streams := make([]types.TokenStream, len(sources))
	for i, src := range sources {
		streams[i] = tok.Tokenize(src.Reader)
	}
	return engine.IngestAll(ctx, streams...)
}

// fail 记录失败并返回原始错误
func (r *Runner) fail(runID, kind string, start time.Time, err error) error {
	if r.collector != nil {
		r.collector.RecordRun(kind, "error", time.Since(start))
	}

	r.logger.Error("run failed",
		zap.String("run_id", runID),
		zap.String("kind", kind),
		zap.Error(err))

	return err
}
