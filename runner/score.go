package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/freqflow/corpus"
	"github.com/BaSui01/freqflow/freq"
	"github.com/BaSui01/freqflow/tokenizer"
	"github.com/BaSui01/freqflow/types"
)

// ScoreRequest 一次语料亲和度评分请求
type ScoreRequest struct {
	// 分词器配置，文档与参考模型应使用同一配置分词
	Tokenizer tokenizer.Config
	// 参考模型
	Model *corpus.Model
	// 返回的高低贡献 token 数
	TopContributors int
	// 待评分文档的输入源
	Sources []Source
}

// ScoreOutcome 一次评分运行的结果
type ScoreOutcome struct {
	// 本次运行的唯一标识
	RunID string `json:"run_id"`
	// 文档 token 总量
	Total int64 `json:"total"`
	// 文档去重 token 数
	Distinct int `json:"distinct"`
	// 评分明细
	Score *corpus.ScoreResult `json:"score"`
	// 运行耗时
	Elapsed time.Duration `json:"elapsed"`
}

// Score 执行一次亲和度评分：摄取文档、对参考模型打分。
// 空文档由评分层判定为 EMPTY_INPUT。
func (r *Runner) Score(ctx context.Context, req ScoreRequest) (*ScoreOutcome, error) {
	runID := uuid.New().String()
	ctx = types.WithRunID(ctx, runID)
	start := time.Now()

	if req.Model == nil {
		err := types.NewError(types.ErrInvalidConfig, "score model is required")
		return nil, r.fail(runID, "score", start, err)
	}

	tok, err := tokenizer.New(req.Tokenizer)
	if err != nil {
		return nil, r.fail(runID, "score", start, err)
	}

	mode := string(tok.Config().Mode)
	r.logger.Info("run started",
		zap.String("run_id", runID),
		zap.String("kind", "score"),
		zap.String("mode", mode),
		zap.Int("sources", len(req.Sources)))

	engine := freq.NewEngine()
	total, err := r.ingest(ctx, engine, tok, req.Sources)
	if err != nil {
		return nil, r.fail(runID, "score", start, err)
	}

	score, err := req.Model.Score(engine.Snapshot(), req.TopContributors)
	if err != nil {
		return nil, r.fail(runID, "score", start, err)
	}

	outcome := &ScoreOutcome{
		RunID:    runID,
		Total:    total,
		Distinct: engine.DistinctTokens(),
		Score:    score,
		Elapsed:  time.Since(start),
	}

	if r.collector != nil {
		r.collector.RecordIngestion(mode, outcome.Total, int64(outcome.Distinct))
		r.collector.RecordScore(score.Affinity)
		r.collector.RecordRun("score", "success", outcome.Elapsed)
	}

	r.logger.Info("run completed",
		zap.String("run_id", runID),
		zap.String("kind", "score"),
		zap.Int64("total_tokens", outcome.Total),
		zap.Int("distinct_tokens", outcome.Distinct),
		zap.Float64("affinity", score.Affinity),
		zap.Duration("elapsed", outcome.Elapsed))

	return outcome, nil
}

// BuildModel 从参考输入源构建评分模型：分词、摄取、推导权重。
// 空参考由模型构建层判定为 EMPTY_INPUT。
func (r *Runner) BuildModel(ctx context.Context, tokCfg tokenizer.Config, modelCfg corpus.ModelConfig, sources ...Source) (*corpus.Model, error) {
	tok, err := tokenizer.New(tokCfg)
	if err != nil {
		return nil, err
	}

	engine := freq.NewEngine()
	if _, err := r.ingest(ctx, engine, tok, sources); err != nil {
		return nil, err
	}

	model, err := corpus.NewModel(engine.Snapshot(), modelCfg)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("reference model built",
		zap.Int("vocabulary", model.Vocabulary()),
		zap.Int64("total_tokens", model.TotalTokens()),
		zap.Float64("base_rate", model.BaseRate()))

	return model, nil
}
