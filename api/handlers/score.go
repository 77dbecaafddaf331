package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/BaSui01/freqflow/api"
	"github.com/BaSui01/freqflow/corpus"
	"github.com/BaSui01/freqflow/runner"
	"github.com/BaSui01/freqflow/types"
	"go.uber.org/zap"
)

// =============================================================================
// 🎯 亲和度评分接口 Handler
// =============================================================================

// ScoreHandler 亲和度评分接口处理器。
// provider 为服务端配置的参考模型，可以为空；此时每个请求必须
// 内联提供参考文本或参考表。
type ScoreHandler struct {
	runner     *runner.Runner
	provider   *corpus.Provider
	defaultTop int
	logger     *zap.Logger
}

// ModelInfo 参考模型信息
type ModelInfo struct {
	Path        string    `json:"path,omitempty"`
	Generation  int       `json:"generation"`
	Vocabulary  int       `json:"vocabulary"`
	TotalTokens int64     `json:"total_tokens"`
	BaseRate    float64   `json:"base_rate"`
	Smoothing   float64   `json:"smoothing"`
	Bias        float64   `json:"bias"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// NewScoreHandler 创建评分处理器
func NewScoreHandler(r *runner.Runner, provider *corpus.Provider, defaultTop int, logger *zap.Logger) *ScoreHandler {
	return &ScoreHandler{
		runner:     r,
		provider:   provider,
		defaultTop: defaultTop,
		logger:     logger,
	}
}

// HandleScore 处理亲和度评分请求
// @Summary 亲和度评分
// @Description 给出文档 token 对参考语料的典型程度
// @Tags 评分
// @Accept json
// @Produce json
// @Param request body api.ScoreRequest true "评分请求"
// @Success 200 {object} Response{data=api.ScoreResponse} "评分结果"
// @Failure 400 {object} Response "无效请求"
// @Failure 422 {object} Response "空文档"
// @Security ApiKeyAuth
// @Router /api/v1/score [post]
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	if !ValidateContentType(w, r, h.logger) {
		return
	}

	var req api.ScoreRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	model, generation, err := h.resolveModel(r, &req)
	if err != nil {
		handleRunError(w, r, err, h.logger)
		return
	}

	top := req.TopContributors
	if top == 0 {
		top = h.defaultTop
	}

	outcome, err := h.runner.Score(r.Context(), runner.ScoreRequest{
		Tokenizer:       req.Tokenizer,
		Model:           model,
		TopContributors: top,
		Sources: []runner.Source{
			{Name: "document", Reader: strings.NewReader(req.Document)},
		},
	})
	if err != nil {
		handleRunError(w, r, err, h.logger)
		return
	}

	WriteSuccess(w, r, &api.ScoreResponse{
		RunID:           outcome.RunID,
		Affinity:        outcome.Score.Affinity,
		Bias:            outcome.Score.Bias,
		MeanWeight:      outcome.Score.MeanWeight,
		DocumentTokens:  outcome.Score.DocumentTokens,
		UnknownTokens:   outcome.Score.UnknownTokens,
		Top:             outcome.Score.Top,
		Bottom:          outcome.Score.Bottom,
		ModelGeneration: generation,
		DurationMS:      durationMS(outcome.Elapsed),
	})
}

// HandleModelInfo 返回当前参考模型信息
// @Summary 参考模型信息
// @Description 返回服务端参考模型的词表规模与推导参数
// @Tags 评分
// @Produce json
// @Success 200 {object} Response{data=ModelInfo} "模型信息"
// @Failure 503 {object} Response "未配置参考模型"
// @Security ApiKeyAuth
// @Router /api/v1/model [get]
func (h *ScoreHandler) HandleModelInfo(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		WriteErrorMessage(w, r, http.StatusServiceUnavailable, types.ErrServiceUnavailable,
			"no reference model configured", h.logger)
		return
	}

	WriteSuccess(w, r, h.modelInfo())
}

// HandleModelReload 重新读取磁盘上的参考表
// @Summary 重载参考模型
// @Description 手动触发参考表重读；失败时保留旧模型
// @Tags 评分
// @Produce json
// @Success 200 {object} Response{data=ModelInfo} "重载后的模型信息"
// @Failure 503 {object} Response "未配置参考模型"
// @Security ApiKeyAuth
// @Router /api/v1/model/reload [post]
func (h *ScoreHandler) HandleModelReload(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		WriteErrorMessage(w, r, http.StatusServiceUnavailable, types.ErrServiceUnavailable,
			"no reference model configured", h.logger)
		return
	}

	if err := h.provider.Reload(); err != nil {
		handleRunError(w, r, err, h.logger)
		return
	}

	WriteSuccess(w, r, h.modelInfo())
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

// resolveModel 按优先级解析参考模型：内联参考文本、内联参考表、
// 服务端参考模型。返回的 generation 仅在使用服务端模型时非零。
func (h *ScoreHandler) resolveModel(r *http.Request, req *api.ScoreRequest) (*corpus.Model, int, error) {
	if req.Reference != "" && req.ReferenceTable != "" {
		return nil, 0, types.NewError(types.ErrInvalidRequest,
			"reference and reference_table are mutually exclusive")
	}

	modelCfg := corpus.ModelConfig{BaseRate: req.BaseRate, Smoothing: req.Smoothing}

	if req.Reference != "" {
		model, err := h.runner.BuildModel(r.Context(), req.Tokenizer, modelCfg,
			runner.Source{Name: "reference", Reader: strings.NewReader(req.Reference)})
		if err != nil {
			return nil, 0, err
		}
		return model, 0, nil
	}

	if req.ReferenceTable != "" {
		table, err := corpus.ReadTable(strings.NewReader(req.ReferenceTable))
		if err != nil {
			return nil, 0, err
		}
		model, err := corpus.NewModel(table, modelCfg)
		if err != nil {
			return nil, 0, err
		}
		return model, 0, nil
	}

	if h.provider == nil {
		return nil, 0, types.NewError(types.ErrInvalidRequest,
			"no reference: provide reference or reference_table, or configure a server reference model")
	}
	if req.BaseRate != 0 || req.Smoothing != 0 {
		return nil, 0, types.NewError(types.ErrInvalidRequest,
			"base_rate and smoothing require an inline reference")
	}

	return h.provider.Model(), h.provider.Generation(), nil
}

func (h *ScoreHandler) modelInfo() *ModelInfo {
	model := h.provider.Model()
	return &ModelInfo{
		Path:        h.provider.Path(),
		Generation:  h.provider.Generation(),
		Vocabulary:  model.Vocabulary(),
		TotalTokens: model.TotalTokens(),
		BaseRate:    model.BaseRate(),
		Smoothing:   model.Smoothing(),
		Bias:        model.Bias(),
		LoadedAt:    h.provider.LoadedAt(),
	}
}
