package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BaSui01/freqflow/api"
	"github.com/BaSui01/freqflow/runner"
	"github.com/BaSui01/freqflow/types"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 频率分析接口 Handler
// =============================================================================

// AnalyzeHandler 频率分析接口处理器
type AnalyzeHandler struct {
	runner *runner.Runner
	logger *zap.Logger
}

// NewAnalyzeHandler 创建频率分析处理器
func NewAnalyzeHandler(r *runner.Runner, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		runner: r,
		logger: logger,
	}
}

// HandleAnalyze 处理频率分析请求
// @Summary 频率分析
// @Description 对提交的文本做分词、计数并返回排序报表
// @Tags 分析
// @Accept json
// @Produce json
// @Param request body api.AnalyzeRequest true "分析请求"
// @Success 200 {object} Response{data=api.AnalyzeResponse} "分析结果"
// @Failure 400 {object} Response "无效请求"
// @Failure 422 {object} Response "空输入"
// @Security ApiKeyAuth
// @Router /api/v1/analyze [post]
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !ValidateContentType(w, r, h.logger) {
		return
	}

	var req api.AnalyzeRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	sources, apiErr := analyzeSources(&req)
	if apiErr != nil {
		WriteError(w, r, apiErr, h.logger)
		return
	}

	result, err := h.runner.Run(r.Context(), runner.Request{
		Tokenizer:       req.Tokenizer,
		Report:          req.Report,
		Sources:         sources,
		RequireNonEmpty: req.RequireNonEmpty,
	})
	if err != nil {
		handleRunError(w, r, err, h.logger)
		return
	}

	WriteSuccess(w, r, &api.AnalyzeResponse{
		RunID:          result.RunID,
		TotalTokens:    result.Total,
		DistinctTokens: result.Distinct,
		Entries:        result.Entries,
		DurationMS:     durationMS(result.Elapsed),
	})
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

// analyzeSources 将请求文本展开为命名输入源。
// text 与 texts 互斥，且必须提供其一。
func analyzeSources(req *api.AnalyzeRequest) ([]runner.Source, *types.Error) {
	if req.Text != "" && len(req.Texts) > 0 {
		return nil, types.NewError(types.ErrInvalidRequest, "text and texts are mutually exclusive")
	}

	if req.Text != "" {
		return []runner.Source{{Name: "text", Reader: strings.NewReader(req.Text)}}, nil
	}

	if len(req.Texts) == 0 {
		return nil, types.NewError(types.ErrInvalidRequest, "either text or texts is required")
	}

	sources := make([]runner.Source, len(req.Texts))
	for i, text := range req.Texts {
		sources[i] = runner.Source{
			Name:   fmt.Sprintf("texts[%d]", i),
			Reader: strings.NewReader(text),
		}
	}
	return sources, nil
}

// handleRunError 将运行错误写为 API 响应。
// 结构化错误按错误码映射状态码，其余包装为内部错误。
func handleRunError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	if typedErr, ok := err.(*types.Error); ok {
		WriteError(w, r, typedErr, logger)
		return
	}

	internalErr := types.NewError(types.ErrInternalError, "run failed").
		WithCause(err).
		WithRetryable(false)

	WriteError(w, r, internalErr, logger)
}

// durationMS 将耗时换算为毫秒
func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
