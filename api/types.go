package api

import (
	"github.com/BaSui01/freqflow/corpus"
	"github.com/BaSui01/freqflow/freq"
	"github.com/BaSui01/freqflow/tokenizer"
)

// =============================================================================
// 分析接口类型
// =============================================================================

// TokenizerOptions is a type alias for tokenizer.Config to avoid duplicate
// definitions. The canonical definition lives in tokenizer.Config
// (tokenizer/tokenizer.go); its json tags already describe the wire form.
type TokenizerOptions = tokenizer.Config

// ReportOptions is a type alias for freq.ReportOptions. The canonical
// definition lives in freq/report.go.
type ReportOptions = freq.ReportOptions

// AnalyzeRequest 代表一次频率分析请求。
// Text 与 Texts 必须恰好提供其一；多段文本摄取进同一张频率表。
// @Description 频率分析请求结构
type AnalyzeRequest struct {
	// 单段输入文本
	Text string `json:"text,omitempty" example:"the cat and the hat"`
	// 多段输入文本，并发摄取
	Texts []string `json:"texts,omitempty"`
	// 分词器配置
	Tokenizer TokenizerOptions `json:"tokenizer"`
	// 报表配置（top_n、order）
	Report ReportOptions `json:"report,omitempty"`
	// 零 token 摄取视为 EMPTY_INPUT（422）
	RequireNonEmpty bool `json:"require_non_empty,omitempty" example:"false"`
}

// AnalyzeResponse 代表一次频率分析结果。
// @Description 频率分析响应结构
type AnalyzeResponse struct {
	// 本次运行的唯一标识
	RunID string `json:"run_id" example:"8f14e45f-ceea-4672-a2f5-4d9b1c0a7f3e"`
	// 摄取的 token 总量
	TotalTokens int64 `json:"total_tokens" example:"5"`
	// 去重后的 token 数
	DistinctTokens int `json:"distinct_tokens" example:"4"`
	// 排序截断后的报表条目
	Entries []freq.Entry `json:"entries"`
	// 运行耗时（毫秒）
	DurationMS float64 `json:"duration_ms" example:"1.42"`
}

// =============================================================================
// 评分接口类型
// =============================================================================

// ScoreRequest 代表一次亲和度评分请求。
//
// 参考语料按优先级取自三处之一：Reference（原始文本，与文档共用同一
// 分词器配置）、ReferenceTable（token<TAB>count 报表文本）、或服务端
// 配置的参考模型。BaseRate / Smoothing 仅对请求内联的参考生效。
// @Description 亲和度评分请求结构
type ScoreRequest struct {
	// 待评分文档
	Document string `json:"document" example:"alpha beta"`
	// 内联参考文本
	Reference string `json:"reference,omitempty"`
	// 内联参考表，token<TAB>count 每行一条
	ReferenceTable string `json:"reference_table,omitempty"`
	// 分词器配置
	Tokenizer TokenizerOptions `json:"tokenizer"`
	// 先验概率，零取默认 1/(V+1)
	BaseRate float64 `json:"base_rate,omitempty" example:"0.05"`
	// Laplace 平滑常数，零取默认 1
	Smoothing float64 `json:"smoothing,omitempty" example:"1"`
	// 贡献清单长度，零取服务端默认
	TopContributors int `json:"top_contributors,omitempty" example:"10"`
}

// ScoreResponse 代表一次亲和度评分结果。
// @Description 亲和度评分响应结构
type ScoreResponse struct {
	// 本次运行的唯一标识
	RunID string `json:"run_id"`
	// 亲和度，sigmoid(bias + mean weight)，取值 (0,1)
	Affinity float64 `json:"affinity" example:"0.73"`
	// 先验的对数几率
	Bias float64 `json:"bias"`
	// 文档 token 的平均权重
	MeanWeight float64 `json:"mean_weight"`
	// 文档 token 总量
	DocumentTokens int64 `json:"document_tokens" example:"2"`
	// 参考未见过的 token 量
	UnknownTokens int64 `json:"unknown_tokens" example:"0"`
	// 拉高分数最多的 token
	Top []corpus.Contribution `json:"top_contributors,omitempty"`
	// 拉低分数最多的 token
	Bottom []corpus.Contribution `json:"bottom_contributors,omitempty"`
	// 使用服务端参考模型时的模型代数
	ModelGeneration int `json:"model_generation,omitempty" example:"1"`
	// 运行耗时（毫秒）
	DurationMS float64 `json:"duration_ms"`
}
