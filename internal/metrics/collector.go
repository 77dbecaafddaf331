// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 指标收集器
type Collector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRequestSize     *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 运行指标
	runsTotal   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec

	// 摄取与报表指标
	tokensIngested *prometheus.CounterVec
	distinctTokens *prometheus.HistogramVec
	reportEntries  prometheus.Histogram

	// 评分指标
	affinityScore   prometheus.Histogram
	modelReloads    prometheus.Counter
	modelGeneration prometheus.Gauge

	logger *zap.Logger
}

// NewCollector 创建指标收集器
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	// HTTP 指标
	c.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.httpRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_size_bytes",
			Help:      "HTTP request size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	c.httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// 运行指标
	c.runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of analysis runs",
		},
		[]string{"kind", "status"}, // kind: analyze, score
	)

	c.runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Analysis run duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// 摄取与报表指标
	c.tokensIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_ingested_total",
			Help:      "Total number of tokens ingested",
		},
		[]string{"mode"}, // mode: character, word, ngram
	)

	c.distinctTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "distinct_tokens",
			Help:      "Distinct tokens per run",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"mode"},
	)

	c.reportEntries = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_entries",
			Help:      "Entries per frequency report",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	// 评分指标
	c.affinityScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "affinity_score",
			Help:      "Corpus affinity score distribution",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	c.modelReloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_reloads_total",
			Help:      "Total number of reference model reloads",
		},
	)

	c.modelGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_generation",
			Help:      "Current reference model generation",
		},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// =============================================================================
// 🎯 HTTP 指标记录
// =============================================================================

// RecordHTTPRequest 记录 HTTP 请求
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration, requestSize, responseSize int64) {
	c.httpRequestsTotal.WithLabelValues(method, path, statusCode(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	c.httpRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	c.httpResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// =============================================================================
// 🏃 运行指标记录
// =============================================================================

// RecordRun 记录一次分析或评分运行
func (c *Collector) RecordRun(kind, status string, duration time.Duration) {
	c.runsTotal.WithLabelValues(kind, status).Inc()
	c.runDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordIngestion 记录一次摄取的 token 量
func (c *Collector) RecordIngestion(mode string, total, distinct int64) {
	c.tokensIngested.WithLabelValues(mode).Add(float64(total))
	c.distinctTokens.WithLabelValues(mode).Observe(float64(distinct))
}

// RecordReport 记录报表条目数
func (c *Collector) RecordReport(entries int) {
	c.reportEntries.Observe(float64(entries))
}

// =============================================================================
// 📈 评分指标记录
// =============================================================================

// RecordScore 记录亲和度得分
func (c *Collector) RecordScore(affinity float64) {
	c.affinityScore.Observe(affinity)
}

// RecordModelReload 记录参考模型热重载
func (c *Collector) RecordModelReload(generation int) {
	c.modelReloads.Inc()
	c.modelGeneration.Set(float64(generation))
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

// statusCode 将 HTTP 状态码转换为字符串
func statusCode(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
