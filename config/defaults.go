// =============================================================================
// 📦 FreqFlow 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import (
	"time"

	"github.com/BaSui01/freqflow/corpus"
	"github.com/BaSui01/freqflow/freq"
	"github.com/BaSui01/freqflow/tokenizer"
)

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		App:       DefaultAppConfig(),
		Tokenizer: DefaultTokenizerConfig(),
		Report:    DefaultReportOptions(),
		Score:     DefaultScoreConfig(),
		Server:    DefaultServerConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultAppConfig 返回默认应用配置
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Name:            "freqflow",
		Environment:     "development",
		RequireNonEmpty: false,
	}
}

// DefaultTokenizerConfig 返回默认分词器配置
func DefaultTokenizerConfig() tokenizer.Config {
	return tokenizer.Config{
		Mode:             tokenizer.ModeWord,
		CaseFold:         true,
		StripPunctuation: true,
	}
}

// DefaultReportOptions 返回默认报表配置
func DefaultReportOptions() freq.ReportOptions {
	return freq.ReportOptions{
		TopN:  0,
		Order: freq.OrderDescending,
	}
}

// DefaultScoreConfig 返回默认评分配置
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		ReferencePath:   "",
		BaseRate:        0,
		Smoothing:       corpus.DefaultSmoothing,
		TopContributors: 10,
		WatchReference:  false,
		WatchInterval:   5 * time.Second,
	}
}

// DefaultServerConfig 返回默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8080,
		MetricsPort:     9091,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		RateLimitRPS:    100,
		RateLimitBurst:  200,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "freqflow",
		SampleRate:   0.1,
	}
}
