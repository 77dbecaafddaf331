// =============================================================================
// 📦 FreqFlow 配置加载器
// =============================================================================
// 统一配置加载，支持 .env 文件 + YAML 文件 + 环境变量覆盖
//
// 使用方法:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("config.yaml").
//	    WithEnvPrefix("FREQFLOW").
//	    Load()
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量（.env 文件并入环境变量层，
// 已存在的真实环境变量不会被 .env 覆盖）
// =============================================================================
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/BaSui01/freqflow/corpus"
	"github.com/BaSui01/freqflow/freq"
	"github.com/BaSui01/freqflow/tokenizer"
)

// =============================================================================
// 🎯 核心配置结构
// =============================================================================

// Config 是 FreqFlow 的完整配置结构
type Config struct {
	// App 应用配置
	App AppConfig `json:"app" yaml:"app" env:"APP"`

	// Tokenizer 分词器配置
	Tokenizer tokenizer.Config `json:"tokenizer" yaml:"tokenizer" env:"TOKENIZER"`

	// Report 频率报表配置
	Report freq.ReportOptions `json:"report" yaml:"report" env:"REPORT"`

	// Score 语料亲和度评分配置
	Score ScoreConfig `json:"score" yaml:"score" env:"SCORE"`

	// Server 服务器配置
	Server ServerConfig `json:"server" yaml:"server" env:"SERVER"`

	// Log 日志配置
	Log LogConfig `json:"log" yaml:"log" env:"LOG"`

	// Telemetry 遥测配置
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry" env:"TELEMETRY"`
}

// AppConfig 应用配置
type AppConfig struct {
	// 应用名称
	Name string `json:"name" yaml:"name" env:"NAME"`
	// 运行环境: development, production
	Environment string `json:"environment" yaml:"environment" env:"ENVIRONMENT"`
	// 空输入是否视为错误
	RequireNonEmpty bool `json:"require_non_empty" yaml:"require_non_empty" env:"REQUIRE_NON_EMPTY"`
}

// ScoreConfig 语料亲和度评分配置
type ScoreConfig struct {
	// 参考语料频率表路径（TSV）
	ReferencePath string `json:"reference_path" yaml:"reference_path" env:"REFERENCE_PATH"`
	// 目标基准率，0 表示使用模型默认值 1/(V+1)
	BaseRate float64 `json:"base_rate" yaml:"base_rate" env:"BASE_RATE"`
	// Laplace 平滑系数
	Smoothing float64 `json:"smoothing" yaml:"smoothing" env:"SMOOTHING"`
	// 评分结果中返回的高低贡献 token 数
	TopContributors int `json:"top_contributors" yaml:"top_contributors" env:"TOP_CONTRIBUTORS"`
	// 是否监听参考表文件变更并热重载模型
	WatchReference bool `json:"watch_reference" yaml:"watch_reference" env:"WATCH_REFERENCE"`
	// 文件变更轮询间隔
	WatchInterval time.Duration `json:"watch_interval" yaml:"watch_interval" env:"WATCH_INTERVAL"`
}

// ModelConfig 转换为语料模型配置
func (s ScoreConfig) ModelConfig() corpus.ModelConfig {
	return corpus.ModelConfig{
		BaseRate:  s.BaseRate,
		Smoothing: s.Smoothing,
	}
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// HTTP 端口
	HTTPPort int `json:"http_port" yaml:"http_port" env:"HTTP_PORT"`
	// Metrics 端口
	MetricsPort int `json:"metrics_port" yaml:"metrics_port" env:"METRICS_PORT"`
	// 读取超时
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" env:"READ_TIMEOUT"`
	// 写入超时
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	// 优雅关闭超时
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	// 限流速率（每秒请求数）
	RateLimitRPS int `json:"rate_limit_rps" yaml:"rate_limit_rps" env:"RATE_LIMIT_RPS"`
	// 限流突发容量
	RateLimitBurst int `json:"rate_limit_burst" yaml:"rate_limit_burst" env:"RATE_LIMIT_BURST"`
	// 合法 API Key 列表，为空时关闭认证
	APIKeys []string `json:"api_keys" yaml:"api_keys" env:"API_KEYS"`
	// 是否允许通过 query 参数传递 API Key
	AllowQueryAPIKey bool `json:"allow_query_api_key" yaml:"allow_query_api_key" env:"ALLOW_QUERY_API_KEY"`
	// CORS 允许的来源
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	// JWT 签名密钥，为空时关闭 JWT 认证
	JWTSecret string `json:"jwt_secret" yaml:"jwt_secret" env:"JWT_SECRET"`
}

// LogConfig 日志配置
type LogConfig struct {
	// 日志级别: debug, info, warn, error
	Level string `json:"level" yaml:"level" env:"LEVEL"`
	// 输出格式: json, console
	Format string `json:"format" yaml:"format" env:"FORMAT"`
	// 输出路径
	OutputPaths []string `json:"output_paths" yaml:"output_paths" env:"OUTPUT_PATHS"`
	// 是否启用调用者信息
	EnableCaller bool `json:"enable_caller" yaml:"enable_caller" env:"ENABLE_CALLER"`
	// 是否启用堆栈跟踪
	EnableStacktrace bool `json:"enable_stacktrace" yaml:"enable_stacktrace" env:"ENABLE_STACKTRACE"`
}

// TelemetryConfig 遥测配置
type TelemetryConfig struct {
	// 是否启用
	Enabled bool `json:"enabled" yaml:"enabled" env:"ENABLED"`
	// OTLP 端点
	OTLPEndpoint string `json:"otlp_endpoint" yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	// 服务名称
	ServiceName string `json:"service_name" yaml:"service_name" env:"SERVICE_NAME"`
	// 采样率
	SampleRate float64 `json:"sample_rate" yaml:"sample_rate" env:"SAMPLE_RATE"`
}

// =============================================================================
// 🔧 配置加载器
// =============================================================================

// Loader 配置加载器（Builder 模式）
type Loader struct {
	configPath string
	dotenvPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader 创建新的配置加载器
func NewLoader() *Loader {
	return &Loader{
		envPrefix:  "FREQFLOW",
		validators: make([]func(*Config) error, 0),
	}
}

// WithConfigPath 设置配置文件路径
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithDotenvPath 设置 .env 文件路径
func (l *Loader) WithDotenvPath(path string) *Loader {
	l.dotenvPath = path
	return l
}

// WithEnvPrefix 设置环境变量前缀
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator 添加配置验证器
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load 加载配置
// 优先级: 默认值 → YAML 文件 → 环境变量
func (l *Loader) Load() (*Config, error) {
	// 1. 从默认值开始
	cfg := DefaultConfig()

	// 2. 将 .env 文件并入进程环境（不覆盖已有变量）
	if err := l.loadDotenv(); err != nil {
		return nil, fmt.Errorf("failed to load dotenv file: %w", err)
	}

	// 3. 如果指定了配置文件，从文件加载
	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// 4. 从环境变量覆盖
	if err := l.loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// 5. 运行验证器
	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	return cfg, nil
}

// loadDotenv 加载 .env 文件
func (l *Loader) loadDotenv() error {
	if l.dotenvPath == "" {
		// 未指定时尝试当前目录的 .env，缺失不算错误
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(l.dotenvPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// loadFromFile 从 YAML 文件加载配置
func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 文件不存在，使用默认值
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// loadFromEnv 从环境变量加载配置
func (l *Loader) loadFromEnv(cfg *Config) error {
	return l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix)
}

// setFieldsFromEnv 递归设置结构体字段
func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		// 获取 env tag
		envTag := fieldType.Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}

		envKey := prefix + "_" + envTag

		// 如果是结构体，递归处理
		if field.Kind() == reflect.Struct {
			if err := l.setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		// 获取环境变量值
		envValue := os.Getenv(envKey)
		if envValue == "" {
			continue
		}

		// 设置字段值
		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s: %w", envKey, err)
		}
	}

	return nil
}

// setFieldValue 设置字段值
func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// 特殊处理 time.Duration
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(i)
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(u)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		// 支持逗号分隔的字符串切片
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}

	return nil
}

// =============================================================================
// 🔍 辅助函数
// =============================================================================

// MustLoad 加载配置，失败时 panic
func MustLoad(path string) *Config {
	cfg, err := NewLoader().WithConfigPath(path).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// LoadFromEnv 仅从环境变量加载配置
func LoadFromEnv() (*Config, error) {
	return NewLoader().Load()
}

// Validate 验证配置
func (c *Config) Validate() error {
	var errs []string

	// 验证服务器配置
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, "invalid HTTP port")
	}
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		errs = append(errs, "invalid metrics port")
	}
	if c.Server.RateLimitRPS <= 0 {
		errs = append(errs, "rate_limit_rps must be positive")
	}
	if c.Server.RateLimitBurst < c.Server.RateLimitRPS {
		errs = append(errs, "rate_limit_burst must be at least rate_limit_rps")
	}

	// 验证分词与报表配置
	if err := c.Tokenizer.WithDefaults().Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("tokenizer: %v", err))
	}
	if err := c.Report.WithDefaults().Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("report: %v", err))
	}

	// 验证评分配置
	if c.Score.BaseRate < 0 || c.Score.BaseRate >= 1 {
		errs = append(errs, "score base_rate must be in [0, 1)")
	}
	if c.Score.Smoothing < 0 {
		errs = append(errs, "score smoothing must not be negative")
	}
	if c.Score.TopContributors < 0 {
		errs = append(errs, "score top_contributors must not be negative")
	}
	if c.Score.WatchReference && c.Score.WatchInterval <= 0 {
		errs = append(errs, "score watch_interval must be positive when watching")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
