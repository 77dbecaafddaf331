// =============================================================================
// FreqFlow 主入口
// =============================================================================
// 完整程序入口点，包含一次性分析命令、HTTP 服务、健康检查、Prometheus 指标
//
// 使用方法:
//
//	freqflow analyze report.txt              # 词频报表（文件）
//	cat report.txt | freqflow analyze        # 词频报表（stdin）
//	freqflow score --reference ref.txt doc.txt  # 文档亲和度评分
//	freqflow serve                           # 启动服务
//	freqflow serve --config config.yaml      # 指定配置文件
//	freqflow version                         # 显示版本信息
//	freqflow health                          # 健康检查
// =============================================================================

// @title FreqFlow API
// @version 1.0.0
// @description FreqFlow is a streaming frequency-analysis engine with configurable tokenization and corpus affinity scoring.
// @description
// @description ## Features
// @description - Word, character, and n-gram tokenization with Unicode normalization
// @description - Concurrent multi-source ingestion into one frequency table
// @description - Corpus affinity scoring with per-token contribution breakdowns
// @description - Hot-reloadable reference models
// @description - Health monitoring and metrics

// @contact.name FreqFlow Team
// @contact.url https://github.com/BaSui01/freqflow

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for authentication

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/freqflow/config"
	"github.com/BaSui01/freqflow/internal/telemetry"
	"github.com/BaSui01/freqflow/internal/tlsutil"
)

// =============================================================================
// 📦 版本信息（构建时注入）
// =============================================================================

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// =============================================================================
// 🎯 主函数
// =============================================================================

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		os.Exit(runAnalyze(os.Args[2:]))
	case "score":
		os.Exit(runScore(os.Args[2:]))
	case "serve":
		runServe(os.Args[2:])
	case "version":
		printVersion()
	case "health":
		runHealthCheck(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// =============================================================================
// 🖥️ serve 命令
// =============================================================================

func runServe(args []string) {
	// 解析命令行参数
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	// 加载配置
	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}

	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 验证配置
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := initLogger(cfg.Log)
	defer logger.Sync()

	logger.Info("Starting FreqFlow",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	// Initialize OpenTelemetry
	otelProviders, err := telemetry.Init(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
	}

	// 创建服务器
	server := NewServer(cfg, *configPath, logger, otelProviders)

	// 启动服务器
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	// 等待关闭信号
	server.WaitForShutdown()

	logger.Info("FreqFlow stopped")
}

// =============================================================================
// 🏥 健康检查命令
// =============================================================================

func runHealthCheck(args []string) {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	addr := fs.String("addr", "http://localhost:8080", "Server address")
	fs.Parse(args)

	client := tlsutil.SecureHTTPClient(5 * time.Second)
	resp, err := client.Get(*addr + "/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: status %d\n", resp.StatusCode)
		os.Exit(1)
	}

	fmt.Println("OK")
}

// =============================================================================
// 📋 版本和帮助
// =============================================================================

func printVersion() {
	fmt.Printf("FreqFlow %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`FreqFlow - Frequency Analysis Engine

Usage:
  freqflow <command> [options]

Commands:
  analyze   Tokenize input and print a frequency report
  score     Score a document against a reference corpus
  serve     Start the FreqFlow server
  version   Show version information
  health    Check server health
  help      Show this help message

Options for 'analyze':
  --mode <m>            Tokenizer mode: character, word, ngram
  --ngram-size <n>      Window size for ngram mode
  --ngram-unit <u>      Window unit for ngram mode: characters, words
  --fold                Lowercase tokens (Unicode case folding)
  --strip-punct         Strip leading/trailing punctuation from tokens
  --top <n>             Keep only the N most frequent tokens (0 = all)
  --order <o>           Sort order: desc, asc
  --format <f>          Output format: tsv, table, json
  --html                Strip HTML markup before tokenizing
  --require-nonempty    Fail when input yields zero tokens
  --config <path>       Path to configuration file (YAML)

Options for 'score':
  --reference <path>        Reference corpus as raw text
  --reference-table <path>  Reference corpus as token<TAB>count TSV
  --base-rate <p>           Prior probability for the affinity model
  --smoothing <a>           Laplace smoothing constant
  --top <n>                 Contributor breakdown size (0 = server default)
  --format <f>              Output format: json, table
  (analyze tokenizer flags also apply)

Options for 'serve':
  --config <path>   Path to configuration file (YAML)

Examples:
  freqflow analyze --mode word --top 20 corpus.txt
  cat page.html | freqflow analyze --html --format table
  freqflow score --reference-table reference.tsv document.txt
  freqflow serve --config /etc/freqflow/config.yaml
  freqflow health --addr http://localhost:8080
  freqflow version`)
}

// =============================================================================
// 🔧 日志初始化
// =============================================================================

func initLogger(cfg config.LogConfig) *zap.Logger {
	// 解析日志级别
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	// 配置编码器
	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	// 构建配置
	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Format == "console",
		Encoding:         cfg.Format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	var opts []zap.Option
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	if cfg.EnableStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	// 构建 logger
	logger, err := zapConfig.Build(opts...)
	if err != nil {
		// 回退到基本 logger
		logger, _ = zap.NewProduction()
	}

	return logger
}

// cliLogger 构建一次性命令使用的 logger。
// 日志统一写 stderr，避免污染 stdout 上的报表输出。
func cliLogger(cfg config.LogConfig) *zap.Logger {
	cfg.OutputPaths = []string{"stderr"}
	return initLogger(cfg)
}
