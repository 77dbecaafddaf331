package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BaSui01/freqflow/api/handlers"
	"github.com/BaSui01/freqflow/config"
	"github.com/BaSui01/freqflow/corpus"
	"github.com/BaSui01/freqflow/internal/metrics"
	"github.com/BaSui01/freqflow/internal/server"
	"github.com/BaSui01/freqflow/internal/telemetry"
	"github.com/BaSui01/freqflow/runner"
)

// =============================================================================
// 🖥️ Server 结构
// =============================================================================

// Server 是 FreqFlow 的主服务器
type Server struct {
	cfg        *config.Config
	configPath string
	logger     *zap.Logger
	telemetry  *telemetry.Providers

	// 服务器管理器
	httpManager    *server.Manager
	metricsManager *server.Manager

	// Handlers
	healthHandler  *handlers.HealthHandler
	analyzeHandler *handlers.AnalyzeHandler
	scoreHandler   *handlers.ScoreHandler
	configHandler  *handlers.ConfigHandler

	// 核心组件
	runner   *runner.Runner
	provider *corpus.Provider

	// 指标收集器
	metricsCollector *metrics.Collector

	// 后台任务生命周期管理（rate limiter 清理、参考表轮询、请求基础上下文）
	baseCtx    context.Context
	baseCancel context.CancelFunc

	wg sync.WaitGroup
}

// NewServer 创建新的服务器实例
func NewServer(cfg *config.Config, configPath string, logger *zap.Logger, otel *telemetry.Providers) *Server {
	return &Server{
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
		telemetry:  otel,
	}
}

// =============================================================================
// 🚀 启动流程
// =============================================================================

// Start 启动所有服务
func (s *Server) Start() error {
	s.baseCtx, s.baseCancel = context.WithCancel(context.Background())

	// 1. 初始化指标收集器
	s.metricsCollector = metrics.NewCollector("freqflow", s.logger)

	// 2. 加载参考模型（可选）
	if err := s.initModelProvider(); err != nil {
		return fmt.Errorf("failed to init reference model: %w", err)
	}

	// 3. 初始化 Runner 和 Handlers
	s.initRunner()
	s.initHandlers()

	// 4. 启动 HTTP 服务器
	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	// 5. 启动 Metrics 服务器
	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
		zap.Bool("reference_model_loaded", s.provider != nil),
	)

	return nil
}

// =============================================================================
// 🔧 初始化方法
// =============================================================================

// initModelProvider 从配置的参考表构建评分模型。
// 未配置路径时跳过，score 端点退化为仅接受内联参考。
func (s *Server) initModelProvider() error {
	if s.cfg.Score.ReferencePath == "" {
		s.logger.Info("no reference model configured, scoring requires inline references")
		return nil
	}

	provider, err := corpus.NewProvider(
		s.cfg.Score.ReferencePath,
		s.cfg.Score.ModelConfig(),
		corpus.WithProviderLogger(s.logger),
	)
	if err != nil {
		return err
	}
	s.provider = provider

	provider.OnReload(func(ev corpus.ReloadEvent) {
		s.metricsCollector.RecordModelReload(ev.Generation)
	})
	s.metricsCollector.RecordModelReload(provider.Generation())

	// 可选的 mtime 轮询热重载
	if s.cfg.Score.WatchReference {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := provider.Watch(s.baseCtx, s.cfg.Score.WatchInterval); err != nil {
				s.logger.Error("reference table watch stopped", zap.Error(err))
			}
		}()
	}

	s.logger.Info("Reference model loaded",
		zap.String("path", provider.Path()),
		zap.Int("vocabulary", provider.Model().Vocabulary()),
		zap.Int64("total_tokens", provider.Model().TotalTokens()),
		zap.Bool("watch", s.cfg.Score.WatchReference),
	)

	return nil
}

// initRunner 初始化分析编排器
func (s *Server) initRunner() {
	s.runner = runner.NewRunner(s.logger,
		runner.WithCollector(s.metricsCollector),
		runner.WithRequireNonEmpty(s.cfg.App.RequireNonEmpty),
	)
}

// initHandlers 初始化所有 handlers
func (s *Server) initHandlers() {
	// 健康检查 handler
	s.healthHandler = handlers.NewHealthHandler(s.logger)
	if s.provider != nil {
		s.healthHandler.RegisterCheck(handlers.NewPingCheck("reference_model", func(ctx context.Context) error {
			if s.provider.Model() == nil {
				return fmt.Errorf("reference model not loaded")
			}
			return nil
		}))
	}

	// 分析 / 评分 / 配置 handlers
	s.analyzeHandler = handlers.NewAnalyzeHandler(s.runner, s.logger)
	s.scoreHandler = handlers.NewScoreHandler(s.runner, s.provider, s.cfg.Score.TopContributors, s.logger)
	s.configHandler = handlers.NewConfigHandler(s.cfg, s.logger)

	s.logger.Info("Handlers initialized")
}

// =============================================================================
// 🌐 HTTP 服务器
// =============================================================================

// startHTTPServer 启动 HTTP 服务器
func (s *Server) startHTTPServer() error {
	mux := http.NewServeMux()

	// ========================================
	// 健康检查端点
	// ========================================
	mux.HandleFunc("/health", s.healthHandler.HandleHealth)
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealthz)
	mux.HandleFunc("/ready", s.healthHandler.HandleReady)
	mux.HandleFunc("/readyz", s.healthHandler.HandleReady)

	// 版本信息端点
	mux.HandleFunc("/version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	// ========================================
	// API 路由
	// ========================================
	mux.HandleFunc("/api/v1/analyze", s.analyzeHandler.HandleAnalyze)
	mux.HandleFunc("/api/v1/score", s.scoreHandler.HandleScore)
	mux.HandleFunc("/api/v1/model", s.scoreHandler.HandleModelInfo)
	mux.HandleFunc("/api/v1/model/reload", s.scoreHandler.HandleModelReload)
	mux.HandleFunc("/api/v1/config", s.configHandler.HandleConfig)

	// ========================================
	// 构建中间件链
	// ========================================
	handler := Chain(mux, s.buildMiddlewares()...)

	// ========================================
	// 使用 internal/server.Manager
	// ========================================
	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout, // 2x ReadTimeout
		MaxHeaderBytes:  1 << 20,                      // 1 MB
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.httpManager = server.NewManager("api", handler, serverConfig, s.logger)

	// 启动服务器（非阻塞）
	if err := s.httpManager.Start(s.baseCtx); err != nil {
		return err
	}

	s.logger.Info("HTTP server started", zap.Int("port", s.cfg.Server.HTTPPort))
	return nil
}

// buildMiddlewares 装配请求处理链，顺序即包裹顺序。
func (s *Server) buildMiddlewares() []Middleware {
	skipAuthPaths := []string{"/health", "/healthz", "/ready", "/readyz", "/version", "/metrics"}

	middlewares := []Middleware{
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.metricsCollector),
	}

	if s.telemetry.Enabled() {
		middlewares = append(middlewares, OTelTracing())
	}

	middlewares = append(middlewares,
		CORS(s.cfg.Server.CORSAllowedOrigins),
		RateLimiter(s.baseCtx, float64(s.cfg.Server.RateLimitRPS), s.cfg.Server.RateLimitBurst, s.logger),
		APIKeyAuth(s.cfg.Server.APIKeys, skipAuthPaths, s.cfg.Server.AllowQueryAPIKey, s.logger),
		JWTAuth(s.cfg.Server.JWTSecret, skipAuthPaths, s.logger),
	)

	return middlewares
}

// =============================================================================
// 📊 Metrics 服务器
// =============================================================================

// startMetricsServer 启动 Metrics 服务器
func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.metricsManager = server.NewManager("metrics", mux, serverConfig, s.logger)

	// 启动服务器（非阻塞）
	if err := s.metricsManager.Start(s.baseCtx); err != nil {
		return err
	}

	s.logger.Info("Metrics server started", zap.Int("port", s.cfg.Server.MetricsPort))
	return nil
}

// =============================================================================
// 🛑 关闭流程
// =============================================================================

// WaitForShutdown 等待关闭信号并优雅关闭
func (s *Server) WaitForShutdown() {
	// 使用 httpManager 的 WaitForShutdown（它会监听信号）
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}

	// 执行清理
	s.Shutdown()
}

// Shutdown 优雅关闭所有服务
func (s *Server) Shutdown() {
	s.logger.Info("Starting graceful shutdown...")

	ctx := context.Background()

	// 0. 停止后台任务（rate limiter 清理、参考表轮询）
	if s.baseCancel != nil {
		s.baseCancel()
	}

	// 1. 关闭 HTTP 服务器
	if s.httpManager != nil {
		if err := s.httpManager.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
	}

	// 2. 关闭 Metrics 服务器
	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}

	// 3. 关闭遥测导出器
	if s.telemetry != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := s.telemetry.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Telemetry shutdown error", zap.Error(err))
		}
		cancel()
	}

	// 4. 等待所有 goroutine 完成
	s.wg.Wait()

	s.logger.Info("Graceful shutdown completed")
}
