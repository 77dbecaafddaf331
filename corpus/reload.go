// 参考模型热重载。
//
// 长驻评分服务的参考频率表通常由离线任务重写，Provider 轮询文件
// 变更并在新表通过校验后原子替换模型，失败时继续持有旧模型。
package corpus

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/freqflow/types"
)

// ReloadEvent 描述一次成功的模型替换
type ReloadEvent struct {
	// 参考表文件路径
	Path string `json:"path"`
	// 模型代数，从 1 开始
	Generation int `json:"generation"`
	// 参考词表大小
	Vocabulary int `json:"vocabulary"`
	// 参考表 token 总量
	TotalTokens int64 `json:"total_tokens"`
	// 替换时间
	LoadedAt time.Time `json:"loaded_at"`
}

// Provider 持有当前参考模型并支持热重载
type Provider struct {
	mu sync.RWMutex

	path string
	cfg  ModelConfig

	model      *Model
	generation int
	loadedAt   time.Time
	lastMod    time.Time

	callbacks []func(ReloadEvent)
	logger    *zap.Logger
}

// ProviderOption 配置 Provider
type ProviderOption func(*Provider)

// WithProviderLogger 设置日志记录器
func WithProviderLogger(logger *zap.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = logger
	}
}

// NewProvider 读取 path 的参考表并构建初始模型。
// 初始加载失败直接返回错误，不会产生空 Provider。
func NewProvider(path string, cfg ModelConfig, opts ...ProviderOption) (*Provider, error) {
	p := &Provider{
		path:   path,
		cfg:    cfg,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := p.Reload(); err != nil {
		return nil, err
	}

	return p, nil
}

// Model 返回当前模型
func (p *Provider) Model() *Model {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

// Generation 返回当前模型代数，从 1 开始
func (p *Provider) Generation() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.generation
}

// LoadedAt 返回当前模型的加载时间
func (p *Provider) LoadedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loadedAt
}

// Path 返回参考表文件路径
func (p *Provider) Path() string {
	return p.path
}

// OnReload 注册模型替换后的回调
func (p *Provider) OnReload(fn func(ReloadEvent)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callbacks = append(p.callbacks, fn)
}

// Reload 重新读取参考表并替换模型。
// 读取、解析或建模失败时保留旧模型并返回错误。
func (p *Provider) Reload() error {
	f, err := os.Open(p.path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	table, err := ReadTable(f)
	if err != nil {
		return err
	}

	model, err := NewModel(table, p.cfg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.model = model
	p.generation++
	p.loadedAt = time.Now()
	p.lastMod = info.ModTime()

	event := ReloadEvent{
		Path:        p.path,
		Generation:  p.generation,
		Vocabulary:  model.Vocabulary(),
		TotalTokens: model.TotalTokens(),
		LoadedAt:    p.loadedAt,
	}
	callbacks := make([]func(ReloadEvent), len(p.callbacks))
	copy(callbacks, p.callbacks)
	p.mu.Unlock()

	p.logger.Info("reference model loaded",
		zap.String("path", p.path),
		zap.Int("generation", event.Generation),
		zap.Int("vocabulary", event.Vocabulary),
		zap.Int64("total_tokens", event.TotalTokens))

	for _, fn := range callbacks {
		fn(event)
	}

	return nil
}

// Watch 轮询参考表文件，修改时间前移后触发重载。
// 阻塞直到 ctx 结束，正常关停返回 nil。
// 重载失败只记录日志，当前模型继续服务。
func (p *Provider) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return types.NewError(types.ErrInvalidConfig, "watch interval must be positive")
	}

	p.logger.Info("watching reference table",
		zap.String("path", p.path),
		zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.checkOnce()
		}
	}
}

// checkOnce 比较修改时间，文件前移时重载
func (p *Provider) checkOnce() {
	info, err := os.Stat(p.path)
	if err != nil {
		// 原子替换窗口内文件可能短暂缺失，保留当前模型
		p.logger.Warn("reference table stat failed",
			zap.String("path", p.path),
			zap.Error(err))
		return
	}

	p.mu.RLock()
	lastMod := p.lastMod
	p.mu.RUnlock()

	if !info.ModTime().After(lastMod) {
		return
	}

	if err := p.Reload(); err != nil {
		p.logger.Error("reference table reload failed, keeping previous model",
			zap.String("path", p.path),
			zap.Error(err))
	}
}
