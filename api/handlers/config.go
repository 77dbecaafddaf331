package handlers

import (
	"net/http"

	"github.com/BaSui01/freqflow/config"
	"go.uber.org/zap"
)

// =============================================================================
// ⚙️ 配置查看 Handler
// =============================================================================

// ConfigHandler 只读配置查看处理器，敏感字段在输出前脱敏
type ConfigHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewConfigHandler 创建配置查看处理器
func NewConfigHandler(cfg *config.Config, logger *zap.Logger) *ConfigHandler {
	return &ConfigHandler{
		cfg:    cfg,
		logger: logger,
	}
}

// HandleConfig 处理配置查看请求
// @Summary 查看生效配置
// @Description 返回脱敏后的完整生效配置
// @Tags 配置
// @Produce json
// @Success 200 {object} Response{data=map[string]interface{}} "脱敏配置"
// @Security ApiKeyAuth
// @Router /api/v1/config [get]
func (h *ConfigHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.cfg.Sanitized())
}
