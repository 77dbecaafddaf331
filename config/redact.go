// =============================================================================
// 📦 FreqFlow 配置脱敏视图
// =============================================================================
// 为配置 API 提供脱敏后的只读配置副本
// =============================================================================
package config

import (
	"encoding/json"
	"strings"
)

// sensitiveKeys 命中即脱敏的字段名片段
var sensitiveKeys = []string{
	"password",
	"api_key",
	"apikey",
	"secret",
	"token",
	"credential",
}

// Sanitized 返回脱敏后的配置副本
func (c *Config) Sanitized() map[string]any {
	data, err := json.Marshal(c)
	if err != nil {
		return nil
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}

	redactSensitiveFields(result)

	return result
}

// redactSensitiveFields 递归地脱敏敏感字段
func redactSensitiveFields(data map[string]any) {
	for key, value := range data {
		if isSensitiveKey(key) {
			switch v := value.(type) {
			case string:
				if v != "" {
					data[key] = "[REDACTED]"
				}
			case []any:
				// API Key 列表按元素脱敏，保留数量信息
				redacted := make([]any, len(v))
				for i := range v {
					redacted[i] = "[REDACTED]"
				}
				data[key] = redacted
			}
			continue
		}

		// 递归到嵌套结构
		if nested, ok := value.(map[string]any); ok {
			redactSensitiveFields(nested)
		}
	}
}

// isSensitiveKey 检查字段名是否包含敏感片段
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
