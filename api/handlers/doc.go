// Copyright (c) FreqFlow Authors.
// Licensed under the MIT License.

/*
Package handlers 提供 FreqFlow HTTP API 的请求处理器实现。

# 概述

handlers 包实现了 FreqFlow 所有 HTTP 端点的请求处理逻辑，
包括频率分析、亲和度评分、参考模型管理、健康检查以及统一的
响应/错误处理。所有 Handler 均遵循标准 net/http 接口。

# 核心类型

  - AnalyzeHandler   — 频率分析处理器（POST /api/v1/analyze）
  - ScoreHandler     — 亲和度评分与参考模型管理（/api/v1/score, /api/v1/model）
  - ConfigHandler    — 脱敏配置查看（GET /api/v1/config）
  - HealthHandler    — 服务健康检查（/health, /healthz, /ready, /version）
  - Response         — 统一 JSON 响应结构（success + data + error + timestamp）
  - ErrorInfo        — 结构化错误信息，含 code、message、retryable 标记
  - ResponseWriter   — 包装 http.ResponseWriter 以捕获状态码与响应体大小
  - HealthCheck      — 可插拔健康检查接口（PingCheck 适配任意探测函数）

# 主要能力

  - 统一响应格式：WriteSuccess / WriteError / WriteJSON 辅助函数
  - 请求验证：DecodeJSONBody（1 MB 限制 + 严格模式）、ValidateContentType
  - ErrorCode → HTTP 状态码自动映射（INVALID_* 400、EMPTY_INPUT 422 等）
  - 评分参考解析：请求内联文本 / 内联参考表 / 服务端参考模型三级回退
  - 参考模型运维：查看当前模型、手动触发重载
  - 可扩展健康检查：RegisterCheck 注册自定义 HealthCheck 实现
*/
package handlers
