// Copyright (c) FreqFlow Authors.
// Licensed under the MIT License.

/*
Package main 提供 FreqFlow 服务端与命令行程序入口。

# 概述

cmd/freqflow 是 FreqFlow 频率分析引擎的可执行入口，提供一次性分析命令
（analyze、score）、HTTP API 服务（serve）、健康检查和版本查询等子命令。
程序支持 YAML 配置文件加载、结构化日志（zap）、Prometheus 指标采集以及
参考模型热重载。

# 核心类型

  - Server           — 主服务器，管理 HTTP、Metrics 双端口及优雅关闭
  - Middleware        — HTTP 中间件函数签名 func(http.Handler) http.Handler
  - responseWriter    — 包装 http.ResponseWriter 以捕获状态码

# 主要能力

  - 子命令：analyze（词频报表）、score（亲和度评分）、serve（启动服务）、
    version、health
  - 中间件链：Recovery、RequestID、SecurityHeaders、RequestLogger、
    MetricsMiddleware、OTelTracing、CORS、RateLimiter（基于 IP）、
    APIKeyAuth（X-API-Key / query 参数）、JWTAuth（HS256）
  - 参考模型：启动时从 TSV 参考表构建，可选 mtime 轮询自动重载
  - Metrics 服务器：独立端口暴露 /metrics（Prometheus）
  - 优雅关闭：信号监听 → 取消后台任务 → 关闭 HTTP → 关闭 Metrics → Wait
  - 构建注入：Version、BuildTime、GitCommit 通过 ldflags 设置
*/
package main
