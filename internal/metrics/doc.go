// 版权所有 2024 FreqFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的全链路指标采集能力，覆盖
HTTP、运行、摄取、报表与评分五大维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
自动注册机制，避免手动管理 Registry。所有指标按 namespace 隔离，
支持多维度 label 分组，便于 Grafana 等工具进行可视化与告警。

# 核心类型

  - Collector：指标收集器，持有 Counter、Histogram、Gauge 等
    Prometheus 向量指标，按业务域分组管理。

# 主要能力

  - HTTP 指标：请求总数、请求耗时、请求/响应体大小，
    按 method/path/status 分组，状态码归类为 2xx/3xx/4xx/5xx。
  - 运行指标：分析与评分运行的总数和耗时，按 kind/status 分组。
  - 摄取指标：累计 token 摄取量与每次运行的去重 token 分布，
    按分词模式分组。
  - 报表指标：每份频率报表的条目数分布。
  - 评分指标：亲和度得分分布、参考模型热重载计数与当前代数。
*/
package metrics
