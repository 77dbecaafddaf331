// Copyright (c) FreqFlow Authors.
// Licensed under the MIT License.

/*
Package runner 提供分析与评分运行的编排层。

# 概述

runner 包把一次完整的运行串起来：校验分词与报表配置、为每个输入源
打开惰性 token 流、并发摄取进同一台频率引擎、生成报表或对参考模型
打分。每次运行分配 UUID 运行标识并写入 context，日志与指标按运行
维度记录。

# 核心类型

  - Runner：运行编排器，持有日志记录器、可选的指标收集器与
    空输入策略。
  - Source：命名输入源，Name 仅用于日志。
  - Request / Result：频率分析的请求与结果。
  - ScoreRequest / ScoreOutcome：亲和度评分的请求与结果。

# 主要能力

  - 频率分析：多源并发摄取，报表按配置排序截断，排名从 1 开始。
  - 亲和度评分：文档摄取后对注入的参考模型打分，返回得分明细
    与高低贡献 token。
  - 错误约定：配置问题返回 INVALID_CONFIG，空输入按策略返回
    EMPTY_INPUT，输入源的读取错误原样透传。
*/
package runner
