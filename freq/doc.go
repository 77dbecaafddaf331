// Copyright (c) FreqFlow Authors.
// Licensed under the MIT License.

/*
Package freq 提供频率统计引擎。

# 概述

freq 包实现了 FreqFlow 的核心计数与报表系统：Engine 持有单次运行内的
频率表，从任意 TokenStream 消费 Token，支持多流并发摄取，并按需生成
排序报表。频率表随 Engine 生命周期存在，运行结束即销毁，不做任何持久化。

# 核心类型

  - Engine        — 频率统计引擎（Ingest / IngestAll / Report / Reset）
  - Entry         — 报表行（Rank + Token + Count）
  - ReportOptions — 报表参数（TopN 截断 + 排序方向）
  - Table         — 某一时刻频率表的不可变快照
  - Order         — 排序方向（desc / asc），并列时按 Token 字典序升序

# 主要能力

  - 单遍摄取：Ingest 完整消费一条惰性流，中途失败时已产出的 Token
    仍会计入，错误原样返回
  - 并发摄取：IngestAll 基于 errgroup 并发消费多条流，各自的局部表
    在完成时合并，首个错误取消其余流
  - 报表生成：每次调用基于加锁快照重新计算，互不影响；TopN 在排序后
    截断，Rank 为截断后序列中的 1 起始位置
  - 计数守恒：TotalTokens 恒等于表中各 Count 之和
*/
package freq
