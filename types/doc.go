// Copyright (c) FreqFlow Authors.
// Licensed under the MIT License.

/*
Package types 提供 FreqFlow 引擎的全局共享类型定义。

# 概述

types 是引擎最底层的公共包，不依赖任何内部包，为 tokenizer、freq、corpus、
runner、api 等上层模块提供统一的类型契约。所有跨包共享的接口、结构体、
枚举和错误码均定义于此，以避免循环依赖。

# 核心接口与类型

  - Token             — 分词单元（字符、词或 n-gram）
  - TokenStream       — 惰性单遍 Token 流（Next() 返回 io.EOF 结束）
  - SliceStream       — 内存切片到 TokenStream 的适配器
  - Error / ErrorCode — 结构化错误体系，含 HTTP 状态码、Retryable、Source 标记

# 主要能力

  - Context 传播：WithRunID / WithRequestID / WithClientIP / WithSource
  - 错误工具链：IsErrorCode / IsRetryable / GetErrorCode
  - 错误约定：输入源的读取错误从不包装为 Error，原样向调用方传播
*/
package types
