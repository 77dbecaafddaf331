// Package config 提供 FreqFlow 的配置管理功能。
//
// 包含配置加载、默认值和脱敏视图。
// 支持从 .env 文件、YAML 文件和环境变量加载配置，
// 并按 默认值 → YAML → 环境变量 的优先级合并。
package config
