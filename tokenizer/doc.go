// Package tokenizer 提供可配置的惰性分词器，
// 支持 character / word / ngram 三种模式，对任意 io.Reader 单遍流式产出 Token。
// 读取错误原样透传，不做包装。
package tokenizer
