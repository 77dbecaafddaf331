// Package corpus 提供基于参考频率表的词元亲和度评分。
//
// Model 从一张参考频率表推导每个 Token 的对数几率权重（Laplace 平滑），
// Score 将文档的 Token 分布映射为 (0,1) 区间的 Affinity 概率，
// 表示文档的用词与参考语料的接近程度。模型只在单次运行内存活，
// 参考表以输入的形式按次加载，不做任何持久化。
package corpus
