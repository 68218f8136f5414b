// Package sampler 将单次探测重复执行为有序采样序列
//
// 采样按次数或按墙钟时长进行（二者取其一）：
//   - 每次探测都受显式超时约束，单个挂起的探测不会拖住采样
//   - 探测 panic 被转为失败样本，采样从不因单次错误中止
//   - 样本之间检查调用方的 ctx，取消后返回已采集的部分序列
//
// Burst 在令牌桶节奏下并发发出探测，用于识别上游限速。
package sampler
