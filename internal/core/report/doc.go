// Package report 渲染诊断报告
//
// 文本格式包含编号状态表、分级汇总（通过/警告/失败/信息）与根因及处理建议，
// JSON 格式直接序列化 types.Report，供其他工具消费。
package report
