// Package stats 把采样序列归约为丢包率、延迟、抖动与连续中断结构
//
// 聚合规则：
//   - successCount + failCount = total
//   - successRatePct = round(success/total*100, 1)，total 为 0 时为 0
//   - 延迟统计只看成功样本，无成功样本时全部为 0
//   - jitter = max - min（成功样本）
//   - 一次线性扫描得到所有 DropEvent，最长者即 maxConsecutiveFailures
package stats
