// Package metrics 提供诊断会话的 Prometheus 指标
//
// Reporter 实现 interfaces.MetricsReporter，记录：
//   - 探测次数（按类型与结果）
//   - 探测延迟直方图（按类型）
//   - 检查记录数（按严重度与类别）
//
// 指标注册到独立的 Registry，不污染全局默认注册表。
// 诊断工具是一次性进程，没有常驻 HTTP 端点，
// 因此会话结束时通过 WriteTextFile 输出 node_exporter textfile 格式。
//
// # 快速开始
//
//	r := metrics.NewReporter("linkdiag")
//	r.ObserveProbe(target, outcome)
//	r.ObserveCheck(rec)
//	_ = r.WriteTextFile("/var/lib/node_exporter/linkdiag.prom")
package metrics
