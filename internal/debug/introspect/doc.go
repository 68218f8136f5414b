// Package introspect 提供本地自省 HTTP 服务
//
// 持续监测（watch）模式下，每完成一次诊断会话就通过 Publish 更新
// 最近一次报告；服务同时暴露 Prometheus 指标与运行时信息。
// 默认绑定到 127.0.0.1，不暴露到网络。
//
// # 端点
//
//	GET /debug/introspect         - 概览：运行时长、会话计数、最近报告 (JSON)
//	GET /debug/introspect/report  - 最近一次诊断报告 (JSON)
//	GET /debug/introspect/runtime - Go 运行时信息
//	GET /metrics                  - Prometheus 指标
//	GET /debug/pprof/*            - Go pprof 端点
//	GET /health                   - 健康检查，最近一次结论为 FAIL 时为 degraded
//
// # 使用示例
//
//	server := introspect.New(introspect.Config{
//	    Addr:     "127.0.0.1:6060",
//	    Gatherer: reporter.Registry(),
//	})
//	server.Start(ctx)
//	defer server.Stop()
//
//	server.Publish(report)
package introspect
