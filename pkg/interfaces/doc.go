// Package interfaces 定义诊断核心依赖的外部协作者契约
//
// 核心只消费最小能力面：
//   - Prober: 单次 ICMP/TCP/DNS/STUN 探测
//   - AdapterSelector / LinkMonitor: 适配器选择与链路状态
//   - CredentialSource / Authenticator: 会话凭据与认证
//   - SessionInspector: 会话接口检查
//   - SystemInspector: 主机系统检查
//   - LogSink: 进度/审计文本
//
// 以及两个可选的产出端：MetricsReporter 与 Archive。
package interfaces
