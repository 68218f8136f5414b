// Package probe 提供单次探测原语
//
// 支持四种探测：
//   - ICMP Echo（x/net/icmp，特权原始套接字或非特权 UDP ping 套接字）
//   - TCP 建连
//   - DNS A 记录查询（miekg/dns，指定服务器）
//   - STUN Binding（pion/stun，UDP 出口与公网映射）
//
// 所有失败都以失败的 ProbeOutcome 表达，并归类为 timeout / refused /
// reset / unreachable / unknown。目标主机名经带过期时间的 LRU 缓存解析，
// 重复采样不会反复触发系统解析。
//
// Tracer 基于 TTL 递增的 ICMP Echo 实现路由追踪，需要原始套接字权限。
package probe
