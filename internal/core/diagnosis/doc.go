// Package diagnosis 实现根因诊断引擎
//
// 引擎持有一张固定优先级的规则表，自上而下求值，第一条命中的规则
// 独占根因、说明与处置建议；多条同时成立的症状不会合并建议。
//
// 正常/异常组件清单由另一条路径逐条扫描台账得到，与根因选择互不影响。
//
// 默认优先级：
//
//	link-down > adapter-missing > remote-termination-unreachable >
//	authentication-failed > credentials-unavailable >
//	session-interface-absent > external-reachability-failed >
//	link-unstable > all-checks-passed
//
// 空台账落入兜底规则 all-checks-passed，"没有数据"与"全部通过"在此
// 设计下无法区分。
package diagnosis
