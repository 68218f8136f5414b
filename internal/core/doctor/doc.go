// Package doctor 编排一次完整的链路诊断会话
//
// Doctor 按固定顺序执行各阶段：
//
//	system → link → auth → interface → connectivity → extended → trace
//
// 每个阶段把结果写入会话台账后才进入下一阶段。链路失败时会话进入 LINK_DOWN，
// 认证或会话接口失败时进入 AUTH_FAILED，此后所有未执行的检查以 N/A 补齐。
// 全部阶段结束（或短路、取消）后，诊断引擎只被调用一次。
//
// 协作者返回的错误与 panic 都在阶段边界被捕获并转为 FAIL 记录，
// 唯一例外是契约破坏（types.InvariantViolation），它会原样向上 panic。
package doctor
