// Package session 提供会话凭据、认证与会话接口检查
//
// 两种认证方式：
//   - igd: 会话由路由器拨号，读取 WANPPPConnection 的连接状态与最近错误
//   - interface: 会话由本机拨号程序建立，等待会话接口就绪
//
// 认证器只给出原始错误码（例如 ERROR_AUTHENTICATION_FAILURE），
// 映射为可读短语由编排层负责。
package session
