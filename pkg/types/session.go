package types

import "time"

// SessionState 诊断会话状态
type SessionState int

const (
	// SessionNotStarted 尚未进入链路阶段
	SessionNotStarted SessionState = iota
	// SessionLinkDown 适配器/链路/远端终结点失败
	SessionLinkDown
	// SessionAuthFailed 会话建立失败
	SessionAuthFailed
	// SessionConnected 会话可用
	SessionConnected
)

var sessionStateNames = map[SessionState]string{
	SessionNotStarted: "NOT_STARTED",
	SessionLinkDown:   "LINK_DOWN",
	SessionAuthFailed: "AUTH_FAILED",
	SessionConnected:  "CONNECTED",
}

// String 返回状态名称
func (s SessionState) String() string {
	if n, ok := sessionStateNames[s]; ok {
		return n
	}
	return "NOT_STARTED"
}

// Terminal 是否为短路终态
func (s SessionState) Terminal() bool {
	return s == SessionLinkDown || s == SessionAuthFailed
}

// MarshalText 实现 encoding.TextMarshaler
func (s SessionState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText 实现 encoding.TextUnmarshaler
func (s *SessionState) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, sessionStateNames, s, "session state")
}

// Report 一次诊断会话的完整产出
type Report struct {
	SessionID string          `json:"session_id"`
	Started   time.Time       `json:"started"`
	Finished  time.Time       `json:"finished"`
	State     SessionState    `json:"state"`
	Overall   Severity        `json:"overall"`
	Checks    []CheckRecord   `json:"checks"`
	Diagnosis DiagnosisResult `json:"diagnosis"`
}
