package types

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// ============================================================================
//                              ProbeKind - 探测类型
// ============================================================================

// ProbeKind 探测类型
type ProbeKind int

const (
	// ProbeUnknown 未知类型
	ProbeUnknown ProbeKind = iota
	// ProbeICMP ICMP Echo
	ProbeICMP
	// ProbeTCP TCP 建连
	ProbeTCP
	// ProbeDNS DNS 查询
	ProbeDNS
	// ProbeSTUN STUN Binding 请求（UDP 出口 / 公网映射）
	ProbeSTUN
)

var probeKindNames = map[ProbeKind]string{
	ProbeUnknown: "unknown",
	ProbeICMP:    "icmp",
	ProbeTCP:     "tcp",
	ProbeDNS:     "dns",
	ProbeSTUN:    "stun",
}

// String 返回探测类型名称
func (k ProbeKind) String() string {
	if s, ok := probeKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText 实现 encoding.TextMarshaler
func (k ProbeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText 实现 encoding.TextUnmarshaler
func (k *ProbeKind) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, probeKindNames, k, "probe kind")
}

// ============================================================================
//                              ErrorKind - 失败类别
// ============================================================================

// ErrorKind 单次探测失败的类别
type ErrorKind int

const (
	// ErrorNone 成功
	ErrorNone ErrorKind = iota
	// ErrorTimeout 超时
	ErrorTimeout
	// ErrorRefused 连接被拒绝
	ErrorRefused
	// ErrorReset 连接被重置
	ErrorReset
	// ErrorUnreachable 网络/主机不可达
	ErrorUnreachable
	// ErrorUnknown 其他错误
	ErrorUnknown
)

var errorKindNames = map[ErrorKind]string{
	ErrorNone:        "none",
	ErrorTimeout:     "timeout",
	ErrorRefused:     "refused",
	ErrorReset:       "reset",
	ErrorUnreachable: "unreachable",
	ErrorUnknown:     "unknown",
}

// String 返回失败类别名称
func (e ErrorKind) String() string {
	if s, ok := errorKindNames[e]; ok {
		return s
	}
	return "unknown"
}

// MarshalText 实现 encoding.TextMarshaler
func (e ErrorKind) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// UnmarshalText 实现 encoding.TextUnmarshaler
func (e *ErrorKind) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, errorKindNames, e, "error kind")
}

// ============================================================================
//                              Target - 探测目标
// ============================================================================

// Target 探测目标
type Target struct {
	// Kind 探测类型
	Kind ProbeKind `json:"kind"`

	// Host 目标主机（ICMP/TCP）或 DNS/STUN 服务器地址
	Host string `json:"host"`

	// Port TCP/DNS/STUN 端口，ICMP 忽略
	Port int `json:"port,omitempty"`

	// Query DNS 查询的域名，仅 DNS 使用
	Query string `json:"query,omitempty"`

	// Label 展示用名称，例如 "gateway"、"ONT"
	Label string `json:"label,omitempty"`
}

// Addr 返回 host:port 形式的地址，ICMP 目标只返回 host
func (t Target) Addr() string {
	if t.Port == 0 || t.Kind == ProbeICMP {
		return t.Host
	}
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// String 返回可读描述
func (t Target) String() string {
	s := t.Kind.String() + "://" + t.Addr()
	if t.Query != "" {
		s += "?" + t.Query
	}
	if t.Label != "" {
		s = t.Label + " (" + s + ")"
	}
	return s
}

// ============================================================================
//                              ProbeOutcome - 单次探测结果
// ============================================================================

// ProbeOutcome 单次探测结果
//
// Latency 仅在 Success 为 true 时有意义。
type ProbeOutcome struct {
	Timestamp time.Time     `json:"ts"`
	Success   bool          `json:"success"`
	Latency   time.Duration `json:"latency,omitempty"`
	ErrorKind ErrorKind     `json:"error_kind"`
	// Detail 失败时的错误文本或成功时的附加信息（如 STUN 映射地址）
	Detail string `json:"detail,omitempty"`
}

// LatencyMs 返回毫秒延迟
func (o ProbeOutcome) LatencyMs() float64 {
	return float64(o.Latency) / float64(time.Millisecond)
}

// Succeeded 构造成功结果
func Succeeded(ts time.Time, latency time.Duration) ProbeOutcome {
	return ProbeOutcome{Timestamp: ts, Success: true, Latency: latency, ErrorKind: ErrorNone}
}

// Failed 构造失败结果
func Failed(ts time.Time, kind ErrorKind, detail string) ProbeOutcome {
	if kind == ErrorNone {
		kind = ErrorUnknown
	}
	return ProbeOutcome{Timestamp: ts, ErrorKind: kind, Detail: detail}
}

// ============================================================================
//                              SamplingPlan / SampleSeries
// ============================================================================

// SamplingPlan 采样计划
//
// Count 与 Duration 有且仅有一个大于 0。
type SamplingPlan struct {
	Count    int           `json:"count,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Interval time.Duration `json:"interval"`
	Timeout  time.Duration `json:"timeout"`
}

// Validate 校验采样计划
func (p SamplingPlan) Validate() error {
	switch {
	case p.Count < 0 || p.Duration < 0 || p.Interval < 0:
		return fmt.Errorf("%w: negative value", ErrInvalidPlan)
	case (p.Count > 0) == (p.Duration > 0):
		return fmt.Errorf("%w: exactly one of count or duration must be set", ErrInvalidPlan)
	case p.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidPlan)
	}
	return nil
}

// MaxWallClock 返回计划的墙钟上限
//
// count*(timeout+interval) 或 duration+timeout。
func (p SamplingPlan) MaxWallClock() time.Duration {
	if p.Count > 0 {
		return time.Duration(p.Count) * (p.Timeout + p.Interval)
	}
	return p.Duration + p.Timeout
}

// SampleSeries 有序采样序列
type SampleSeries struct {
	Target   Target         `json:"target"`
	Plan     SamplingPlan   `json:"plan"`
	Outcomes []ProbeOutcome `json:"outcomes"`
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished"`
}

// Len 返回样本数
func (s *SampleSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Outcomes)
}

// Kind 返回序列的探测类型
func (s *SampleSeries) Kind() ProbeKind {
	return s.Target.Kind
}
