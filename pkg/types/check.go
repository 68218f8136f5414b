package types

import "time"

// ============================================================================
//                              Severity - 检查状态
// ============================================================================

// Severity 检查状态
//
// 汇总时只有 FAIL 与 WARN 参与分级，其余一律视为 OK。
type Severity int

const (
	// SeverityOK 通过
	SeverityOK Severity = iota
	// SeverityInfo 仅供参考
	SeverityInfo
	// SeverityNA 因前置阶段失败而未执行
	SeverityNA
	// SeverityWarn 警告
	SeverityWarn
	// SeverityFail 失败
	SeverityFail
)

var severityNames = map[Severity]string{
	SeverityOK:   "OK",
	SeverityInfo: "INFO",
	SeverityNA:   "N/A",
	SeverityWarn: "WARN",
	SeverityFail: "FAIL",
}

// String 返回状态名称
func (s Severity) String() string {
	if n, ok := severityNames[s]; ok {
		return n
	}
	return "OK"
}

// IsProblem 是否为 WARN 或 FAIL
func (s Severity) IsProblem() bool {
	return s == SeverityWarn || s == SeverityFail
}

// MarshalText 实现 encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText 实现 encoding.TextUnmarshaler
func (s *Severity) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, severityNames, s, "severity")
}

// ============================================================================
//                              Category - 检查类别
// ============================================================================

// Category 检查所属的链路层次
type Category int

const (
	CategoryNone Category = iota
	CategorySystem
	CategoryAdapter
	CategoryLink
	CategoryRemote
	CategoryCredentials
	CategoryAuth
	CategorySessionInterface
	CategoryConnectivity
	CategoryDNS
	CategoryStability
	CategoryRoute
)

var categoryNames = map[Category]string{
	CategoryNone:             "none",
	CategorySystem:           "system",
	CategoryAdapter:          "adapter",
	CategoryLink:             "link",
	CategoryRemote:           "remote",
	CategoryCredentials:      "credentials",
	CategoryAuth:             "auth",
	CategorySessionInterface: "session_interface",
	CategoryConnectivity:     "connectivity",
	CategoryDNS:              "dns",
	CategoryStability:        "stability",
	CategoryRoute:            "route",
}

var categoryLabels = map[Category]string{
	CategorySystem:           "Host system",
	CategoryAdapter:          "Network adapter",
	CategoryLink:             "Physical link",
	CategoryRemote:           "Remote termination (ONT)",
	CategoryCredentials:      "Credentials",
	CategoryAuth:             "Session authentication",
	CategorySessionInterface: "Session interface",
	CategoryConnectivity:     "Internet connectivity",
	CategoryDNS:              "DNS resolution",
	CategoryStability:        "Link stability",
	CategoryRoute:            "Routing path",
}

// String 返回类别标识
func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "none"
}

// Label 返回类别的展示名称
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return "Other"
}

// MarshalText 实现 encoding.TextMarshaler
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText 实现 encoding.TextUnmarshaler
func (c *Category) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, categoryNames, c, "category")
}

// ============================================================================
//                              CheckRecord - 检查记录
// ============================================================================

// CheckRecord 台账中的一条检查记录
type CheckRecord struct {
	// Name 检查名称，同一会话内唯一
	Name string `json:"name"`

	// Order 展示分组顺序，与追加时间无关
	Order int `json:"order"`

	// Seq 追加序号，由台账分配
	Seq int `json:"seq"`

	Severity Severity `json:"severity"`
	Category Category `json:"category"`

	// Detail 人类可读说明
	Detail string `json:"detail,omitempty"`

	Timestamp time.Time `json:"ts"`

	// Stats / Class 采样类检查附带的原始统计，用于叙述细节
	Stats *Stats         `json:"stats,omitempty"`
	Class StabilityClass `json:"class,omitempty"`
}

// StatusText 返回带严重度前缀的状态文本，例如 "FAIL - no carrier"
func (r CheckRecord) StatusText() string {
	if r.Detail == "" {
		return r.Severity.String()
	}
	return r.Severity.String() + " - " + r.Detail
}
