package types

// StabilityClass 采样序列的定性稳定性分级
type StabilityClass int

const (
	// StabilityUnknown 未分级
	StabilityUnknown StabilityClass = iota
	// StabilityStable 无丢包
	StabilityStable
	// StabilityMostlyStable 成功率 ≥ 95%
	StabilityMostlyStable
	// StabilityIntermittentDrops 存在较长的连续中断
	StabilityIntermittentDrops
	// StabilityUnstable 零散丢包
	StabilityUnstable
	// StabilitySevereInstability 丢包超过 30%
	StabilitySevereInstability
)

var stabilityNames = map[StabilityClass]string{
	StabilityUnknown:           "UNKNOWN",
	StabilityStable:            "STABLE",
	StabilityMostlyStable:      "MOSTLY_STABLE",
	StabilityIntermittentDrops: "INTERMITTENT_DROPS",
	StabilityUnstable:          "UNSTABLE",
	StabilitySevereInstability: "SEVERE_INSTABILITY",
}

// String 返回分级名称
func (c StabilityClass) String() string {
	if s, ok := stabilityNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// Severity 返回分级对应的检查严重度
func (c StabilityClass) Severity() Severity {
	switch c {
	case StabilityStable, StabilityMostlyStable:
		return SeverityOK
	case StabilityIntermittentDrops, StabilityUnstable:
		return SeverityWarn
	case StabilitySevereInstability:
		return SeverityFail
	default:
		return SeverityInfo
	}
}

// MarshalText 实现 encoding.TextMarshaler
func (c StabilityClass) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText 实现 encoding.TextUnmarshaler
func (c *StabilityClass) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, stabilityNames, c, "stability class")
}
