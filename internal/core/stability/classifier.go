// Package stability 把聚合统计映射为定性稳定性分级
package stability

import (
	"github.com/dep2p/go-linkdiag/internal/core/stats"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// Thresholds 分级阈值
type Thresholds struct {
	// MostlyStablePct 成功率不低于该值视为 MOSTLY_STABLE
	MostlyStablePct float64 `json:"mostly_stable_pct" yaml:"mostly_stable_pct"`

	// DropRunLength 连续失败达到该长度视为 INTERMITTENT_DROPS
	DropRunLength int `json:"drop_run_length" yaml:"drop_run_length"`

	// SevereFailRatio 失败数超过 total 的该比例视为 SEVERE_INSTABILITY
	SevereFailRatio float64 `json:"severe_fail_ratio" yaml:"severe_fail_ratio"`
}

// DefaultThresholds 返回默认阈值
func DefaultThresholds() Thresholds {
	return Thresholds{
		MostlyStablePct: 95,
		DropRunLength:   5,
		SevereFailRatio: 0.3,
	}
}

// Classifier 稳定性分级器
type Classifier struct {
	t Thresholds
}

// New 创建分级器，零值阈值回落到默认值
func New(t Thresholds) *Classifier {
	def := DefaultThresholds()
	if t.MostlyStablePct <= 0 {
		t.MostlyStablePct = def.MostlyStablePct
	}
	if t.DropRunLength <= 0 {
		t.DropRunLength = def.DropRunLength
	}
	if t.SevereFailRatio <= 0 {
		t.SevereFailRatio = def.SevereFailRatio
	}
	return &Classifier{t: t}
}

// Thresholds 返回生效阈值
func (c *Classifier) Thresholds() Thresholds {
	return c.t
}

// Classify 按固定顺序逐条匹配，首个命中的规则决定分级
//
// 连续中断检查必须排在丢包比例之前：同样的总丢包率下，
// 一段连续中断比零散丢包更能说明链路不稳。
// 空序列成功率按 0 计，逐条落空后归为 UNSTABLE。不自洽的 Stats 直接 panic。
func (c *Classifier) Classify(s types.Stats) types.StabilityClass {
	stats.MustValidate(s)

	switch {
	case s.SuccessRatePct == 100:
		return types.StabilityStable
	case s.SuccessRatePct >= c.t.MostlyStablePct:
		return types.StabilityMostlyStable
	case s.MaxConsecutiveFailures >= c.t.DropRunLength:
		return types.StabilityIntermittentDrops
	case float64(s.FailCount) > c.t.SevereFailRatio*float64(s.Total):
		return types.StabilitySevereInstability
	default:
		return types.StabilityUnstable
	}
}
