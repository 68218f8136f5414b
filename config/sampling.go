package config

import (
	"time"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// PlanConfig 一项采样计划，Count 与 Duration 二选一
type PlanConfig struct {
	Count    int      `json:"count,omitempty" yaml:"count,omitempty"`
	Duration Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	Interval Duration `json:"interval" yaml:"interval"`
}

// Plan 转换为采样计划
func (p PlanConfig) Plan(timeout time.Duration) types.SamplingPlan {
	return types.SamplingPlan{
		Count:    p.Count,
		Duration: p.Duration.Duration(),
		Interval: p.Interval.Duration(),
		Timeout:  timeout,
	}
}

func (p PlanConfig) validate(v *Validator, field string) {
	if err := p.Plan(time.Second).Validate(); err != nil {
		v.addError(field, err.Error())
	}
}

// SamplingConfig 基础连通性采样配置
type SamplingConfig struct {
	// Basic 网关/外部可达性采样
	Basic PlanConfig `json:"basic" yaml:"basic"`

	// ProgressEvery 每多少个样本输出一次进度，0 表示不输出
	ProgressEvery int `json:"progress_every" yaml:"progress_every"`

	// Concurrency 阶段内并发探测上限
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// PhaseTimeout 单个阶段的整体超时
	PhaseTimeout Duration `json:"phase_timeout" yaml:"phase_timeout"`
}

// DefaultSamplingConfig 默认采样配置
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Basic:         PlanConfig{Count: 4, Interval: Duration(200 * time.Millisecond)},
		ProgressEvery: 10,
		Concurrency:   8,
		PhaseTimeout:  Duration(45 * time.Second),
	}
}

func (c *SamplingConfig) validate(v *Validator) {
	c.Basic.validate(v, "sampling.basic")
	if c.ProgressEvery < 0 {
		v.addError("sampling.progress_every", "must not be negative")
	}
	if c.Concurrency <= 0 {
		v.addError("sampling.concurrency", "must be positive")
	}
	if c.PhaseTimeout <= 0 {
		v.addError("sampling.phase_timeout", "must be positive")
	}
}

// StabilityConfig 稳定性分级阈值
type StabilityConfig struct {
	// MostlyStablePct 成功率不低于该值视为基本稳定
	MostlyStablePct float64 `json:"mostly_stable_pct" yaml:"mostly_stable_pct"`

	// DropRunLength 连续失败达到该长度视为间歇性掉线
	DropRunLength int `json:"drop_run_length" yaml:"drop_run_length"`

	// SevereFailRatio 失败比例超过该值视为严重不稳定
	SevereFailRatio float64 `json:"severe_fail_ratio" yaml:"severe_fail_ratio"`
}

// DefaultStabilityConfig 默认阈值
func DefaultStabilityConfig() StabilityConfig {
	return StabilityConfig{
		MostlyStablePct: 95,
		DropRunLength:   5,
		SevereFailRatio: 0.3,
	}
}

func (c *StabilityConfig) validate(v *Validator) {
	if c.MostlyStablePct <= 0 || c.MostlyStablePct > 100 {
		v.addError("stability.mostly_stable_pct", "must be in (0, 100]")
	}
	if c.DropRunLength <= 0 {
		v.addError("stability.drop_run_length", "must be positive")
	}
	if c.SevereFailRatio <= 0 || c.SevereFailRatio >= 1 {
		v.addError("stability.severe_fail_ratio", "must be in (0, 1)")
	}
}
