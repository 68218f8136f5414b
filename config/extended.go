package config

import "time"

// ExtendedConfig 扩展稳定性探测配置
type ExtendedConfig struct {
	// Enabled 是否执行扩展阶段
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Stability 长时稳定性采样（按时长）
	Stability PlanConfig `json:"stability" yaml:"stability"`

	// Jitter 抖动采样
	Jitter PlanConfig `json:"jitter" yaml:"jitter"`

	// Loss 丢包采样
	Loss PlanConfig `json:"loss" yaml:"loss"`

	// DNS DNS 稳定性采样
	DNS PlanConfig `json:"dns" yaml:"dns"`

	// JitterWarnMs / JitterFailMs 抖动告警与失败阈值（毫秒）
	JitterWarnMs float64 `json:"jitter_warn_ms" yaml:"jitter_warn_ms"`
	JitterFailMs float64 `json:"jitter_fail_ms" yaml:"jitter_fail_ms"`

	// Burst 突发限速探测
	Burst BurstConfig `json:"burst" yaml:"burst"`

	// Capacity 并发建连探测
	Capacity CapacityConfig `json:"capacity" yaml:"capacity"`

	// Trace 路由追踪
	Trace TraceConfig `json:"trace" yaml:"trace"`
}

// BurstConfig 突发探测配置
type BurstConfig struct {
	Count int     `json:"count" yaml:"count"`
	RPS   float64 `json:"rps" yaml:"rps"`

	// LossDeltaPct 突发丢包率比基线高出该值时告警
	LossDeltaPct float64 `json:"loss_delta_pct" yaml:"loss_delta_pct"`
}

// CapacityConfig 并发建连探测配置
type CapacityConfig struct {
	// Endpoints TCP 目标，为空时使用 targets.tcp
	Endpoints []string `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`

	// Repeat 每个目标的建连次数
	Repeat int `json:"repeat" yaml:"repeat"`
}

// TraceConfig 路由追踪配置
type TraceConfig struct {
	Enabled    bool     `json:"enabled" yaml:"enabled"`
	MaxHops    int      `json:"max_hops" yaml:"max_hops"`
	HopTimeout Duration `json:"hop_timeout" yaml:"hop_timeout"`
}

// DefaultExtendedConfig 默认扩展探测配置
func DefaultExtendedConfig() ExtendedConfig {
	return ExtendedConfig{
		Enabled:      true,
		Stability:    PlanConfig{Duration: Duration(30 * time.Second), Interval: Duration(500 * time.Millisecond)},
		Jitter:       PlanConfig{Count: 20, Interval: Duration(100 * time.Millisecond)},
		Loss:         PlanConfig{Count: 50, Interval: Duration(100 * time.Millisecond)},
		DNS:          PlanConfig{Count: 10, Interval: Duration(200 * time.Millisecond)},
		JitterWarnMs: 30,
		JitterFailMs: 100,
		Burst: BurstConfig{
			Count:        50,
			RPS:          100,
			LossDeltaPct: 10,
		},
		Capacity: CapacityConfig{Repeat: 4},
		Trace: TraceConfig{
			Enabled:    true,
			MaxHops:    20,
			HopTimeout: Duration(time.Second),
		},
	}
}

func (c *ExtendedConfig) validate(v *Validator) {
	if !c.Enabled {
		return
	}
	c.Stability.validate(v, "extended.stability")
	c.Jitter.validate(v, "extended.jitter")
	c.Loss.validate(v, "extended.loss")
	c.DNS.validate(v, "extended.dns")
	if c.JitterWarnMs <= 0 || c.JitterFailMs < c.JitterWarnMs {
		v.addError("extended.jitter_fail_ms", "jitter thresholds must satisfy 0 < warn <= fail")
	}
	if c.Burst.Count <= 0 || c.Burst.RPS <= 0 {
		v.addError("extended.burst", "count and rps must be positive")
	}
	if c.Capacity.Repeat <= 0 {
		v.addError("extended.capacity.repeat", "must be positive")
	}
	validateHostPorts(v, "extended.capacity.endpoints", c.Capacity.Endpoints...)
	if c.Trace.Enabled && (c.Trace.MaxHops <= 0 || c.Trace.MaxHops > 64) {
		v.addError("extended.trace.max_hops", "must be in [1, 64]")
	}
}
