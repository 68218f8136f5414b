package config

// SystemConfig 系统检查配置
type SystemConfig struct {
	// Enabled 是否执行系统阶段
	Enabled bool `json:"enabled" yaml:"enabled"`

	// LoadWarnPerCPU 每核 1 分钟负载超过该值时告警
	LoadWarnPerCPU float64 `json:"load_warn_per_cpu" yaml:"load_warn_per_cpu"`

	// MemoryWarnPct 内存使用率超过该值时告警
	MemoryWarnPct float64 `json:"memory_warn_pct" yaml:"memory_warn_pct"`
}

// DefaultSystemConfig 默认系统检查配置
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		Enabled:        true,
		LoadWarnPerCPU: 2.0,
		MemoryWarnPct:  90,
	}
}

func (c *SystemConfig) validate(v *Validator) {
	if c.LoadWarnPerCPU <= 0 {
		v.addError("system.load_warn_per_cpu", "must be positive")
	}
	if c.MemoryWarnPct <= 0 || c.MemoryWarnPct > 100 {
		v.addError("system.memory_warn_pct", "must be in (0, 100]")
	}
}
