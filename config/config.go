// Package config 提供诊断工具的统一配置
//
// 主 Config 结构体嵌入所有子配置，每个子配置在独立文件中定义。
// 加载顺序：默认值 → 配置文件（.json / .yaml / .yml）→ LINKDIAG_* 环境变量，
// 命令行参数由 cmd/linkdiag 最后覆盖。
//
// 使用示例：
//
//	cfg, err := config.Load("linkdiag.yaml")
//	if err != nil {
//	    return err
//	}
//	cfg.Extended.Enabled = false
package config

// Config 完整配置
//
// 配置按诊断阶段组织：
//   - System: 主机系统检查
//   - Link: 适配器与物理链路
//   - Session: 会话认证与会话接口
//   - Targets: 连通性探测目标
//   - Probe / Sampling / Stability: 探测原语、采样计划与稳定性阈值
//   - Extended: 扩展稳定性探测
//   - Archive / Metrics / Log / Output: 产出端
//   - Introspect: 持续监测时的本地 HTTP 自省
type Config struct {
	// System 系统检查配置
	System SystemConfig `json:"system" yaml:"system"`

	// Link 链路配置
	Link LinkConfig `json:"link" yaml:"link"`

	// Session 会话配置
	Session SessionConfig `json:"session" yaml:"session"`

	// Targets 探测目标
	Targets TargetsConfig `json:"targets" yaml:"targets"`

	// Probe 探测原语配置
	Probe ProbeConfig `json:"probe" yaml:"probe"`

	// Sampling 基础采样配置
	Sampling SamplingConfig `json:"sampling" yaml:"sampling"`

	// Stability 稳定性分级阈值
	Stability StabilityConfig `json:"stability" yaml:"stability"`

	// Extended 扩展探测配置
	Extended ExtendedConfig `json:"extended" yaml:"extended"`

	// Archive 会话历史存档
	Archive ArchiveConfig `json:"archive" yaml:"archive"`

	// Metrics 指标导出
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log" yaml:"log"`

	// Output 报告输出
	Output OutputConfig `json:"output" yaml:"output"`

	// Introspect 本地自省服务
	Introspect IntrospectConfig `json:"introspect" yaml:"introspect"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		System:     DefaultSystemConfig(),
		Link:       DefaultLinkConfig(),
		Session:    DefaultSessionConfig(),
		Targets:    DefaultTargetsConfig(),
		Probe:      DefaultProbeConfig(),
		Sampling:   DefaultSamplingConfig(),
		Stability:  DefaultStabilityConfig(),
		Extended:   DefaultExtendedConfig(),
		Archive:    DefaultArchiveConfig(),
		Metrics:    DefaultMetricsConfig(),
		Log:        DefaultLogConfig(),
		Output:     DefaultOutputConfig(),
		Introspect: DefaultIntrospectConfig(),
	}
}

// NewQuickConfig 快速诊断预设：关闭扩展探测与路由追踪
func NewQuickConfig() *Config {
	c := NewConfig()
	c.Extended.Enabled = false
	c.Extended.Trace.Enabled = false
	return c
}

// Clone 深拷贝配置
func (c *Config) Clone() *Config {
	cp := *c
	cp.Targets.External = append([]string(nil), c.Targets.External...)
	cp.Targets.TCP = append([]string(nil), c.Targets.TCP...)
	cp.Targets.STUN = append([]string(nil), c.Targets.STUN...)
	cp.Extended.Capacity.Endpoints = append([]string(nil), c.Extended.Capacity.Endpoints...)
	return &cp
}
