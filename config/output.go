package config

import "time"

// ArchiveConfig 会话历史存档配置
type ArchiveConfig struct {
	// Enabled 是否存档
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir BadgerDB 目录
	Dir string `json:"dir" yaml:"dir"`

	// Retention 存档保留时长，0 表示永久
	Retention Duration `json:"retention" yaml:"retention"`

	// RecurringWindow 最近多少次会话根因相同视为反复出现
	RecurringWindow int `json:"recurring_window" yaml:"recurring_window"`
}

// DefaultArchiveConfig 默认存档配置
func DefaultArchiveConfig() ArchiveConfig {
	return ArchiveConfig{
		Enabled:         false,
		Dir:             "linkdiag-history",
		Retention:       Duration(90 * 24 * time.Hour),
		RecurringWindow: 3,
	}
}

func (c *ArchiveConfig) validate(v *Validator) {
	if !c.Enabled {
		return
	}
	if c.Dir == "" {
		v.addError("archive.dir", "required when archive is enabled")
	}
	if c.Retention < 0 {
		v.addError("archive.retention", "must not be negative")
	}
	if c.RecurringWindow < 2 {
		v.addError("archive.recurring_window", "must be at least 2")
	}
}

// MetricsConfig 指标导出配置
type MetricsConfig struct {
	// Enabled 是否采集指标
	Enabled bool `json:"enabled" yaml:"enabled"`

	// TextFile Prometheus textfile 输出路径，为空时不导出
	TextFile string `json:"text_file,omitempty" yaml:"text_file,omitempty"`

	// Namespace 指标命名空间
	Namespace string `json:"namespace" yaml:"namespace"`
}

// DefaultMetricsConfig 默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   true,
		Namespace: "linkdiag",
	}
}

func (c *MetricsConfig) validate(v *Validator) {
	if c.Enabled && c.Namespace == "" {
		v.addError("metrics.namespace", "required when metrics are enabled")
	}
}

// LogConfig 日志配置
//
// Level / Format 的语义与 LINKDIAG_LOG_LEVEL / LINKDIAG_LOG_FORMAT 相同，
// 环境变量优先。
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// File 日志文件路径，为空时输出到 stderr
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
}

// DefaultLogConfig 默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

func (c *LogConfig) validate(v *Validator) {
	switch c.Format {
	case "", "text", "json":
	default:
		v.addError("log.format", "must be text or json")
	}
	if c.File != "" && c.MaxSizeMB <= 0 {
		v.addError("log.max_size_mb", "must be positive")
	}
}

// 报告格式
const (
	FormatText = "text"
	FormatJSON = "json"
)

// OutputConfig 报告输出配置
type OutputConfig struct {
	// Format text / json
	Format string `json:"format" yaml:"format"`

	// Path 报告文件，为空时写 stdout
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// DefaultOutputConfig 默认输出配置
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{Format: FormatText}
}

func (c *OutputConfig) validate(v *Validator) {
	if c.Format != FormatText && c.Format != FormatJSON {
		v.addError("output.format", "must be text or json")
	}
}

// IntrospectConfig 本地自省 HTTP 服务配置
//
// 仅在持续监测（watch）模式下有意义：暴露 /metrics、最近一次报告与 pprof。
type IntrospectConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Addr 监听地址，默认只绑定回环
	Addr string `json:"addr" yaml:"addr"`
}

// DefaultIntrospectConfig 默认自省配置
func DefaultIntrospectConfig() IntrospectConfig {
	return IntrospectConfig{Addr: "127.0.0.1:6060"}
}

func (c *IntrospectConfig) validate(v *Validator) {
	if c.Enabled && c.Addr == "" {
		v.addError("introspect.addr", "required when introspect is enabled")
	}
}
