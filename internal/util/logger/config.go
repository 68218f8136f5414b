package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// 环境变量名称
const (
	EnvLogLevel  = "LINKDIAG_LOG_LEVEL"
	EnvLogFormat = "LINKDIAG_LOG_FORMAT"
	EnvLogSource = "LINKDIAG_LOG_SOURCE"
)

// Format 日志输出格式
type Format int

const (
	// FormatText 文本格式（默认）
	FormatText Format = iota
	// FormatJSON JSON 格式
	FormatJSON
)

// Config 日志配置
type Config struct {
	// DefaultLevel 未单独配置的子系统使用的级别
	DefaultLevel slog.Level

	// SubsystemLevels 子系统级别覆盖，例如 sampler=debug
	SubsystemLevels map[string]slog.Level

	// Format 输出格式
	Format Format

	// AddSource 是否附带源码位置
	AddSource bool
}

// LevelFor 返回子系统的生效级别
func (c *Config) LevelFor(subsystem string) slog.Level {
	if lvl, ok := c.SubsystemLevels[subsystem]; ok {
		return lvl
	}
	return c.DefaultLevel
}

var (
	envConfig     *Config
	envConfigOnce sync.Once
)

// ConfigFromEnv 解析并缓存环境变量配置
//
//   - LINKDIAG_LOG_LEVEL: sampler=debug,doctor=info,warn
//   - LINKDIAG_LOG_FORMAT: text | json
//   - LINKDIAG_LOG_SOURCE: true | false
func ConfigFromEnv() *Config {
	envConfigOnce.Do(func() {
		envConfig = parseEnv(os.Getenv)
	})
	return envConfig
}

// parseEnv 使用给定的 getenv 解析配置，便于测试
func parseEnv(getenv func(string) string) *Config {
	cfg := &Config{
		DefaultLevel:    slog.LevelInfo,
		SubsystemLevels: make(map[string]slog.Level),
		Format:          FormatText,
	}

	if v := getenv(EnvLogLevel); v != "" {
		parseLevelSpec(cfg, v)
	}
	if strings.EqualFold(getenv(EnvLogFormat), "json") {
		cfg.Format = FormatJSON
	}
	if v := getenv(EnvLogSource); v != "" {
		cfg.AddSource = v != "false" && v != "0"
	}
	return cfg
}

// parseLevelSpec 解析 "subsystem=level,...,default" 形式的级别描述
func parseLevelSpec(cfg *Config, spec string) {
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, lvl, found := strings.Cut(part, "=")
		if !found {
			if level, ok := ParseLevel(part); ok {
				cfg.DefaultLevel = level
			}
			continue
		}
		if level, ok := ParseLevel(strings.TrimSpace(lvl)); ok {
			cfg.SubsystemLevels[strings.TrimSpace(name)] = level
		}
	}
}

// ParseLevel 解析日志级别名称，未知名称返回 (Info, false)
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// ResetConfig 清除缓存的环境配置（仅用于测试）
func ResetConfig() {
	envConfigOnce = sync.Once{}
	envConfig = nil
}
