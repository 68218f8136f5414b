package config

import "time"

// ProbeConfig 探测原语配置
type ProbeConfig struct {
	// Timeout 单次探测超时
	Timeout Duration `json:"timeout" yaml:"timeout"`

	// Privileged 使用原始 ICMP 套接字（需要 CAP_NET_RAW），
	// 关闭时使用非特权 UDP ping 套接字
	Privileged bool `json:"privileged" yaml:"privileged"`

	// PayloadSize ICMP 载荷字节数
	PayloadSize int `json:"payload_size" yaml:"payload_size"`

	// ResolverCacheSize 目标地址解析缓存条目数
	ResolverCacheSize int `json:"resolver_cache_size" yaml:"resolver_cache_size"`

	// ResolverTTL 解析结果缓存时长
	ResolverTTL Duration `json:"resolver_ttl" yaml:"resolver_ttl"`
}

// DefaultProbeConfig 默认探测配置
func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{
		Timeout:           Duration(2 * time.Second),
		Privileged:        false,
		PayloadSize:       32,
		ResolverCacheSize: 128,
		ResolverTTL:       Duration(5 * time.Minute),
	}
}

func (c *ProbeConfig) validate(v *Validator) {
	if c.Timeout <= 0 {
		v.addError("probe.timeout", "must be positive")
	}
	if c.PayloadSize < 0 || c.PayloadSize > 1400 {
		v.addError("probe.payload_size", "must be in [0, 1400]")
	}
	if c.ResolverCacheSize <= 0 {
		v.addError("probe.resolver_cache_size", "must be positive")
	}
}
