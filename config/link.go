package config

import "time"

// 链路状态来源
const (
	LinkSourceAuto  = "auto"
	LinkSourceSysfs = "sysfs"
	LinkSourceUPnP  = "upnp"
)

// LinkConfig 适配器与物理链路配置
type LinkConfig struct {
	// Adapter 指定适配器名称，为空时按默认网关自动选择
	Adapter string `json:"adapter,omitempty" yaml:"adapter,omitempty"`

	// Source 链路状态来源：auto / sysfs / upnp
	//
	// auto 优先读取本机 sysfs，适配器不在 sysfs 中时查询路由器的 UPnP IGD。
	Source string `json:"source" yaml:"source"`

	// SysfsRoot sysfs 网络目录，测试时可替换
	SysfsRoot string `json:"sysfs_root,omitempty" yaml:"sysfs_root,omitempty"`

	// MinSpeedMbps 协商速率低于该值时告警，0 表示不检查
	MinSpeedMbps int `json:"min_speed_mbps" yaml:"min_speed_mbps"`

	// UPnPTimeout IGD 发现与查询超时
	UPnPTimeout Duration `json:"upnp_timeout" yaml:"upnp_timeout"`
}

// DefaultLinkConfig 默认链路配置
func DefaultLinkConfig() LinkConfig {
	return LinkConfig{
		Source:       LinkSourceAuto,
		SysfsRoot:    "/sys/class/net",
		MinSpeedMbps: 100,
		UPnPTimeout:  Duration(3 * time.Second),
	}
}

func (c *LinkConfig) validate(v *Validator) {
	switch c.Source {
	case LinkSourceAuto, LinkSourceSysfs, LinkSourceUPnP:
	default:
		v.addError("link.source", "must be one of auto, sysfs, upnp")
	}
	if c.MinSpeedMbps < 0 {
		v.addError("link.min_speed_mbps", "must not be negative")
	}
	if c.UPnPTimeout <= 0 {
		v.addError("link.upnp_timeout", "must be positive")
	}
}
