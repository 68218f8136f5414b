package interfaces

import (
	"context"
	"errors"
)

// ErrNoAdapter 未找到可用适配器
var ErrNoAdapter = errors.New("no usable network adapter")

// AdapterHandle 选中的网络适配器
type AdapterHandle struct {
	Name         string   `json:"name"`
	Index        int      `json:"index"`
	HardwareAddr string   `json:"hardware_addr,omitempty"`
	Addrs        []string `json:"addrs,omitempty"`
	// Gateway 该适配器上的默认网关，未知时为空
	Gateway string `json:"gateway,omitempty"`
}

// AdapterSelector 选择用于诊断的适配器
type AdapterSelector interface {
	SelectAdapter(ctx context.Context) (AdapterHandle, error)
}

// LinkStatus 物理链路状态
type LinkStatus struct {
	Up       bool   `json:"up"`
	SpeedBps uint64 `json:"speed_bps"`
	// Source 状态来源，例如 "sysfs"、"upnp-igd"
	Source string `json:"source"`
}

// LinkMonitor 查询链路状态
type LinkMonitor interface {
	LinkStatus(ctx context.Context, adapter AdapterHandle) (LinkStatus, error)
}
