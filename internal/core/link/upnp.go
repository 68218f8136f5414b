package link

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huin/goupnp/dcps/internetgateway1"

	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// ErrNoIGD 未发现 UPnP IGD
var ErrNoIGD = errors.New("no UPnP internet gateway device found")

// WANLink IGD 的 WAN 口公共属性
type WANLink interface {
	GetCommonLinkPropertiesCtx(ctx context.Context) (
		NewWANAccessType string,
		NewLayer1UpstreamMaxBitRate uint32,
		NewLayer1DownstreamMaxBitRate uint32,
		NewPhysicalLinkStatus string,
		err error,
	)
}

// DiscoverWANFunc 发现 WANCommonInterfaceConfig 服务
type DiscoverWANFunc func(ctx context.Context) ([]WANLink, error)

// UPnPMonitor 通过路由器 IGD 查询 WAN 侧物理链路
type UPnPMonitor struct {
	discover DiscoverWANFunc
}

// NewUPnPMonitor 创建 IGD 链路监视器，discover 为 nil 时使用 SSDP 发现
func NewUPnPMonitor(discover DiscoverWANFunc) *UPnPMonitor {
	if discover == nil {
		discover = discoverWAN
	}
	return &UPnPMonitor{discover: discover}
}

// LinkStatus 实现 interfaces.LinkMonitor
func (m *UPnPMonitor) LinkStatus(ctx context.Context, _ interfaces.AdapterHandle) (interfaces.LinkStatus, error) {
	clients, err := m.discover(ctx)
	if err != nil {
		return interfaces.LinkStatus{}, err
	}
	if len(clients) == 0 {
		return interfaces.LinkStatus{}, ErrNoIGD
	}

	access, _, down, phys, err := clients[0].GetCommonLinkPropertiesCtx(ctx)
	if err != nil {
		return interfaces.LinkStatus{}, fmt.Errorf("igd link properties: %w", err)
	}
	log.Debug("IGD WAN 链路属性", "access", access, "status", phys, "downBps", down)

	st := interfaces.LinkStatus{Source: "upnp-igd"}
	// Up / Down / Initializing / Unavailable
	st.Up = strings.EqualFold(phys, "Up")
	if st.Up {
		st.SpeedBps = uint64(down)
	}
	return st, nil
}

func discoverWAN(ctx context.Context) ([]WANLink, error) {
	clients, _, err := internetgateway1.NewWANCommonInterfaceConfig1ClientsCtx(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WANLink, 0, len(clients))
	for _, c := range clients {
		out = append(out, c)
	}
	return out, nil
}
