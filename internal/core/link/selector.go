package link

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/jackpal/gateway"

	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

var log = logger.Logger("link")

// virtualIfacePrefixes 虚拟网卡名称前缀
var virtualIfacePrefixes = []string{
	"utun", "tun", "tap", "wintun", "wg",
	"vethernet", "hyper-v",
	"docker", "br-", "veth", "virbr", "cni", "flannel", "calico",
	"vboxnet", "virtualbox", "vmnet", "vmware",
	"npf",
}

// isVirtualInterface 判断是否为虚拟网卡
func isVirtualInterface(name string) bool {
	nameLower := strings.ToLower(name)
	for _, prefix := range virtualIfacePrefixes {
		if strings.HasPrefix(nameLower, prefix) {
			return true
		}
	}
	return false
}

// NetInterface 网络接口及其地址
type NetInterface struct {
	net.Interface
	Addrs []*net.IPNet
}

// ListFunc 枚举网络接口
type ListFunc func() ([]NetInterface, error)

// GatewayFunc 发现默认网关
type GatewayFunc func() (net.IP, error)

// Selector 适配器选择器
type Selector struct {
	name    string
	list    ListFunc
	gateway GatewayFunc
}

// NewSelector 创建选择器，list / gw 为 nil 时使用系统实现
func NewSelector(name string, list ListFunc, gw GatewayFunc) *Selector {
	if list == nil {
		list = SystemInterfaces
	}
	if gw == nil {
		gw = gateway.DiscoverGateway
	}
	return &Selector{name: name, list: list, gateway: gw}
}

// SelectAdapter 实现 interfaces.AdapterSelector
func (s *Selector) SelectAdapter(ctx context.Context) (interfaces.AdapterHandle, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.AdapterHandle{}, err
	}

	ifaces, err := s.list()
	if err != nil {
		return interfaces.AdapterHandle{}, fmt.Errorf("list interfaces: %w", err)
	}

	gw, gwErr := s.gateway()
	if gwErr != nil {
		log.Debug("默认网关发现失败", "err", gwErr)
		gw = nil
	}

	if s.name != "" {
		for _, ifc := range ifaces {
			if ifc.Name == s.name {
				return handle(ifc, gw), nil
			}
		}
		return interfaces.AdapterHandle{}, fmt.Errorf("%w: %q not present", interfaces.ErrNoAdapter, s.name)
	}

	var fallback *NetInterface
	for i := range ifaces {
		ifc := &ifaces[i]
		if !usable(ifc) {
			continue
		}
		if gw != nil {
			for _, n := range ifc.Addrs {
				if n.Contains(gw) {
					log.Debug("按默认网关选择适配器", "iface", ifc.Name, "gateway", gw.String())
					return handle(*ifc, gw), nil
				}
			}
		}
		if fallback == nil {
			fallback = ifc
		}
	}
	if fallback != nil {
		log.Debug("未匹配默认网关，使用首个可用适配器", "iface", fallback.Name)
		return handle(*fallback, nil), nil
	}
	return interfaces.AdapterHandle{}, interfaces.ErrNoAdapter
}

// usable 已启用、非回环、非虚拟且有 IPv4 地址
func usable(ifc *NetInterface) bool {
	if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
		return false
	}
	if isVirtualInterface(ifc.Name) {
		return false
	}
	for _, n := range ifc.Addrs {
		if n.IP.To4() != nil {
			return true
		}
	}
	return false
}

func handle(ifc NetInterface, gw net.IP) interfaces.AdapterHandle {
	h := interfaces.AdapterHandle{
		Name:         ifc.Name,
		Index:        ifc.Index,
		HardwareAddr: ifc.HardwareAddr.String(),
	}
	for _, n := range ifc.Addrs {
		h.Addrs = append(h.Addrs, n.String())
	}
	if gw != nil {
		h.Gateway = gw.String()
	}
	return h
}

// SystemInterfaces 枚举本机网络接口
func SystemInterfaces() ([]NetInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]NetInterface, 0, len(ifaces))
	for _, ifc := range ifaces {
		ni := NetInterface{Interface: ifc}
		addrs, err := ifc.Addrs()
		if err != nil {
			log.Debug("获取接口地址失败", "iface", ifc.Name, "err", err)
		}
		for _, a := range addrs {
			if n, ok := a.(*net.IPNet); ok {
				ni.Addrs = append(ni.Addrs, n)
			}
		}
		out = append(out, ni)
	}
	return out, nil
}
