package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jackpal/gateway"

	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// LookupFunc 按名称查找接口
type LookupFunc func(name string) (*net.Interface, []net.Addr, error)

// RouteFunc 返回默认路由的本地地址与网关
type RouteFunc func() (local net.IP, gw net.IP, err error)

// NetInspector 基于本机网络栈的会话接口检查
type NetInspector struct {
	lookup LookupFunc
	route  RouteFunc
}

// NewNetInspector 创建检查器，参数为 nil 时使用系统实现
func NewNetInspector(lookup LookupFunc, route RouteFunc) *NetInspector {
	if lookup == nil {
		lookup = systemLookup
	}
	if route == nil {
		route = systemRoute
	}
	return &NetInspector{lookup: lookup, route: route}
}

// Inspect 实现 interfaces.SessionInspector
//
// PeerAddr 取默认路由的下一跳，且仅当默认路由经由该接口时有效。
func (i *NetInspector) Inspect(ctx context.Context, name string) (interfaces.SessionInterface, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.SessionInterface{}, err
	}
	ifc, addrs, err := i.lookup(name)
	if err != nil {
		return interfaces.SessionInterface{}, fmt.Errorf("%w: %s: %v", interfaces.ErrInterfaceNotFound, name, err)
	}

	si := interfaces.SessionInterface{
		Name: ifc.Name,
		Up:   ifc.Flags&net.FlagUp != 0,
	}
	var local []net.IP
	for _, a := range addrs {
		if n, ok := a.(*net.IPNet); ok && n.IP.To4() != nil {
			si.LocalAddrs = append(si.LocalAddrs, n.IP.String())
			local = append(local, n.IP)
		}
	}

	if routeLocal, gw, err := i.route(); err == nil {
		for _, ip := range local {
			if ip.Equal(routeLocal) {
				si.PeerAddr = gw.String()
				break
			}
		}
	} else {
		log.Debug("默认路由查询失败", "err", err)
	}
	return si, nil
}

func systemLookup(name string) (*net.Interface, []net.Addr, error) {
	ifc, err := net.InterfaceByName(name)
	if err != nil {
		return nil, nil, err
	}
	addrs, err := ifc.Addrs()
	if err != nil {
		return nil, nil, err
	}
	return ifc, addrs, nil
}

func systemRoute() (net.IP, net.IP, error) {
	local, err := gateway.DiscoverInterface()
	if err != nil {
		return nil, nil, err
	}
	gw, err := gateway.DiscoverGateway()
	if err != nil {
		return local, nil, err
	}
	return local, gw, nil
}

// InterfaceAuthenticator 等待本机拨号程序建立的会话接口就绪
type InterfaceAuthenticator struct {
	inspector interfaces.SessionInspector
	iface     string
	wait      time.Duration
	poll      time.Duration
	clock     clock.Clock
}

// 会话接口未就绪时的错误码
const (
	CodeInterfaceMissing = "PPP_INTERFACE_MISSING"
	CodeInterfaceDown    = "PPP_INTERFACE_DOWN"
)

// NewInterfaceAuthenticator 创建认证器，最多等待 wait
func NewInterfaceAuthenticator(inspector interfaces.SessionInspector, iface string, wait time.Duration, clk clock.Clock) *InterfaceAuthenticator {
	if clk == nil {
		clk = clock.New()
	}
	return &InterfaceAuthenticator{
		inspector: inspector,
		iface:     iface,
		wait:      wait,
		poll:      500 * time.Millisecond,
		clock:     clk,
	}
}

// Authenticate 实现 interfaces.Authenticator
func (a *InterfaceAuthenticator) Authenticate(ctx context.Context, _ interfaces.Credentials) (interfaces.AuthResult, error) {
	deadline := a.clock.Now().Add(a.wait)
	for {
		si, err := a.inspector.Inspect(ctx, a.iface)
		switch {
		case err == nil && si.Up:
			return interfaces.AuthResult{Success: true, Interface: si.Name}, nil
		case err != nil && !errors.Is(err, interfaces.ErrInterfaceNotFound):
			return interfaces.AuthResult{}, err
		}

		if !a.clock.Now().Before(deadline) {
			code := CodeInterfaceDown
			if err != nil {
				code = CodeInterfaceMissing
			}
			return interfaces.AuthResult{Success: false, ErrorCode: code}, nil
		}

		t := a.clock.Timer(a.poll)
		select {
		case <-ctx.Done():
			t.Stop()
			return interfaces.AuthResult{}, ctx.Err()
		case <-t.C:
		}
	}
}
