package probe

import (
	"bytes"
	"context"
	"net"
	"time"

	"github.com/pion/stun"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// STUNProber STUN Binding 探测
//
// 成功时 Detail 为服务器观察到的公网映射地址。
type STUNProber struct {
	resolver *Resolver
}

// NewSTUNProber 创建 STUN 探测器
func NewSTUNProber(resolver *Resolver) *STUNProber {
	return &STUNProber{resolver: resolver}
}

// Probe 实现 interfaces.Prober
func (p *STUNProber) Probe(ctx context.Context, target types.Target, timeout time.Duration) types.ProbeOutcome {
	start := time.Now()

	ip, err := p.resolver.Resolve(ctx, target.Host)
	if err != nil {
		return fail(start, err)
	}

	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: ip, Port: target.Port})
	if err != nil {
		return fail(start, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.SetDeadline(deadline(ctx, timeout)); err != nil {
		return fail(start, err)
	}

	req, err := stun.Build(stun.TransactionID, stun.BindingRequest)
	if err != nil {
		return fail(start, err)
	}
	sent := time.Now()
	if _, err := req.WriteTo(conn); err != nil {
		return fail(start, err)
	}

	buf := make([]byte, 1500)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return fail(start, ctx.Err())
			}
			return fail(start, err)
		}
		rtt := time.Since(sent)

		res := new(stun.Message)
		res.Raw = append([]byte(nil), buf[:n]...)
		if err := res.Decode(); err != nil {
			continue
		}
		if !bytes.Equal(res.TransactionID[:], req.TransactionID[:]) {
			continue
		}
		if res.Type != stun.BindingSuccess {
			return types.Failed(start, types.ErrorRefused, "stun: "+res.Type.String())
		}

		mapped, err := mappedAddr(res)
		if err != nil {
			return types.Failed(start, types.ErrorUnknown, "stun: "+err.Error())
		}
		o := types.Succeeded(start, rtt)
		o.Detail = mapped.String()
		return o
	}
}

// mappedAddr 优先 XOR-MAPPED-ADDRESS，回退到旧版 MAPPED-ADDRESS
func mappedAddr(res *stun.Message) (*net.UDPAddr, error) {
	var xorAddr stun.XORMappedAddress
	if err := xorAddr.GetFrom(res); err == nil {
		return &net.UDPAddr{IP: xorAddr.IP, Port: xorAddr.Port}, nil
	}
	var addr stun.MappedAddress
	if err := addr.GetFrom(res); err != nil {
		return nil, err
	}
	return &net.UDPAddr{IP: addr.IP, Port: addr.Port}, nil
}
