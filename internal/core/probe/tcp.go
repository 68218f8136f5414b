package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// TCPProber TCP 建连探测，延迟为三次握手耗时
type TCPProber struct {
	resolver *Resolver
}

// NewTCPProber 创建 TCP 探测器
func NewTCPProber(resolver *Resolver) *TCPProber {
	return &TCPProber{resolver: resolver}
}

// Probe 实现 interfaces.Prober
func (p *TCPProber) Probe(ctx context.Context, target types.Target, timeout time.Duration) types.ProbeOutcome {
	start := time.Now()

	ip, err := p.resolver.Resolve(ctx, target.Host)
	if err != nil {
		return fail(start, err)
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(ip.String(), strconv.Itoa(target.Port)))
	if err != nil {
		return fail(start, err)
	}
	rtt := time.Since(start)
	_ = conn.Close()

	return types.Succeeded(start, rtt)
}
