package probe

import (
	"context"
	"time"

	"github.com/miekg/dns"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// DNSProber 向指定服务器查询 A 记录
type DNSProber struct {
	net string
}

// NewDNSProber 创建 DNS 探测器，network 为 "udp" 或 "tcp"
func NewDNSProber(network string) *DNSProber {
	if network == "" {
		network = "udp"
	}
	return &DNSProber{net: network}
}

// Probe 实现 interfaces.Prober
//
// target.Host/Port 为 DNS 服务器，target.Query 为查询的域名。
// SERVFAIL / REFUSED 归为 refused，NXDOMAIN 与空应答归为 unknown。
func (p *DNSProber) Probe(ctx context.Context, target types.Target, timeout time.Duration) types.ProbeOutcome {
	start := time.Now()

	c := &dns.Client{Net: p.net, Timeout: timeout}
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(target.Query), dns.TypeA)
	m.RecursionDesired = true

	server := target.Addr()
	if target.Port == 0 {
		server = target.Host + ":53"
	}

	r, rtt, err := c.ExchangeContext(ctx, m, server)
	if err != nil {
		return fail(start, err)
	}

	switch r.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeServerFailure, dns.RcodeRefused:
		return types.Failed(start, types.ErrorRefused, "rcode "+dns.RcodeToString[r.Rcode])
	default:
		return types.Failed(start, types.ErrorUnknown, "rcode "+dns.RcodeToString[r.Rcode])
	}

	for _, rr := range r.Answer {
		if a, ok := rr.(*dns.A); ok {
			o := types.Succeeded(start, rtt)
			o.Detail = a.A.String()
			return o
		}
	}
	return types.Failed(start, types.ErrorUnknown, "no A record in answer")
}
