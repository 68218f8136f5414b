package probe

import (
	"context"
	"errors"
	"net"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// ErrTraceUnprivileged 路由追踪需要原始套接字
var ErrTraceUnprivileged = errors.New("traceroute requires a raw ICMP socket (run privileged)")

// Tracer 基于 ICMP Echo 的路由追踪
type Tracer struct {
	icmp *ICMPProber
}

// NewTracer 创建路由追踪器
func NewTracer(p *ICMPProber) *Tracer {
	return &Tracer{icmp: p}
}

// Trace 实现 interfaces.Tracer
//
// 每跳发送一个 TTL 受限的 Echo；中间路由器返回 Time Exceeded，
// 目标返回 Echo Reply 后停止。未应答的跳 Addr 为空。
func (t *Tracer) Trace(ctx context.Context, host string, maxHops int, timeout time.Duration) ([]interfaces.Hop, error) {
	if !t.icmp.privileged {
		return nil, ErrTraceUnprivileged
	}

	dst, err := t.icmp.resolver.Resolve(ctx, host)
	if err != nil {
		return nil, err
	}

	conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	pc := conn.IPv4PacketConn()
	hops := make([]interfaces.Hop, 0, maxHops)
	buf := make([]byte, 1500)

	for ttl := 1; ttl <= maxHops; ttl++ {
		if err := ctx.Err(); err != nil {
			return hops, err
		}
		if err := pc.SetTTL(ttl); err != nil {
			return hops, err
		}

		seq := 0x8000 | ttl
		m := t.icmp.echo(seq)
		b, err := m.Marshal(nil)
		if err != nil {
			return hops, err
		}
		sent := time.Now()
		if _, err := conn.WriteTo(b, &net.IPAddr{IP: dst}); err != nil {
			return hops, err
		}
		_ = conn.SetReadDeadline(deadline(ctx, timeout))

		hop := t.awaitHop(conn, buf, dst, seq, sent)
		hop.TTL = ttl
		hops = append(hops, hop)
		log.Debug("traceroute hop", "ttl", ttl, "addr", hop.Addr, "rtt", hop.RTT)
		if hop.Reached {
			break
		}
	}
	return hops, nil
}

func (t *Tracer) awaitHop(conn *icmp.PacketConn, buf []byte, dst net.IP, seq int, sent time.Time) interfaces.Hop {
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			return interfaces.Hop{}
		}
		msg, err := icmp.ParseMessage(protocolICMP, buf[:n])
		if err != nil {
			continue
		}
		from := addrIP(peer)
		switch msg.Type {
		case ipv4.ICMPTypeTimeExceeded, ipv4.ICMPTypeDestinationUnreachable:
			if !t.icmp.quotesOurs(msg.Body, seq) {
				continue
			}
			return interfaces.Hop{Addr: from.String(), RTT: time.Since(sent), Reached: from.Equal(dst)}
		case ipv4.ICMPTypeEchoReply:
			echo, ok := msg.Body.(*icmp.Echo)
			if !ok || echo.Seq != seq || echo.ID != t.icmp.id {
				continue
			}
			return interfaces.Hop{Addr: from.String(), RTT: time.Since(sent), Reached: true}
		}
	}
}
