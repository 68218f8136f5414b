package probe

import (
	"context"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// protocolICMP IPv4 ICMP 协议号
const protocolICMP = 1

// ICMPProber ICMP Echo 探测
type ICMPProber struct {
	resolver   *Resolver
	privileged bool
	payload    []byte
	id         int
	seq        uint32
}

// NewICMPProber 创建 ICMP 探测器
//
// privileged 为 true 时使用原始套接字（需要 CAP_NET_RAW），
// 否则使用内核的非特权 UDP ping 套接字（net.ipv4.ping_group_range）。
func NewICMPProber(resolver *Resolver, privileged bool, payloadSize int) *ICMPProber {
	payload := make([]byte, payloadSize)
	for i := range payload {
		payload[i] = byte('a' + i%26)
	}
	return &ICMPProber{
		resolver:   resolver,
		privileged: privileged,
		payload:    payload,
		id:         os.Getpid() & 0xffff,
	}
}

// Probe 实现 interfaces.Prober
func (p *ICMPProber) Probe(ctx context.Context, target types.Target, timeout time.Duration) types.ProbeOutcome {
	start := time.Now()

	ip, err := p.resolver.Resolve(ctx, target.Host)
	if err != nil {
		return fail(start, err)
	}

	conn, err := p.listen()
	if err != nil {
		return fail(start, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.SetDeadline(deadline(ctx, timeout)); err != nil {
		return fail(start, err)
	}

	seq := int(atomic.AddUint32(&p.seq, 1) & 0xffff)
	m := p.echo(seq)
	b, err := m.Marshal(nil)
	if err != nil {
		return fail(start, err)
	}

	sent := time.Now()
	if _, err := conn.WriteTo(b, p.dst(ip)); err != nil {
		return fail(start, err)
	}

	buf := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return fail(start, ctx.Err())
			}
			return fail(start, err)
		}
		rtt := time.Since(sent)

		msg, err := icmp.ParseMessage(protocolICMP, buf[:n])
		if err != nil {
			continue
		}
		switch msg.Type {
		case ipv4.ICMPTypeEchoReply:
			echo, ok := msg.Body.(*icmp.Echo)
			if !ok || echo.Seq != seq || !p.ownID(echo.ID) || !addrIP(peer).Equal(ip) {
				continue
			}
			return types.Succeeded(start, rtt)
		case ipv4.ICMPTypeDestinationUnreachable:
			if !p.quotesOurs(msg.Body, seq) {
				continue
			}
			return types.Failed(start, types.ErrorUnreachable, "destination unreachable from "+addrIP(peer).String())
		}
	}
}

func (p *ICMPProber) listen() (*icmp.PacketConn, error) {
	if p.privileged {
		return icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	}
	return icmp.ListenPacket("udp4", "0.0.0.0")
}

func (p *ICMPProber) echo(seq int) icmp.Message {
	return icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{ID: p.id, Seq: seq, Data: p.payload},
	}
}

func (p *ICMPProber) dst(ip net.IP) net.Addr {
	if p.privileged {
		return &net.IPAddr{IP: ip}
	}
	return &net.UDPAddr{IP: ip}
}

// ownID 非特权套接字的 ID 由内核改写，只能按序号匹配
func (p *ICMPProber) ownID(id int) bool {
	return !p.privileged || id == p.id
}

// quotesOurs 检查 ICMP 差错报文引用的原始报文是否为本次探测
func (p *ICMPProber) quotesOurs(body icmp.MessageBody, seq int) bool {
	var data []byte
	switch b := body.(type) {
	case *icmp.DstUnreach:
		data = b.Data
	case *icmp.TimeExceeded:
		data = b.Data
	default:
		return false
	}
	id, s, ok := quotedEcho(data)
	if !ok {
		// 部分路由器只引用 IP 头
		return true
	}
	return s == seq && p.ownID(id)
}

// quotedEcho 从差错报文引用的 IPv4 头 + 8 字节中取出 Echo 的 ID 与序号
func quotedEcho(data []byte) (id, seq int, ok bool) {
	if len(data) < ipv4.HeaderLen {
		return 0, 0, false
	}
	hl := int(data[0]&0x0f) * 4
	if len(data) < hl+8 {
		return 0, 0, false
	}
	e := data[hl:]
	return int(e[4])<<8 | int(e[5]), int(e[6])<<8 | int(e[7]), true
}

func addrIP(a net.Addr) net.IP {
	switch v := a.(type) {
	case *net.IPAddr:
		return v.IP
	case *net.UDPAddr:
		return v.IP
	}
	return nil
}

// deadline 取 timeout 与 ctx 截止时间中较早者
func deadline(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if cd, ok := ctx.Deadline(); ok && cd.Before(d) {
		return cd
	}
	return d
}
