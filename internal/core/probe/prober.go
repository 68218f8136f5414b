package probe

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

var log = logger.Logger("probe")

// Prober 按探测类型分派的探测器
type Prober struct {
	byKind map[types.ProbeKind]interfaces.Prober
	clock  clock.Clock
}

// NewProber 创建分派探测器
//
// clk 只用于分派层自身产生的失败时间戳，为 nil 时使用系统时钟。
func NewProber(resolver *Resolver, clk clock.Clock, privileged bool, payloadSize int) *Prober {
	if clk == nil {
		clk = clock.New()
	}
	return &Prober{
		byKind: map[types.ProbeKind]interfaces.Prober{
			types.ProbeICMP: NewICMPProber(resolver, privileged, payloadSize),
			types.ProbeTCP:  NewTCPProber(resolver),
			types.ProbeDNS:  NewDNSProber("udp"),
			types.ProbeSTUN: NewSTUNProber(resolver),
		},
		clock: clk,
	}
}

// Register 替换某一类型的探测实现
func (p *Prober) Register(kind types.ProbeKind, impl interfaces.Prober) {
	p.byKind[kind] = impl
}

// Probe 实现 interfaces.Prober
func (p *Prober) Probe(ctx context.Context, target types.Target, timeout time.Duration) types.ProbeOutcome {
	impl, ok := p.byKind[target.Kind]
	if !ok {
		return types.Failed(p.clock.Now(), types.ErrorUnknown, "unsupported probe kind "+target.Kind.String())
	}
	o := impl.Probe(ctx, target, timeout)
	if !o.Success {
		log.Debug("探测失败", "target", target.String(), "kind", o.ErrorKind.String(), "detail", o.Detail)
	}
	return o
}

// ICMP 返回 ICMP 探测器，用于构造 Tracer
func (p *Prober) ICMP() *ICMPProber {
	icmp, _ := p.byKind[types.ProbeICMP].(*ICMPProber)
	return icmp
}
