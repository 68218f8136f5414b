package interfaces

import (
	"context"
	"time"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// Prober 单次探测原语
//
// 实现必须在 timeout 内返回；任何失败都以失败的 ProbeOutcome 表达，
// 不返回 error，也不应 panic（调用方仍会兜底 recover）。
type Prober interface {
	Probe(ctx context.Context, target types.Target, timeout time.Duration) types.ProbeOutcome
}

// ProberFunc 函数适配器
type ProberFunc func(ctx context.Context, target types.Target, timeout time.Duration) types.ProbeOutcome

// Probe 实现 Prober
func (f ProberFunc) Probe(ctx context.Context, target types.Target, timeout time.Duration) types.ProbeOutcome {
	return f(ctx, target, timeout)
}

// Hop 路由追踪的一跳
type Hop struct {
	TTL     int           `json:"ttl"`
	Addr    string        `json:"addr,omitempty"`
	RTT     time.Duration `json:"rtt,omitempty"`
	Reached bool          `json:"reached"`
}

// Tracer 路由追踪
type Tracer interface {
	Trace(ctx context.Context, host string, maxHops int, timeout time.Duration) ([]Hop, error)
}
