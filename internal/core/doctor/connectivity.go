package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/internal/core/pool"
	"github.com/dep2p/go-linkdiag/internal/core/stats"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// ============================================================================
//                              connectivity
// ============================================================================

func (r *run) connectivity(ctx context.Context) {
	r.gateway(ctx)
	if ctx.Err() != nil {
		return
	}
	r.external(ctx)
	if ctx.Err() != nil {
		return
	}
	r.dns(ctx, CheckDNS, r.basicPlan(), false)
	if ctx.Err() != nil {
		return
	}
	r.tcp(ctx)
}

// gatewayAddr 显式配置优先，其次会话对端，最后适配器默认网关
func (r *run) gatewayAddr() string {
	switch {
	case r.cfg.Targets.Gateway != "":
		return r.cfg.Targets.Gateway
	case r.peer != "":
		return r.peer
	default:
		return r.adapter.Gateway
	}
}

func (r *run) gateway(ctx context.Context) {
	addr := r.gatewayAddr()
	if addr == "" {
		r.record(CheckGateway, types.SeverityInfo, "no gateway address known")
		return
	}
	target := types.Target{Kind: types.ProbeICMP, Host: addr, Label: "gateway"}
	st, ok := r.sample(ctx, CheckGateway, target, r.basicPlan())
	if !ok {
		return
	}
	r.recordStats(CheckGateway, reachSeverity(st), reachDetail(addr, st), st, types.StabilityUnknown)
}

// external 逐个采样外部目标；全部无响应 FAIL，部分丢失 WARN
func (r *run) external(ctx context.Context) {
	var (
		parts   []string
		all     []types.ProbeOutcome
		reached int
	)
	for _, host := range r.cfg.Targets.External {
		target := types.Target{Kind: types.ProbeICMP, Host: host, Label: "external"}
		series, err := r.sampler.Sample(ctx, target, r.basicPlan())
		if err != nil {
			r.samplingFailed(ctx, CheckExternal, err)
			return
		}
		st := stats.Aggregate(series)
		if st.SuccessCount > 0 {
			reached++
		}
		all = append(all, series.Outcomes...)
		parts = append(parts, reachDetail(host, st))
	}
	if len(parts) == 0 {
		r.record(CheckExternal, types.SeverityInfo, "no external targets configured")
		return
	}

	total := stats.FromOutcomes(all)
	sev := reachSeverity(total)
	if reached == 0 {
		sev = types.SeverityFail
	}
	r.recordStats(CheckExternal, sev, strings.Join(parts, "; "), total, types.StabilityUnknown)
}

// dns 采样 DNS 查询；classify 为 true 时按稳定性分级给出严重度
func (r *run) dns(ctx context.Context, name string, plan types.SamplingPlan, classify bool) {
	host, port, err := config.SplitHostPort(r.cfg.Targets.DNSServer)
	if err != nil {
		r.record(name, types.SeverityFail, "bad resolver address: "+err.Error())
		return
	}
	target := types.Target{Kind: types.ProbeDNS, Host: host, Port: port, Query: r.cfg.Targets.DNSQuery, Label: "resolver"}
	st, ok := r.sample(ctx, name, target, plan)
	if !ok {
		return
	}

	detail := fmt.Sprintf("%s via %s", r.cfg.Targets.DNSQuery, target.Addr())
	if !classify {
		if st.SuccessCount == 0 {
			detail += ": no answer"
		} else {
			detail += fmt.Sprintf(": %d/%d answered, avg %.1f ms", st.SuccessCount, st.Total, st.AvgLatencyMs)
		}
		r.recordStats(name, reachSeverity(st), detail, st, types.StabilityUnknown)
		return
	}
	class := r.classifier.Classify(st)
	r.recordStats(name, class.Severity(), fmt.Sprintf("%s, %s", class, lossDetail(st)), st, class)
}

// tcp 并发建连，每个目标一次
func (r *run) tcp(ctx context.Context) {
	targets, bad := r.tcpTargets(r.cfg.Targets.TCP, 1)
	if len(targets) == 0 {
		if bad != "" {
			r.record(CheckTCP, types.SeverityFail, bad)
		} else {
			r.record(CheckTCP, types.SeverityInfo, "no TCP targets configured")
		}
		return
	}

	outcomes := r.fanOut(ctx, targets)
	var parts []string
	for i, o := range outcomes {
		if o.Success {
			parts = append(parts, fmt.Sprintf("%s %.1f ms", targets[i].Addr(), o.LatencyMs()))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s", targets[i].Addr(), o.ErrorKind))
		}
	}
	st := stats.FromOutcomes(outcomes)
	r.recordStats(CheckTCP, reachSeverity(st), strings.Join(parts, "; "), st, types.StabilityUnknown)
}

// tcpTargets 把 host:port 列表展开为重复 repeat 次的 TCP 目标
func (r *run) tcpTargets(addrs []string, repeat int) ([]types.Target, string) {
	var out []types.Target
	for _, a := range addrs {
		host, port, err := config.SplitHostPort(a)
		if err != nil {
			return nil, "bad endpoint " + a + ": " + err.Error()
		}
		for i := 0; i < repeat; i++ {
			out = append(out, types.Target{Kind: types.ProbeTCP, Host: host, Port: port})
		}
	}
	return out, ""
}

// fanOut 在工作池中对每个目标探测一次
func (r *run) fanOut(ctx context.Context, targets []types.Target) []types.ProbeOutcome {
	timeout := r.cfg.Probe.Timeout.Duration()
	return pool.Run(ctx, r.deps.Clock, r.cfg.Sampling.Concurrency, r.cfg.Sampling.PhaseTimeout.Duration(), targets,
		func(ctx context.Context, t types.Target) types.ProbeOutcome {
			o := r.deps.Prober.Probe(ctx, t, timeout)
			if r.deps.Metrics != nil {
				r.deps.Metrics.ObserveProbe(t, o)
			}
			return o
		})
}

func lossDetail(st types.Stats) string {
	return fmt.Sprintf("%.1f%% loss (%d/%d), longest outage %d", st.LossRatePct(), st.FailCount, st.Total, st.MaxConsecutiveFailures)
}
