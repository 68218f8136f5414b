package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/internal/core/probe"
	"github.com/dep2p/go-linkdiag/internal/core/stats"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// ============================================================================
//                              extended
// ============================================================================

var extendedChecks = []string{CheckStability, CheckJitter, CheckLoss, CheckBurst, CheckDNSStable, CheckCapacity, CheckMapping}

func (r *run) extended(ctx context.Context) {
	if !r.cfg.Extended.Enabled {
		r.fillPhase(types.SeverityNA, "extended checks disabled", extendedChecks...)
		return
	}
	if len(r.cfg.Targets.External) == 0 {
		r.fillPhase(types.SeverityNA, "no external target configured", CheckStability, CheckJitter, CheckLoss, CheckBurst)
	} else {
		target := types.Target{Kind: types.ProbeICMP, Host: r.cfg.Targets.External[0], Label: "external"}
		steps := []func(context.Context, types.Target) bool{r.stability, r.jitter, r.lossAndBurst}
		for _, step := range steps {
			if !step(ctx, target) {
				return
			}
		}
	}

	ext := r.cfg.Extended
	r.dns(ctx, CheckDNSStable, ext.DNS.Plan(r.cfg.Probe.Timeout.Duration()), true)
	if ctx.Err() != nil {
		return
	}
	r.capacity(ctx)
	if ctx.Err() != nil {
		return
	}
	r.mapping(ctx)
}

func (r *run) plan(p config.PlanConfig) types.SamplingPlan {
	return p.Plan(r.cfg.Probe.Timeout.Duration())
}

func (r *run) stability(ctx context.Context, target types.Target) bool {
	st, ok := r.sample(ctx, CheckStability, target, r.plan(r.cfg.Extended.Stability))
	if !ok {
		return ctx.Err() == nil
	}
	class := r.classifier.Classify(st)
	detail := fmt.Sprintf("%s over %d probes to %s, %s", class, st.Total, target.Host, lossDetail(st))
	r.recordStats(CheckStability, class.Severity(), detail, st, class)
	return true
}

func (r *run) jitter(ctx context.Context, target types.Target) bool {
	st, ok := r.sample(ctx, CheckJitter, target, r.plan(r.cfg.Extended.Jitter))
	if !ok {
		return ctx.Err() == nil
	}
	ext := r.cfg.Extended
	var sev types.Severity
	switch {
	case st.SuccessCount < 2:
		r.recordStats(CheckJitter, types.SeverityWarn, "too few replies to measure jitter", st, types.StabilityUnknown)
		return true
	case st.JitterMs >= ext.JitterFailMs:
		sev = types.SeverityFail
	case st.JitterMs >= ext.JitterWarnMs:
		sev = types.SeverityWarn
	default:
		sev = types.SeverityOK
	}
	detail := fmt.Sprintf("%.1f ms (min %.1f, max %.1f, p95 %.1f, stddev %.2f)",
		st.JitterMs, st.MinLatencyMs, st.MaxLatencyMs, st.P95LatencyMs, st.StdDevLatencyMs)
	r.recordStats(CheckJitter, sev, detail, st, types.StabilityUnknown)
	return true
}

// lossAndBurst 先以常规节奏测丢包作为基线，再突发探测比较
func (r *run) lossAndBurst(ctx context.Context, target types.Target) bool {
	base, ok := r.sample(ctx, CheckLoss, target, r.plan(r.cfg.Extended.Loss))
	if !ok {
		if ctx.Err() != nil {
			return false
		}
		r.record(CheckBurst, types.SeverityNA, "skipped: no paced baseline")
		return true
	}
	class := r.classifier.Classify(base)
	r.recordStats(CheckLoss, class.Severity(), lossDetail(base), base, class)

	b := r.cfg.Extended.Burst
	series, err := r.sampler.Burst(ctx, target, b.Count, b.RPS, r.cfg.Probe.Timeout.Duration())
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		r.record(CheckBurst, types.SeverityInfo, err.Error())
		return true
	}
	burst := stats.Aggregate(series)
	delta := burst.LossRatePct() - base.LossRatePct()
	detail := fmt.Sprintf("%.1f%% loss at %.0f probes/s vs %.1f%% paced", burst.LossRatePct(), b.RPS, base.LossRatePct())
	sev := types.SeverityOK
	if delta > b.LossDeltaPct {
		sev = types.SeverityWarn
		detail += "; upstream ICMP rate limiting suspected"
	}
	r.recordStats(CheckBurst, sev, detail, burst, types.StabilityUnknown)
	return true
}

// capacity 并发建连扇出，结果汇合后分级，最多给出 WARN
func (r *run) capacity(ctx context.Context) {
	c := r.cfg.Extended.Capacity
	endpoints := c.Endpoints
	if len(endpoints) == 0 {
		endpoints = r.cfg.Targets.TCP
	}
	targets, bad := r.tcpTargets(endpoints, c.Repeat)
	if len(targets) == 0 {
		if bad == "" {
			bad = "no endpoints configured"
		}
		r.record(CheckCapacity, types.SeverityInfo, bad)
		return
	}

	st := stats.FromOutcomes(r.fanOut(ctx, targets))
	if ctx.Err() != nil {
		return
	}
	class := r.classifier.Classify(st)
	sev := class.Severity()
	if sev == types.SeverityFail {
		sev = types.SeverityWarn
	}
	detail := fmt.Sprintf("%d/%d connections to %d endpoints, avg %.1f ms", st.SuccessCount, st.Total, len(endpoints), st.AvgLatencyMs)
	r.recordStats(CheckCapacity, sev, detail, st, class)
}

// mapping 通过 STUN 获取公网映射地址，失败只给出 WARN
func (r *run) mapping(ctx context.Context) {
	if len(r.cfg.Targets.STUN) == 0 {
		r.record(CheckMapping, types.SeverityInfo, "no STUN servers configured")
		return
	}
	var failures []string
	for _, addr := range r.cfg.Targets.STUN {
		if ctx.Err() != nil {
			return
		}
		host, port, err := config.SplitHostPort(addr)
		if err != nil {
			failures = append(failures, addr+": "+err.Error())
			continue
		}
		target := types.Target{Kind: types.ProbeSTUN, Host: host, Port: port, Label: "stun"}
		o := r.deps.Prober.Probe(ctx, target, r.cfg.Probe.Timeout.Duration())
		if r.deps.Metrics != nil {
			r.deps.Metrics.ObserveProbe(target, o)
		}
		if o.Success {
			r.record(CheckMapping, types.SeverityOK, fmt.Sprintf("public address %s via %s", o.Detail, addr))
			return
		}
		failures = append(failures, fmt.Sprintf("%s: %s", addr, o.ErrorKind))
	}
	r.record(CheckMapping, types.SeverityWarn, "UDP mapping unavailable ("+strings.Join(failures, "; ")+")")
}

// ============================================================================
//                              trace
// ============================================================================

func (r *run) trace(ctx context.Context) {
	tc := r.cfg.Extended.Trace
	switch {
	case !r.cfg.Extended.Enabled || !tc.Enabled:
		r.record(CheckTrace, types.SeverityNA, "traceroute disabled")
		return
	case r.deps.Tracer == nil || r.cfg.Targets.Trace == "":
		r.record(CheckTrace, types.SeverityInfo, "unavailable")
		return
	}

	hops, err := r.deps.Tracer.Trace(ctx, r.cfg.Targets.Trace, tc.MaxHops, tc.HopTimeout.Duration())
	switch {
	case errors.Is(err, probe.ErrTraceUnprivileged):
		r.record(CheckTrace, types.SeverityInfo, "unavailable: "+err.Error())
		return
	case err != nil && len(hops) == 0:
		if ctx.Err() != nil {
			return
		}
		r.record(CheckTrace, types.SeverityWarn, err.Error())
		return
	}

	detail := formatHops(hops)
	if len(hops) == 0 || !hops[len(hops)-1].Reached {
		r.record(CheckTrace, types.SeverityWarn, fmt.Sprintf("%s not reached within %d hops: %s", r.cfg.Targets.Trace, tc.MaxHops, detail))
		return
	}
	r.record(CheckTrace, types.SeverityInfo, fmt.Sprintf("%d hops to %s: %s", len(hops), r.cfg.Targets.Trace, detail))
}

func formatHops(hops []interfaces.Hop) string {
	parts := make([]string, 0, len(hops))
	for _, h := range hops {
		if h.Addr == "" {
			parts = append(parts, fmt.Sprintf("%d *", h.TTL))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s %.1fms", h.TTL, h.Addr, float64(h.RTT.Microseconds())/1000))
	}
	return strings.Join(parts, ", ")
}
