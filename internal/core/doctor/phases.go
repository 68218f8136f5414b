package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dep2p/go-linkdiag/internal/core/stats"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// ============================================================================
//                              system
// ============================================================================

func (r *run) system(ctx context.Context) {
	if r.deps.System == nil {
		r.fillPhase(types.SeverityInfo, "not inspected", CheckHost, CheckLoad, CheckMemory)
		return
	}
	facts, err := r.deps.System.Inspect(ctx)
	if err != nil {
		r.fillPhase(types.SeverityInfo, "unavailable: "+err.Error(), CheckHost, CheckLoad, CheckMemory)
		return
	}
	for _, f := range facts {
		if _, ok := Lookup(f.Name); !ok || r.ledger.Has(f.Name) {
			log.Debug("忽略未知系统检查", "name", f.Name)
			continue
		}
		// 系统检查从不阻断后续阶段
		sev := f.Severity
		if sev == types.SeverityFail {
			sev = types.SeverityWarn
		}
		r.record(f.Name, sev, f.Detail)
	}
	r.fillPhase(types.SeverityInfo, "not reported", CheckHost, CheckLoad, CheckMemory)
}

// fillPhase 为尚未登记的检查写入同一结果
func (r *run) fillPhase(sev types.Severity, detail string, names ...string) {
	for _, n := range names {
		if !r.ledger.Has(n) {
			r.record(n, sev, detail)
		}
	}
}

// ============================================================================
//                              link
// ============================================================================

func (r *run) link(ctx context.Context) {
	adapter, err := r.deps.Adapters.SelectAdapter(ctx)
	if err != nil {
		r.record(CheckAdapter, types.SeverityFail, err.Error())
		r.state = types.SessionLinkDown
		return
	}
	r.adapter = adapter
	r.record(CheckAdapter, types.SeverityOK, describeAdapter(adapter))

	status, err := r.deps.Link.LinkStatus(ctx, adapter)
	switch {
	case err != nil:
		r.record(CheckLinkState, types.SeverityFail, "status unavailable: "+err.Error())
		r.state = types.SessionLinkDown
		return
	case !status.Up:
		r.record(CheckLinkState, types.SeverityFail, fmt.Sprintf("no carrier on %s (%s)", adapter.Name, status.Source))
		r.state = types.SessionLinkDown
		return
	}
	r.record(CheckLinkState, types.SeverityOK, fmt.Sprintf("up (%s)", status.Source))

	mbps := status.SpeedBps / 1_000_000
	minMbps := uint64(r.cfg.Link.MinSpeedMbps)
	switch {
	case status.SpeedBps == 0:
		r.record(CheckLinkSpeed, types.SeverityInfo, "speed not reported")
	case mbps < minMbps:
		r.record(CheckLinkSpeed, types.SeverityWarn, fmt.Sprintf("%d Mbps, below the expected %d Mbps; check cable and port negotiation", mbps, minMbps))
	default:
		r.record(CheckLinkSpeed, types.SeverityOK, fmt.Sprintf("%d Mbps", mbps))
	}

	if r.cfg.Targets.Remote == "" {
		r.record(CheckRemote, types.SeverityInfo, "no remote termination address configured")
		return
	}
	target := types.Target{Kind: types.ProbeICMP, Host: r.cfg.Targets.Remote, Label: "ONT"}
	st, ok := r.sample(ctx, CheckRemote, target, r.basicPlan())
	if !ok {
		return
	}
	sev := reachSeverity(st)
	r.recordStats(CheckRemote, sev, reachDetail(target.Host, st), st, types.StabilityUnknown)
	if sev == types.SeverityFail {
		r.state = types.SessionLinkDown
	}
}

func describeAdapter(a interfaces.AdapterHandle) string {
	s := a.Name
	var extra []string
	if a.HardwareAddr != "" {
		extra = append(extra, a.HardwareAddr)
	}
	extra = append(extra, a.Addrs...)
	if len(extra) > 0 {
		s += " (" + strings.Join(extra, ", ") + ")"
	}
	return s
}

// ============================================================================
//                              auth
// ============================================================================

func (r *run) auth(ctx context.Context) {
	if !r.cfg.Session.PPP {
		r.record(CheckCredentials, types.SeverityInfo, "not configured (no point-to-point session)")
		r.record(CheckAuthentication, types.SeverityInfo, "not configured (no point-to-point session)")
		return
	}
	if r.deps.Credentials == nil || r.deps.Authenticator == nil {
		r.record(CheckCredentials, types.SeverityFail, interfaces.ErrCredentialsUnavailable.Error())
		r.state = types.SessionAuthFailed
		return
	}

	creds, err := r.deps.Credentials.Credentials(ctx)
	switch {
	case err != nil:
		r.record(CheckCredentials, types.SeverityFail, err.Error())
		r.state = types.SessionAuthFailed
		return
	case creds.Empty():
		r.record(CheckCredentials, types.SeverityFail, "username or password missing")
		r.state = types.SessionAuthFailed
		return
	}
	r.record(CheckCredentials, types.SeverityOK, describeCredentials(creds))

	actx, cancel := context.WithTimeout(ctx, r.cfg.Session.Timeout.Duration())
	res, err := r.deps.Authenticator.Authenticate(actx, creds)
	cancel()
	switch {
	case err != nil:
		r.record(CheckAuthentication, types.SeverityFail, err.Error())
		r.state = types.SessionAuthFailed
		return
	case !res.Success:
		r.record(CheckAuthentication, types.SeverityFail, fmt.Sprintf("%s (%s)", AuthPhrase(res.ErrorCode), res.ErrorCode))
		r.state = types.SessionAuthFailed
		return
	}
	r.iface = res.Interface
	if r.iface == "" {
		r.iface = r.cfg.Session.Interface
	}
	r.record(CheckAuthentication, types.SeverityOK, "session established")
}

func describeCredentials(c interfaces.Credentials) string {
	s := "user " + c.Username
	if c.Remote {
		s += ", stored on router"
	} else {
		s += ", password set"
	}
	if c.Service != "" {
		s += ", service " + c.Service
	}
	return s
}

// ============================================================================
//                              interface
// ============================================================================

// sessionInterface 检查会话接口；未启用点对点会话时检查适配器本身
func (r *run) sessionInterface(ctx context.Context) {
	name := r.iface
	if !r.cfg.Session.PPP {
		name = r.adapter.Name
	}
	if r.deps.Sessions == nil {
		r.fillPhase(types.SeverityInfo, "not inspected", CheckSessionIface, CheckSessionAddr, CheckNextHop)
		r.state = types.SessionConnected
		return
	}

	si, err := r.deps.Sessions.Inspect(ctx, name)
	switch {
	case errors.Is(err, interfaces.ErrInterfaceNotFound):
		r.record(CheckSessionIface, types.SeverityFail, fmt.Sprintf("%s not present", name))
		r.state = types.SessionAuthFailed
		return
	case err != nil:
		r.record(CheckSessionIface, types.SeverityFail, err.Error())
		r.state = types.SessionAuthFailed
		return
	case !si.Up:
		r.record(CheckSessionIface, types.SeverityFail, fmt.Sprintf("%s is down", si.Name))
		r.state = types.SessionAuthFailed
		return
	}
	r.record(CheckSessionIface, types.SeverityOK, fmt.Sprintf("%s is up", si.Name))

	if len(si.LocalAddrs) == 0 {
		r.record(CheckSessionAddr, types.SeverityFail, "no address assigned")
		r.state = types.SessionAuthFailed
		return
	}
	r.record(CheckSessionAddr, types.SeverityOK, strings.Join(si.LocalAddrs, ", "))

	if si.PeerAddr == "" {
		if r.cfg.Session.PeerAddressRequired {
			r.record(CheckNextHop, types.SeverityFail, "no next-hop address assigned")
			r.state = types.SessionAuthFailed
			return
		}
		r.record(CheckNextHop, types.SeverityWarn, "no next-hop address assigned")
	} else {
		r.peer = si.PeerAddr
		r.record(CheckNextHop, types.SeverityOK, si.PeerAddr)
	}
	r.state = types.SessionConnected
}

// ============================================================================
//                              采样辅助
// ============================================================================

func (r *run) basicPlan() types.SamplingPlan {
	return r.cfg.Sampling.Basic.Plan(r.cfg.Probe.Timeout.Duration())
}

// sample 采样并聚合；失败时返回 false，非取消错误登记为 FAIL
func (r *run) sample(ctx context.Context, name string, target types.Target, plan types.SamplingPlan) (types.Stats, bool) {
	series, err := r.sampler.Sample(ctx, target, plan)
	if err != nil {
		log.Debug("采样中止", "target", target.String(), "err", err)
		r.samplingFailed(ctx, name, err)
		return types.Stats{}, false
	}
	st := stats.Aggregate(series)
	stats.MustValidate(st)
	return st, true
}

// samplingFailed 非取消导致的采样错误记为 FAIL；取消留给 fillNA
func (r *run) samplingFailed(ctx context.Context, name string, err error) {
	if ctx.Err() != nil {
		return
	}
	r.record(name, types.SeverityFail, "sampling error: "+err.Error())
}

// reachSeverity 可达性检查：全部失败 FAIL，部分失败 WARN
func reachSeverity(st types.Stats) types.Severity {
	switch {
	case st.SuccessCount == 0:
		return types.SeverityFail
	case st.FailCount > 0:
		return types.SeverityWarn
	default:
		return types.SeverityOK
	}
}

func reachDetail(host string, st types.Stats) string {
	if st.SuccessCount == 0 {
		return fmt.Sprintf("%s: no reply to %d probes", host, st.Total)
	}
	return fmt.Sprintf("%s: %d/%d replies, avg %.1f ms", host, st.SuccessCount, st.Total, st.AvgLatencyMs)
}
