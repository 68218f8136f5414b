package doctor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/internal/core/ledger"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// ============================================================================
//                              测试替身
// ============================================================================

// fakeProber 按主机脚本化结果，i 为该主机的第几次探测
type fakeProber struct {
	mu     sync.Mutex
	calls  map[string]int
	script map[string]func(i int) bool
}

func newFakeProber() *fakeProber {
	return &fakeProber{calls: map[string]int{}, script: map[string]func(int) bool{}}
}

func (p *fakeProber) on(host string, fn func(i int) bool) *fakeProber {
	p.script[host] = fn
	return p
}

func (p *fakeProber) Probe(_ context.Context, t types.Target, _ time.Duration) types.ProbeOutcome {
	p.mu.Lock()
	i := p.calls[t.Host]
	p.calls[t.Host] = i + 1
	fn := p.script[t.Host]
	p.mu.Unlock()

	if fn != nil && !fn(i) {
		return types.Failed(time.Now(), types.ErrorTimeout, "timeout")
	}
	o := types.Succeeded(time.Now(), 5*time.Millisecond)
	if t.Kind == types.ProbeSTUN {
		o.Detail = "203.0.113.7:40000"
	}
	return o
}

func never(int) bool { return false }

type fakeSelector struct {
	handle interfaces.AdapterHandle
	err    error
}

func (s fakeSelector) SelectAdapter(context.Context) (interfaces.AdapterHandle, error) {
	return s.handle, s.err
}

type fakeMonitor struct {
	status interfaces.LinkStatus
	err    error
	panic  bool
}

func (m fakeMonitor) LinkStatus(context.Context, interfaces.AdapterHandle) (interfaces.LinkStatus, error) {
	if m.panic {
		panic("driver exploded")
	}
	return m.status, m.err
}

type fakeCreds struct {
	creds interfaces.Credentials
	err   error
}

func (c fakeCreds) Credentials(context.Context) (interfaces.Credentials, error) { return c.creds, c.err }

type fakeAuth struct {
	res interfaces.AuthResult
	err error
}

func (a fakeAuth) Authenticate(context.Context, interfaces.Credentials) (interfaces.AuthResult, error) {
	return a.res, a.err
}

type fakeSessions struct {
	si  interfaces.SessionInterface
	err error
}

func (s fakeSessions) Inspect(_ context.Context, name string) (interfaces.SessionInterface, error) {
	if s.err != nil {
		return interfaces.SessionInterface{}, s.err
	}
	si := s.si
	si.Name = name
	return si, nil
}

type fakeTracer struct {
	hops []interfaces.Hop
	err  error
}

func (t fakeTracer) Trace(context.Context, string, int, time.Duration) ([]interfaces.Hop, error) {
	return t.hops, t.err
}

type fakeSystem struct{}

func (fakeSystem) Inspect(context.Context) ([]interfaces.SystemFact, error) {
	return []interfaces.SystemFact{
		{Name: CheckHost, Severity: types.SeverityOK, Detail: "edge"},
		{Name: CheckLoad, Severity: types.SeverityOK, Detail: "load 0.1"},
		{Name: CheckMemory, Severity: types.SeverityFail, Detail: "99% used"},
	}, nil
}

type fakeArchive struct {
	mu    sync.Mutex
	saved []*types.Report
	prev  []*types.Report
}

func (a *fakeArchive) Save(_ context.Context, r *types.Report) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saved = append(a.saved, r)
	return nil
}

func (a *fakeArchive) Recent(_ context.Context, n int) ([]*types.Report, error) {
	if n > len(a.prev) {
		n = len(a.prev)
	}
	return a.prev[:n], nil
}

type sinkRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (s *sinkRecorder) Log(m string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, m)
}

// ============================================================================
//                              夹具
// ============================================================================

const (
	extHost   = "198.51.100.1"
	dnsHost   = "192.0.2.53"
	tcpHost   = "192.0.2.80"
	stunHost  = "192.0.2.3"
	gwHost    = "192.168.1.1"
	remoteONT = "192.168.100.1"
)

func testConfig() Config {
	cfg := DefaultConfig()
	fast := config.Duration(time.Millisecond)
	cfg.Probe.Timeout = config.Duration(50 * time.Millisecond)
	cfg.Sampling.Basic = config.PlanConfig{Count: 4, Interval: fast}
	cfg.Sampling.ProgressEvery = 5
	cfg.Targets = config.TargetsConfig{
		Remote:    remoteONT,
		External:  []string{extHost},
		DNSServer: dnsHost + ":53",
		DNSQuery:  "example.com",
		TCP:       []string{tcpHost + ":443"},
		STUN:      []string{stunHost + ":3478"},
		Trace:     extHost,
	}
	cfg.Extended.Stability = config.PlanConfig{Count: 10, Interval: fast}
	cfg.Extended.Jitter = config.PlanConfig{Count: 5, Interval: fast}
	cfg.Extended.Loss = config.PlanConfig{Count: 20, Interval: fast}
	cfg.Extended.DNS = config.PlanConfig{Count: 5, Interval: fast}
	cfg.Extended.Burst = config.BurstConfig{Count: 10, RPS: 1000, LossDeltaPct: 10}
	cfg.Extended.Capacity = config.CapacityConfig{Repeat: 3}
	return cfg
}

func testDeps(p *fakeProber) Deps {
	return Deps{
		Prober:        p,
		Tracer:        fakeTracer{hops: []interfaces.Hop{{TTL: 1, Addr: gwHost, RTT: time.Millisecond}, {TTL: 2, Addr: extHost, RTT: 9 * time.Millisecond, Reached: true}}},
		System:        fakeSystem{},
		Adapters:      fakeSelector{handle: interfaces.AdapterHandle{Name: "eth0", HardwareAddr: "02:00:00:00:00:01", Addrs: []string{"192.168.1.10/24"}, Gateway: gwHost}},
		Link:          fakeMonitor{status: interfaces.LinkStatus{Up: true, SpeedBps: 1_000_000_000, Source: "sysfs"}},
		Credentials:   fakeCreds{creds: interfaces.Credentials{Username: "user@isp", Password: "secret"}},
		Authenticator: fakeAuth{res: interfaces.AuthResult{Success: true, Interface: "ppp0"}},
		Sessions:      fakeSessions{si: interfaces.SessionInterface{Up: true, LocalAddrs: []string{"100.64.0.10"}, PeerAddr: "100.64.0.1"}},
	}
}

func runDoctor(t *testing.T, ctx context.Context, deps Deps, cfg Config) (*Session, error) {
	t.Helper()
	d, err := New(deps, cfg)
	require.NoError(t, err)
	return d.Run(ctx)
}

func get(t *testing.T, snap ledger.Snapshot, name string) types.CheckRecord {
	t.Helper()
	rec, ok := snap.Get(name)
	require.True(t, ok, "check %q not recorded", name)
	return rec
}
