package doctor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/internal/core/diagnosis"
	"github.com/dep2p/go-linkdiag/internal/core/metrics"
	"github.com/dep2p/go-linkdiag/internal/core/probe"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// ============================================================================
//                              完整流程
// ============================================================================

func TestRun_Healthy(t *testing.T) {
	sink := &sinkRecorder{}
	reporter := metrics.NewReporter("test")
	deps := testDeps(newFakeProber())
	deps.Sink = sink
	deps.Metrics = reporter

	ses, err := runDoctor(t, context.Background(), deps, testConfig())
	require.NoError(t, err)

	assert.Equal(t, types.SessionConnected, ses.State)
	assert.NotEmpty(t, ses.ID)
	assert.Equal(t, types.RootCauseAllPassed, ses.Diagnosis.RootCause)
	require.Len(t, ses.Snapshot.Records, len(Catalog()))

	// 展示顺序与目录一致
	for i, e := range Catalog() {
		assert.Equal(t, e.Name, ses.Snapshot.Records[i].Name)
		assert.Equal(t, e.Category, ses.Snapshot.Records[i].Category)
	}

	// 系统检查的 FAIL 被降为 WARN
	assert.Equal(t, types.SeverityWarn, get(t, ses.Snapshot, CheckMemory).Severity)
	assert.Equal(t, types.SeverityWarn, ses.Snapshot.OverallStatus())

	assert.Equal(t, types.SeverityInfo, get(t, ses.Snapshot, CheckCredentials).Severity)
	assert.Equal(t, "1000 Mbps", get(t, ses.Snapshot, CheckLinkSpeed).Detail)
	assert.Contains(t, get(t, ses.Snapshot, CheckGateway).Detail, "100.64.0.1")
	assert.Contains(t, get(t, ses.Snapshot, CheckMapping).Detail, "203.0.113.7:40000")
	assert.Equal(t, types.StabilityStable, get(t, ses.Snapshot, CheckStability).Class)
	assert.Equal(t, types.SeverityInfo, get(t, ses.Snapshot, CheckTrace).Severity)
	assert.Contains(t, get(t, ses.Snapshot, CheckTrace).Detail, "2 hops")

	totals := reporter.Totals()
	assert.Equal(t, int64(len(Catalog())), totals.Checks)
	assert.Positive(t, totals.Probes)

	joined := strings.Join(sink.lines, "\n")
	assert.Contains(t, joined, "Diagnosis session "+ses.ID)
	assert.Contains(t, joined, "% success")

	report := ses.Report()
	assert.Equal(t, ses.ID, report.SessionID)
	assert.Len(t, report.Checks, len(Catalog()))
}

func TestRun_LinkDown(t *testing.T) {
	deps := testDeps(newFakeProber())
	deps.Link = fakeMonitor{status: interfaces.LinkStatus{Up: false, Source: "sysfs"}}

	ses, err := runDoctor(t, context.Background(), deps, testConfig())
	require.NoError(t, err)

	assert.Equal(t, types.SessionLinkDown, ses.State)
	assert.Equal(t, types.RootCauseLinkDown, ses.Diagnosis.RootCause)
	assert.Equal(t, types.SeverityFail, get(t, ses.Snapshot, CheckLinkState).Severity)
	for _, rec := range ses.Snapshot.Records {
		if rec.Order >= 22 {
			assert.Equal(t, types.SeverityNA, rec.Severity, rec.Name)
			assert.Equal(t, "skipped: link is down", rec.Detail)
		}
	}
	assert.Len(t, ses.Snapshot.Records, len(Catalog()))
}

func TestRun_AdapterMissing(t *testing.T) {
	deps := testDeps(newFakeProber())
	deps.Adapters = fakeSelector{err: interfaces.ErrNoAdapter}

	ses, err := runDoctor(t, context.Background(), deps, testConfig())
	require.NoError(t, err)
	assert.Equal(t, types.SessionLinkDown, ses.State)
	assert.Equal(t, types.RootCauseAdapterMissing, ses.Diagnosis.RootCause)
}

func TestRun_RemoteUnreachable(t *testing.T) {
	deps := testDeps(newFakeProber().on(remoteONT, never))

	ses, err := runDoctor(t, context.Background(), deps, testConfig())
	require.NoError(t, err)
	assert.Equal(t, types.SessionLinkDown, ses.State)
	assert.Equal(t, types.RootCauseRemoteUnreachable, ses.Diagnosis.RootCause)
	assert.Contains(t, get(t, ses.Snapshot, CheckRemote).Detail, "no reply")
}

func TestRun_AuthFailed(t *testing.T) {
	cfg := testConfig()
	cfg.Session.PPP = true
	deps := testDeps(newFakeProber())
	deps.Authenticator = fakeAuth{res: interfaces.AuthResult{ErrorCode: "691"}}

	ses, err := runDoctor(t, context.Background(), deps, cfg)
	require.NoError(t, err)

	assert.Equal(t, types.SessionAuthFailed, ses.State)
	assert.Equal(t, types.RootCauseAuthFailed, ses.Diagnosis.RootCause)
	assert.Equal(t, "bad username or password (691)", get(t, ses.Snapshot, CheckAuthentication).Detail)
	assert.Equal(t, types.SeverityOK, get(t, ses.Snapshot, CheckCredentials).Severity)
	for _, name := range []string{CheckSessionIface, CheckGateway, CheckStability, CheckTrace} {
		rec := get(t, ses.Snapshot, name)
		assert.Equal(t, types.SeverityNA, rec.Severity, name)
		assert.Equal(t, "skipped: session not established", rec.Detail)
	}
}

func TestRun_CredentialsMissing(t *testing.T) {
	cfg := testConfig()
	cfg.Session.PPP = true
	deps := testDeps(newFakeProber())
	deps.Credentials = fakeCreds{creds: interfaces.Credentials{Username: "user@isp"}}

	ses, err := runDoctor(t, context.Background(), deps, cfg)
	require.NoError(t, err)
	assert.Equal(t, types.RootCauseCredentialsMissing, ses.Diagnosis.RootCause)
	assert.Equal(t, types.SeverityNA, get(t, ses.Snapshot, CheckAuthentication).Severity)
}

func TestRun_SessionInterfaceMissing(t *testing.T) {
	cfg := testConfig()
	cfg.Session.PPP = true
	deps := testDeps(newFakeProber())
	deps.Sessions = fakeSessions{err: interfaces.ErrInterfaceNotFound}

	ses, err := runDoctor(t, context.Background(), deps, cfg)
	require.NoError(t, err)
	assert.Equal(t, types.SessionAuthFailed, ses.State)
	assert.Equal(t, types.RootCauseSessionIfaceAbsent, ses.Diagnosis.RootCause)
	assert.Equal(t, "ppp0 not present", get(t, ses.Snapshot, CheckSessionIface).Detail)
}

func TestRun_NextHopPolicy(t *testing.T) {
	noPeer := fakeSessions{si: interfaces.SessionInterface{Up: true, LocalAddrs: []string{"100.64.0.10"}}}

	t.Run("optional", func(t *testing.T) {
		deps := testDeps(newFakeProber())
		deps.Sessions = noPeer

		ses, err := runDoctor(t, context.Background(), deps, testConfig())
		require.NoError(t, err)
		assert.Equal(t, types.SessionConnected, ses.State)
		assert.Equal(t, types.SeverityWarn, get(t, ses.Snapshot, CheckNextHop).Severity)
		// 无对端地址时网关取适配器默认网关
		assert.Contains(t, get(t, ses.Snapshot, CheckGateway).Detail, gwHost)
	})

	t.Run("required", func(t *testing.T) {
		cfg := testConfig()
		cfg.Session.PeerAddressRequired = true
		deps := testDeps(newFakeProber())
		deps.Sessions = noPeer

		ses, err := runDoctor(t, context.Background(), deps, cfg)
		require.NoError(t, err)
		assert.Equal(t, types.SessionAuthFailed, ses.State)
		assert.Equal(t, types.SeverityFail, get(t, ses.Snapshot, CheckNextHop).Severity)
		assert.Equal(t, types.RootCauseSessionIfaceAbsent, ses.Diagnosis.RootCause)
	})
}

func TestRun_ExternalUnreachable(t *testing.T) {
	deps := testDeps(newFakeProber().on(extHost, never).on(tcpHost, never))

	ses, err := runDoctor(t, context.Background(), deps, testConfig())
	require.NoError(t, err)

	assert.Equal(t, types.SessionConnected, ses.State)
	assert.Equal(t, types.RootCauseExternalUnreachable, ses.Diagnosis.RootCause)
	assert.Equal(t, types.SeverityFail, get(t, ses.Snapshot, CheckExternal).Severity)
	assert.Equal(t, types.SeverityFail, get(t, ses.Snapshot, CheckTCP).Severity)
	// 整段无响应是一段连续中断，先于丢包比例命中
	assert.Equal(t, types.StabilityIntermittentDrops, get(t, ses.Snapshot, CheckStability).Class)

	// 扇出建连最多给出 WARN
	capacity := get(t, ses.Snapshot, CheckCapacity)
	assert.Equal(t, types.SeverityWarn, capacity.Severity)
	assert.Equal(t, 3, capacity.Stats.Total)
}

func TestRun_Unstable(t *testing.T) {
	deps := testDeps(newFakeProber().on(extHost, func(i int) bool { return i%10 != 9 }))

	ses, err := runDoctor(t, context.Background(), deps, testConfig())
	require.NoError(t, err)

	st := get(t, ses.Snapshot, CheckStability)
	assert.Equal(t, types.StabilityUnstable, st.Class)
	assert.Equal(t, types.SeverityWarn, st.Severity)
	assert.Equal(t, types.RootCauseLinkUnstable, ses.Diagnosis.RootCause)
	assert.Contains(t, ses.Diagnosis.Explanation, "longest outage")
}

func TestRun_ScatteredLossIsSevere(t *testing.T) {
	// 隔一个丢一个：稳定性采样 10 次中 5 次失败，最长中断 1
	deps := testDeps(newFakeProber().on(extHost, func(i int) bool { return i%2 == 1 }))

	ses, err := runDoctor(t, context.Background(), deps, testConfig())
	require.NoError(t, err)

	st := get(t, ses.Snapshot, CheckStability)
	require.NotNil(t, st.Stats)
	assert.Equal(t, 10, st.Stats.Total)
	assert.Equal(t, 5, st.Stats.FailCount)
	assert.Equal(t, 1, st.Stats.MaxConsecutiveFailures)
	assert.Equal(t, types.StabilitySevereInstability, st.Class)
	assert.Equal(t, types.SeverityFail, st.Severity)
	assert.Equal(t, types.SeverityWarn, get(t, ses.Snapshot, CheckExternal).Severity)
}

func TestRun_InvalidPlanIsFail(t *testing.T) {
	cfg := testConfig()
	cfg.Extended.Jitter = config.PlanConfig{Count: 5, Duration: config.Duration(time.Second)}

	ses, err := runDoctor(t, context.Background(), testDeps(newFakeProber()), cfg)
	require.NoError(t, err)

	rec := get(t, ses.Snapshot, CheckJitter)
	assert.Equal(t, types.SeverityFail, rec.Severity)
	assert.Contains(t, rec.Detail, "sampling error")
	assert.Contains(t, rec.Detail, types.ErrInvalidPlan.Error())
	// 后续检查照常执行
	assert.Equal(t, types.StabilityStable, get(t, ses.Snapshot, CheckLoss).Class)
	assert.Equal(t, types.SeverityOK, get(t, ses.Snapshot, CheckDNSStable).Severity)
}

func TestRun_STUNFailureIsWarn(t *testing.T) {
	deps := testDeps(newFakeProber().on(stunHost, never))

	ses, err := runDoctor(t, context.Background(), deps, testConfig())
	require.NoError(t, err)
	assert.Equal(t, types.SeverityWarn, get(t, ses.Snapshot, CheckMapping).Severity)
	assert.Equal(t, types.RootCauseAllPassed, ses.Diagnosis.RootCause)
}

func TestRun_TraceUnprivileged(t *testing.T) {
	deps := testDeps(newFakeProber())
	deps.Tracer = fakeTracer{err: probe.ErrTraceUnprivileged}

	ses, err := runDoctor(t, context.Background(), deps, testConfig())
	require.NoError(t, err)
	rec := get(t, ses.Snapshot, CheckTrace)
	assert.Equal(t, types.SeverityInfo, rec.Severity)
	assert.Contains(t, rec.Detail, "unavailable")
}

func TestRun_ExtendedDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Extended.Enabled = false

	ses, err := runDoctor(t, context.Background(), testDeps(newFakeProber()), cfg)
	require.NoError(t, err)
	for _, name := range append(extendedChecks, CheckTrace) {
		assert.Equal(t, types.SeverityNA, get(t, ses.Snapshot, name).Severity, name)
	}
}

// ============================================================================
//                              边界与异常
// ============================================================================

func TestRun_CollaboratorPanic(t *testing.T) {
	deps := testDeps(newFakeProber())
	deps.Link = fakeMonitor{panic: true}

	ses, err := runDoctor(t, context.Background(), deps, testConfig())
	require.NoError(t, err)

	rec := get(t, ses.Snapshot, CheckLinkState)
	assert.Equal(t, types.SeverityFail, rec.Severity)
	assert.Equal(t, "internal error: driver exploded", rec.Detail)
	assert.Equal(t, types.SessionLinkDown, ses.State)
	assert.Equal(t, types.RootCauseLinkDown, ses.Diagnosis.RootCause)
}

func TestRun_CollaboratorError(t *testing.T) {
	deps := testDeps(newFakeProber())
	deps.Link = fakeMonitor{err: errors.New("netlink: permission denied")}

	ses, err := runDoctor(t, context.Background(), deps, testConfig())
	require.NoError(t, err)
	assert.Equal(t, "status unavailable: netlink: permission denied", get(t, ses.Snapshot, CheckLinkState).Detail)
}

func TestGuard_InvariantViolationPanics(t *testing.T) {
	d, err := New(testDeps(newFakeProber()), testConfig())
	require.NoError(t, err)
	r := d.newRun()

	assert.Panics(t, func() {
		r.guard(context.Background(), phase{name: "bad", run: func(context.Context) {
			panic(&types.InvariantViolation{Component: "stats", Message: "boom"})
		}})
	})
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	archive := &fakeArchive{}
	deps := testDeps(newFakeProber())
	deps.Archive = archive

	ses, err := runDoctor(t, ctx, deps, testConfig())
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, ses)

	require.Len(t, ses.Snapshot.Records, len(Catalog()))
	for _, rec := range ses.Snapshot.Records {
		assert.Equal(t, types.SeverityNA, rec.Severity)
		assert.Equal(t, "skipped: diagnosis cancelled", rec.Detail)
	}
	// 空结果落入兜底规则
	assert.Equal(t, types.RootCauseAllPassed, ses.Diagnosis.RootCause)
	assert.Empty(t, archive.saved)
}

func TestRun_RecurringRootCause(t *testing.T) {
	cfg := testConfig()
	cfg.Archive.RecurringWindow = 3
	archive := &fakeArchive{prev: []*types.Report{
		{SessionID: "b", Diagnosis: types.DiagnosisResult{RootCause: types.RootCauseLinkDown}},
		{SessionID: "a", Diagnosis: types.DiagnosisResult{RootCause: types.RootCauseLinkDown}},
	}}
	deps := testDeps(newFakeProber())
	deps.Link = fakeMonitor{status: interfaces.LinkStatus{Up: false, Source: "sysfs"}}
	deps.Archive = archive

	ses, err := runDoctor(t, context.Background(), deps, cfg)
	require.NoError(t, err)

	guidance := ses.Diagnosis.Guidance
	require.NotEmpty(t, guidance)
	assert.Contains(t, guidance[len(guidance)-1], "previous 2 sessions")

	require.Len(t, archive.saved, 1)
	assert.Equal(t, ses.ID, archive.saved[0].SessionID)
	assert.Equal(t, types.RootCauseLinkDown, archive.saved[0].Diagnosis.RootCause)
}

func TestNew_MissingDependency(t *testing.T) {
	_, err := New(Deps{}, testConfig())
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestAuthPhrase(t *testing.T) {
	assert.Equal(t, "bad username or password", AuthPhrase("ERROR_AUTHENTICATION_FAILURE"))
	assert.Equal(t, "no answer from remote", AuthPhrase("678"))
	assert.Equal(t, "port disconnected", AuthPhrase("619"))
	assert.Equal(t, "device or link error", AuthPhrase("651"))
	assert.Equal(t, "error 999", AuthPhrase("999"))
	assert.Equal(t, "unknown error", AuthPhrase(""))
}

func TestCatalog(t *testing.T) {
	seen := map[string]bool{}
	last := 0
	for _, e := range Catalog() {
		assert.False(t, seen[e.Name], e.Name)
		seen[e.Name] = true
		assert.Greater(t, e.Order, last)
		last = e.Order
	}
	_, ok := Lookup("nope")
	assert.False(t, ok)
}

// ============================================================================
//                              Fx 模块
// ============================================================================

func TestModule(t *testing.T) {
	deps := testDeps(newFakeProber())

	var d *Doctor
	app := fxtest.New(t,
		Module(),
		diagnosis.Module(),
		fx.Provide(
			func() interfaces.Prober { return deps.Prober },
			func() interfaces.AdapterSelector { return deps.Adapters },
			func() interfaces.LinkMonitor { return deps.Link },
		),
		fx.Populate(&d),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, d)
	assert.NotNil(t, d.deps.Engine)
	assert.True(t, d.cfg.Extended.Enabled)
}
