package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/internal/core/archive"
	"github.com/dep2p/go-linkdiag/internal/core/diagnosis"
	"github.com/dep2p/go-linkdiag/internal/core/ledger"
	"github.com/dep2p/go-linkdiag/internal/core/sampler"
	"github.com/dep2p/go-linkdiag/internal/core/stability"
	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

var log = logger.Logger("doctor")

// ============================================================================
//                              配置与依赖
// ============================================================================

// Config 编排所需的配置分节
type Config struct {
	Link      config.LinkConfig
	Session   config.SessionConfig
	Targets   config.TargetsConfig
	Probe     config.ProbeConfig
	Sampling  config.SamplingConfig
	Stability config.StabilityConfig
	Extended  config.ExtendedConfig
	Archive   config.ArchiveConfig
}

// DefaultConfig 返回默认编排配置
func DefaultConfig() Config {
	return Config{
		Link:      config.DefaultLinkConfig(),
		Session:   config.DefaultSessionConfig(),
		Targets:   config.DefaultTargetsConfig(),
		Probe:     config.DefaultProbeConfig(),
		Sampling:  config.DefaultSamplingConfig(),
		Stability: config.DefaultStabilityConfig(),
		Extended:  config.DefaultExtendedConfig(),
		Archive:   config.DefaultArchiveConfig(),
	}
}

// ConfigFrom 从完整配置提取编排配置
func ConfigFrom(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		Link:      cfg.Link,
		Session:   cfg.Session,
		Targets:   cfg.Targets,
		Probe:     cfg.Probe,
		Sampling:  cfg.Sampling,
		Stability: cfg.Stability,
		Extended:  cfg.Extended,
		Archive:   cfg.Archive,
	}
}

// Deps 协作者
//
// Prober、Adapters、Link 必需；其余为 nil 时对应检查记为 INFO 或跳过。
type Deps struct {
	Prober        interfaces.Prober
	Tracer        interfaces.Tracer
	System        interfaces.SystemInspector
	Adapters      interfaces.AdapterSelector
	Link          interfaces.LinkMonitor
	Credentials   interfaces.CredentialSource
	Authenticator interfaces.Authenticator
	Sessions      interfaces.SessionInspector
	Sink          interfaces.LogSink
	Metrics       interfaces.MetricsReporter
	Archive       interfaces.Archive
	Engine        *diagnosis.Engine
	Clock         clock.Clock
}

// ErrMissingDependency 缺少必需协作者
var ErrMissingDependency = errors.New("doctor: missing required dependency")

func (d Deps) validate() error {
	switch {
	case d.Prober == nil:
		return fmt.Errorf("%w: prober", ErrMissingDependency)
	case d.Adapters == nil:
		return fmt.Errorf("%w: adapter selector", ErrMissingDependency)
	case d.Link == nil:
		return fmt.Errorf("%w: link monitor", ErrMissingDependency)
	}
	return nil
}

// ============================================================================
//                              Doctor
// ============================================================================

// Doctor 诊断编排器
type Doctor struct {
	deps       Deps
	cfg        Config
	classifier *stability.Classifier
}

// New 创建编排器
func New(deps Deps, cfg Config) (*Doctor, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Engine == nil {
		deps.Engine = diagnosis.NewEngine()
	}
	return &Doctor{
		deps: deps,
		cfg:  cfg,
		classifier: stability.New(stability.Thresholds{
			MostlyStablePct: cfg.Stability.MostlyStablePct,
			DropRunLength:   cfg.Stability.DropRunLength,
			SevereFailRatio: cfg.Stability.SevereFailRatio,
		}),
	}, nil
}

// Session 一次诊断会话的结果
type Session struct {
	ID        string
	Started   time.Time
	Finished  time.Time
	State     types.SessionState
	Snapshot  ledger.Snapshot
	Diagnosis types.DiagnosisResult
}

// Report 转换为可渲染、可存档的报告
func (s *Session) Report() *types.Report {
	return &types.Report{
		SessionID: s.ID,
		Started:   s.Started,
		Finished:  s.Finished,
		State:     s.State,
		Overall:   s.Snapshot.OverallStatus(),
		Checks:    s.Snapshot.Records,
		Diagnosis: s.Diagnosis,
	}
}

// Run 执行一次完整诊断
//
// 总是返回会话结果。ctx 在阶段之间被检查；取消时剩余检查记为 N/A，
// 并同时返回 ctx.Err()。
func (d *Doctor) Run(ctx context.Context) (*Session, error) {
	r := d.newRun()
	log.Info("开始诊断", "session", r.id)
	r.note("Diagnosis session %s started", r.id)

	var runErr error
	for _, p := range r.phases() {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if r.state.Terminal() {
			break
		}
		log.Debug("进入阶段", "phase", p.name, "state", r.state)
		r.guard(ctx, p)
	}
	if runErr == nil {
		runErr = ctx.Err()
	}

	switch {
	case r.state == types.SessionLinkDown:
		r.fillNA("skipped: link is down")
	case r.state == types.SessionAuthFailed:
		r.fillNA("skipped: session not established")
	case runErr != nil:
		r.fillNA("skipped: diagnosis cancelled")
	default:
		r.fillNA("skipped")
	}

	snap := r.ledger.Snapshot()
	ses := &Session{
		ID:        r.id,
		Started:   r.started,
		Finished:  d.deps.Clock.Now(),
		State:     r.state,
		Snapshot:  snap,
		Diagnosis: d.deps.Engine.Diagnose(snap),
	}
	if runErr == nil {
		d.archive(ctx, ses)
	}

	log.Info("诊断完成", "session", ses.ID, "state", ses.State, "overall", snap.OverallStatus(), "root_cause", ses.Diagnosis.RootCause)
	r.note("Diagnosis finished: %s", ses.Diagnosis.Title)
	return ses, runErr
}

// archive 附加反复出现说明并保存会话，存档失败只记录日志
func (d *Doctor) archive(ctx context.Context, ses *Session) {
	if d.deps.Archive == nil {
		return
	}
	window := d.cfg.Archive.RecurringWindow
	if window >= 2 {
		prev, err := d.deps.Archive.Recent(ctx, window-1)
		if err != nil {
			log.Warn("读取历史会话失败", "err", err)
		} else if archive.Recurring(ses.Diagnosis.RootCause, prev, window) {
			ses.Diagnosis.Guidance = append(ses.Diagnosis.Guidance, archive.RecurringNote(window))
		}
	}
	if err := d.deps.Archive.Save(ctx, ses.Report()); err != nil {
		log.Warn("会话存档失败", "session", ses.ID, "err", err)
	}
}

// ============================================================================
//                              run - 单次会话状态
// ============================================================================

// run 单次会话的可变状态，只由编排控制流访问
type run struct {
	*Doctor

	id      string
	started time.Time
	ledger  *ledger.Ledger
	sampler *sampler.Sampler
	state   types.SessionState

	adapter interfaces.AdapterHandle
	iface   string
	peer    string
}

func (d *Doctor) newRun() *run {
	opts := []sampler.Option{sampler.WithSink(d.cfg.Sampling.ProgressEvery, d.deps.Sink)}
	if d.deps.Metrics != nil {
		opts = append(opts, sampler.WithMetrics(d.deps.Metrics))
	}
	return &run{
		Doctor:  d,
		id:      uuid.NewString(),
		started: d.deps.Clock.Now(),
		ledger:  ledger.New(d.deps.Clock),
		sampler: sampler.New(d.deps.Prober, d.deps.Clock, opts...),
		state:   types.SessionNotStarted,
	}
}

// phase 编排阶段
type phase struct {
	name   string
	checks []string
	// onFail 阶段内 panic 时进入的状态
	onFail types.SessionState
	run    func(ctx context.Context)
}

func (r *run) phases() []phase {
	return []phase{
		{"system", []string{CheckHost, CheckLoad, CheckMemory}, types.SessionNotStarted, r.system},
		{"link", []string{CheckAdapter, CheckLinkState, CheckLinkSpeed, CheckRemote}, types.SessionLinkDown, r.link},
		{"auth", []string{CheckCredentials, CheckAuthentication}, types.SessionAuthFailed, r.auth},
		{"interface", []string{CheckSessionIface, CheckSessionAddr, CheckNextHop}, types.SessionAuthFailed, r.sessionInterface},
		{"connectivity", []string{CheckGateway, CheckExternal, CheckDNS, CheckTCP}, types.SessionNotStarted, r.connectivity},
		{"extended", []string{CheckStability, CheckJitter, CheckLoss, CheckBurst, CheckDNSStable, CheckCapacity, CheckMapping}, types.SessionNotStarted, r.extended},
		{"trace", []string{CheckTrace}, types.SessionNotStarted, r.trace},
	}
}

// guard 执行阶段并把 panic 转为 FAIL 记录
//
// 契约破坏属于编程错误，继续向上 panic。
func (r *run) guard(ctx context.Context, p phase) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if err, ok := v.(error); ok && types.IsInvariantViolation(err) {
			panic(v)
		}
		log.Error("阶段异常", "phase", p.name, "panic", v)
		for _, name := range p.checks {
			if !r.ledger.Has(name) {
				r.record(name, types.SeverityFail, fmt.Sprintf("internal error: %v", v))
				break
			}
		}
		if p.onFail != types.SessionNotStarted {
			r.state = p.onFail
		}
	}()
	p.run(ctx)
}

// record 按目录登记一条检查
func (r *run) record(name string, sev types.Severity, detail string) {
	e, ok := Lookup(name)
	if !ok {
		panic(&types.InvariantViolation{Component: "doctor", Message: "check not in catalogue: " + name})
	}
	r.append(types.CheckRecord{Name: name, Order: e.Order, Severity: sev, Category: e.Category, Detail: detail})
}

// recordStats 登记带统计的检查
func (r *run) recordStats(name string, sev types.Severity, detail string, st types.Stats, class types.StabilityClass) {
	e, _ := Lookup(name)
	r.append(types.CheckRecord{
		Name: name, Order: e.Order, Severity: sev, Category: e.Category, Detail: detail,
		Stats: &st, Class: class,
	})
}

func (r *run) append(rec types.CheckRecord) {
	if err := r.ledger.Append(rec); err != nil {
		panic(&types.InvariantViolation{Component: "doctor", Message: err.Error()})
	}
	if r.deps.Metrics != nil {
		r.deps.Metrics.ObserveCheck(rec)
	}
	r.note("%s: %s", rec.Name, rec.StatusText())
}

// fillNA 把目录中尚未登记的检查记为 N/A
func (r *run) fillNA(reason string) {
	for _, e := range catalog {
		if !r.ledger.Has(e.Name) {
			r.record(e.Name, types.SeverityNA, reason)
		}
	}
}

func (r *run) note(format string, args ...any) {
	if r.deps.Sink != nil {
		r.deps.Sink.Log(fmt.Sprintf(format, args...))
	}
}
