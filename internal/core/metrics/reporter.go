package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

var log = logger.Logger("metrics")

// 延迟直方图分桶（秒），覆盖局域网到跨洲链路
var latencyBuckets = []float64{.001, .002, .005, .01, .02, .05, .1, .2, .5, 1, 2}

// Reporter Prometheus 指标上报器
type Reporter struct {
	registry *prometheus.Registry

	probes  *prometheus.CounterVec
	latency *prometheus.HistogramVec
	checks  *prometheus.CounterVec

	totals Totals
}

var _ interfaces.MetricsReporter = (*Reporter)(nil)

// NewReporter 创建上报器
func NewReporter(namespace string) *Reporter {
	r := &Reporter{
		registry: prometheus.NewRegistry(),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Probes issued, by kind and result.",
		}, []string{"kind", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_latency_seconds",
			Help:      "Round-trip latency of successful probes.",
			Buckets:   latencyBuckets,
		}, []string{"kind"}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Check records appended to the ledger, by severity and category.",
		}, []string{"severity", "category"}),
	}
	r.registry.MustRegister(r.probes, r.latency, r.checks)
	return r
}

// ObserveProbe 实现 interfaces.MetricsReporter
func (r *Reporter) ObserveProbe(target types.Target, outcome types.ProbeOutcome) {
	kind := target.Kind.String()
	r.probes.WithLabelValues(kind, outcome.ErrorKind.String()).Inc()
	r.totals.probes.Add(1)
	if outcome.Success {
		r.latency.WithLabelValues(kind).Observe(outcome.Latency.Seconds())
		return
	}
	r.totals.failures.Add(1)
}

// ObserveCheck 实现 interfaces.MetricsReporter
func (r *Reporter) ObserveCheck(rec types.CheckRecord) {
	r.checks.WithLabelValues(rec.Severity.String(), rec.Category.String()).Inc()
	r.totals.checks.Add(1)
	if rec.Severity.IsProblem() {
		r.totals.problems.Add(1)
	}
}

// Registry 返回指标注册表
func (r *Reporter) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextFile 以 textfile 格式写出当前指标
func (r *Reporter) WriteTextFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return err
	}
	log.Debug("指标已写出", "path", path)
	return nil
}

// Totals 返回汇总快照
func (r *Reporter) Totals() Snapshot {
	return r.totals.snapshot()
}

// ============================================================================
//                              Totals - 汇总计数
// ============================================================================

// Totals 会话级汇总计数
type Totals struct {
	probes   atomic.Int64
	failures atomic.Int64
	checks   atomic.Int64
	problems atomic.Int64
}

// Snapshot 汇总快照
type Snapshot struct {
	Probes   int64
	Failures int64
	Checks   int64
	Problems int64
}

// SuccessRatePct 探测成功率（百分比），无探测时为 0
func (s Snapshot) SuccessRatePct() float64 {
	if s.Probes == 0 {
		return 0
	}
	return float64(s.Probes-s.Failures) * 100 / float64(s.Probes)
}

func (t *Totals) snapshot() Snapshot {
	return Snapshot{
		Probes:   t.probes.Load(),
		Failures: t.failures.Load(),
		Checks:   t.checks.Load(),
		Problems: t.problems.Load(),
	}
}

// ============================================================================
//                              Nop
// ============================================================================

// Nop 不记录任何指标
type Nop struct{}

// ObserveProbe 实现 interfaces.MetricsReporter
func (Nop) ObserveProbe(types.Target, types.ProbeOutcome) {}

// ObserveCheck 实现 interfaces.MetricsReporter
func (Nop) ObserveCheck(types.CheckRecord) {}
