package sampler

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

var log = logger.Logger("sampler")

// Sampler 采样器
type Sampler struct {
	prober interfaces.Prober
	clock  clock.Clock

	progressEvery int
	progress      ProgressFunc
	metrics       interfaces.MetricsReporter
}

// New 创建采样器，clk 为 nil 时使用系统时钟
func New(prober interfaces.Prober, clk clock.Clock, opts ...Option) *Sampler {
	if clk == nil {
		clk = clock.New()
	}
	s := &Sampler{prober: prober, clock: clk}
	for _, o := range opts {
		o(s)
	}
	return s
}

// With 返回附加了选项的副本
func (s *Sampler) With(opts ...Option) *Sampler {
	cp := *s
	for _, o := range opts {
		o(&cp)
	}
	return &cp
}

// Sample 按计划采样
//
// 计划非法时返回 ErrInvalidPlan；ctx 取消时返回已采集的部分序列与 ctx.Err()。
func (s *Sampler) Sample(ctx context.Context, target types.Target, plan types.SamplingPlan) (*types.SampleSeries, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	series := &types.SampleSeries{
		Target:  target,
		Plan:    plan,
		Started: s.clock.Now(),
	}
	if plan.Count > 0 {
		series.Outcomes = make([]types.ProbeOutcome, 0, plan.Count)
	}
	deadline := series.Started.Add(plan.Duration)
	successes := 0

	for i := 0; ; i++ {
		if plan.Count > 0 && i >= plan.Count {
			break
		}
		if plan.Duration > 0 && !s.clock.Now().Before(deadline) {
			break
		}
		if err := ctx.Err(); err != nil {
			series.Finished = s.clock.Now()
			log.Debug("采样被取消", "target", target.String(), "samples", series.Len())
			return series, err
		}

		if i > 0 && plan.Interval > 0 {
			if err := s.wait(ctx, plan.Interval); err != nil {
				series.Finished = s.clock.Now()
				return series, err
			}
			// 间隔等待可能越过时长边界
			if plan.Duration > 0 && !s.clock.Now().Before(deadline) {
				break
			}
		}

		o := s.probeOnce(ctx, target, plan.Timeout)
		series.Outcomes = append(series.Outcomes, o)
		if o.Success {
			successes++
		}
		if s.metrics != nil {
			s.metrics.ObserveProbe(target, o)
		}
		if s.progress != nil && series.Len()%s.progressEvery == 0 {
			s.progress(Progress{
				Target:         target,
				Done:           series.Len(),
				Total:          plan.Count,
				SuccessRatePct: float64(successes) * 100 / float64(series.Len()),
			})
		}
	}

	series.Finished = s.clock.Now()
	log.Debug("采样完成", "target", target.String(), "samples", series.Len(), "ok", successes)
	return series, nil
}

// probeOnce 执行一次受超时约束的探测
//
// 探测在独立 goroutine 中执行；超时后立即返回失败样本，
// 挂起的探测随 probeCtx 取消自行退出。
func (s *Sampler) probeOnce(ctx context.Context, target types.Target, timeout time.Duration) types.ProbeOutcome {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan types.ProbeOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Warn("探测 panic", "target", target.String(), "panic", r)
				done <- types.Failed(s.clock.Now(), types.ErrorUnknown, fmt.Sprintf("probe panic: %v", r))
			}
		}()
		done <- s.prober.Probe(probeCtx, target, timeout)
	}()

	select {
	case o := <-done:
		if o.Timestamp.IsZero() {
			o.Timestamp = s.clock.Now()
		}
		if !o.Success && o.ErrorKind == types.ErrorNone {
			o.ErrorKind = types.ErrorUnknown
		}
		return o
	case <-probeCtx.Done():
		return types.Failed(s.clock.Now(), types.ErrorTimeout, "probe timed out after "+timeout.String())
	}
}

func (s *Sampler) wait(ctx context.Context, d time.Duration) error {
	t := s.clock.Timer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func formatProgress(p Progress) string {
	if p.Total > 0 {
		return fmt.Sprintf("%s: %d/%d probes, %.1f%% success", p.Target.String(), p.Done, p.Total, p.SuccessRatePct)
	}
	return fmt.Sprintf("%s: %d probes, %.1f%% success", p.Target.String(), p.Done, p.SuccessRatePct)
}
