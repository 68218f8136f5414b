package sampler

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// ErrInvalidBurst Burst 参数非法
var ErrInvalidBurst = errors.New("invalid burst: count, rate and timeout must be positive")

// Burst 以 rps 的节奏发出 count 个探测，不等待前一个完成
//
// 返回的序列按发出顺序排列；ctx 取消后不再发出新探测，已发出的探测仍会汇合。
func (s *Sampler) Burst(ctx context.Context, target types.Target, count int, rps float64, timeout time.Duration) (*types.SampleSeries, error) {
	if count <= 0 || rps <= 0 || timeout <= 0 {
		return nil, ErrInvalidBurst
	}

	series := &types.SampleSeries{
		Target:  target,
		Plan:    types.SamplingPlan{Count: count, Interval: time.Duration(float64(time.Second) / rps), Timeout: timeout},
		Started: s.clock.Now(),
	}
	outcomes := make([]types.ProbeOutcome, count)
	limiter := rate.NewLimiter(rate.Limit(rps), 1)

	var (
		g       errgroup.Group
		issued  int
		waitErr error
	)
	for i := 0; i < count; i++ {
		if waitErr = limiter.Wait(ctx); waitErr != nil {
			break
		}
		i := i
		issued++
		g.Go(func() error {
			outcomes[i] = s.probeOnce(ctx, target, timeout)
			return nil
		})
	}
	_ = g.Wait()

	series.Outcomes = outcomes[:issued]
	if s.metrics != nil {
		for _, o := range series.Outcomes {
			s.metrics.ObserveProbe(target, o)
		}
	}
	series.Finished = s.clock.Now()
	log.Debug("突发采样完成", "target", target.String(), "issued", issued, "rps", rps)

	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return series, ctxErr
		}
		return series, waitErr
	}
	return series, nil
}
