// Package pool 提供阶段内的有界并发探测
//
// 一个阶段内针对互不相关目标的探测可以并发执行：
//   - 并发度由 limit 约束
//   - 每个任务自带探测超时，阶段整体另有 phaseTimeout（并行而非累加）
//   - 等待全部任务汇合后才返回，结果与输入目标一一对应
//
// worker 只写自己的结果槽位，不触碰台账或采样序列。
package pool

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

var log = logger.Logger("pool")

// Func 单个目标的探测函数
type Func func(ctx context.Context, target types.Target) types.ProbeOutcome

// Run 以不超过 limit 的并发度对 targets 执行 fn，等待全部完成
//
// 返回的切片长度恒等于 len(targets)，顺序与 targets 一致。
// 阶段超时后尚未开始的任务记为 timeout 失败；fn 中的 panic 记为 unknown 失败，
// 两者的时间戳取自 clk（为 nil 时使用系统时钟）。
func Run(ctx context.Context, clk clock.Clock, limit int, phaseTimeout time.Duration, targets []types.Target, fn Func) []types.ProbeOutcome {
	out := make([]types.ProbeOutcome, len(targets))
	if len(targets) == 0 {
		return out
	}
	if clk == nil {
		clk = clock.New()
	}
	if limit <= 0 {
		limit = len(targets)
	}

	phaseCtx := ctx
	if phaseTimeout > 0 {
		var cancel context.CancelFunc
		phaseCtx, cancel = context.WithTimeout(ctx, phaseTimeout)
		defer cancel()
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			out[i] = call(phaseCtx, clk, t, fn)
			return nil
		})
	}
	// 任务从不返回 error，Wait 仅用于汇合
	_ = g.Wait()

	log.Debug("阶段并发探测完成", "targets", len(targets), "limit", limit)
	return out
}

func call(ctx context.Context, clk clock.Clock, t types.Target, fn Func) (o types.ProbeOutcome) {
	if err := ctx.Err(); err != nil {
		return types.Failed(clk.Now(), types.ErrorTimeout, "phase deadline: "+err.Error())
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn("探测 panic", "target", t.String(), "panic", r)
			o = types.Failed(clk.Now(), types.ErrorUnknown, fmt.Sprintf("probe panic: %v", r))
		}
	}()
	return fn(ctx, t)
}
