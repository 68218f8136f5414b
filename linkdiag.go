package linkdiag

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/internal/app"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// Run 执行一次完整诊断并返回报告
//
// 取消 ctx 会中止剩余检查：已完成的检查保留，其余记为 N/A，
// 返回的报告依然完整，此时不写入存档。
//
// 示例：
//
//	report, err := linkdiag.Run(ctx, linkdiag.WithQuick())
func Run(ctx context.Context, opts ...Option) (report *types.Report, err error) {
	rt, err := start(opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, rt.Stop(context.Background()))
	}()

	session, runErr := rt.Doctor.Run(ctx)
	if runErr != nil && (session == nil || ctx.Err() == nil) {
		return nil, fmt.Errorf("run diagnosis: %w", runErr)
	}
	return session.Report(), nil
}

// Watch 按固定间隔持续诊断，直到 ctx 取消
//
// 每完成一次会话即调用 fn，并在启用自省服务时更新最近报告。
// 被取消打断的会话不回调。ctx 取消属于正常退出，返回 nil；
// fn 返回错误时停止监测并返回该错误。
func Watch(ctx context.Context, interval time.Duration, fn func(*types.Report) error, opts ...Option) (err error) {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	rt, err := start(opts)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, rt.Stop(context.Background()))
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		session, runErr := rt.Doctor.Run(ctx)
		if runErr != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("run diagnosis: %w", runErr)
		}
		report := session.Report()
		rt.Introspect.Publish(report)
		if fn != nil {
			if err := fn(report); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// History 返回最近 n 次存档会话，最新的在前
func History(ctx context.Context, n int, opts ...Option) (reports []*types.Report, err error) {
	if n <= 0 {
		return nil, ErrInvalidHistoryCount
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	cfg, err := o.buildConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Archive.Enabled {
		return nil, ErrArchiveDisabled
	}

	rt, err := build(cfg, o)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, rt.Stop(context.Background()))
	}()

	reports, err = rt.Archive.Recent(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return reports, nil
}

// Config 按选项生成最终配置（不启动任何组件）
//
// 用于 `linkdiag config` 之类的场景打印生效配置。
func Config(opts ...Option) (*config.Config, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return o.buildConfig()
}

func start(opts []Option) (*app.Runtime, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	cfg, err := o.buildConfig()
	if err != nil {
		return nil, err
	}
	return build(cfg, o)
}

func build(cfg *config.Config, o *options) (*app.Runtime, error) {
	rt, err := app.NewBootstrap(cfg, app.WithFxOptions(o.fxOptions...)).Build()
	if err != nil {
		return nil, fmt.Errorf("build runtime: %w", err)
	}
	return rt, nil
}

func applyOptions(opts []Option) (*options, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	return o, nil
}
