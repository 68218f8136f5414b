package app

import (
	"context"

	"github.com/dep2p/go-linkdiag/internal/core/doctor"
	"github.com/dep2p/go-linkdiag/internal/debug/introspect"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// Runtime 表示一个已通过 fx 组装完成的诊断运行时
type Runtime struct {
	Doctor  *doctor.Doctor
	Archive interfaces.Archive
	Metrics interfaces.MetricsReporter

	// Introspect 未启用时为 nil
	Introspect *introspect.Server

	stop func(ctx context.Context) error
}

// Stop 停止运行时（触发 fx 生命周期 OnStop）
func (r *Runtime) Stop(ctx context.Context) error {
	if r.stop == nil {
		return nil
	}
	return r.stop(ctx)
}
