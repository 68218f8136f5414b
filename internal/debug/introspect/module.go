package introspect

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// Module 返回自省服务 Fx 模块
func Module() fx.Option {
	return fx.Module("introspect",
		fx.Provide(NewFromParams),
		fx.Invoke(registerLifecycle),
	)
}

// IntrospectParams 自省服务依赖参数
type IntrospectParams struct {
	fx.In

	Config  *config.IntrospectConfig   `optional:"true"`
	Metrics interfaces.MetricsReporter `optional:"true"`
}

// IntrospectOutput 自省服务输出
type IntrospectOutput struct {
	fx.Out

	Server *Server
}

// gathererSource 暴露 Prometheus 注册表的指标上报器
type gathererSource interface {
	Registry() *prometheus.Registry
}

// NewFromParams 从参数创建自省服务，禁用时输出 nil
func NewFromParams(params IntrospectParams) IntrospectOutput {
	if params.Config == nil || !params.Config.Enabled {
		return IntrospectOutput{}
	}

	cfg := Config{Addr: params.Config.Addr}
	if src, ok := params.Metrics.(gathererSource); ok {
		cfg.Gatherer = src.Registry()
	}
	return IntrospectOutput{Server: New(cfg)}
}

func registerLifecycle(lc fx.Lifecycle, server *Server) {
	if server == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return server.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return server.Stop()
		},
	})
}
