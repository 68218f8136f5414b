package metrics

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config *config.MetricsConfig `optional:"true"`
}

// ModuleOutput 定义模块输出
type ModuleOutput struct {
	fx.Out

	Reporter interfaces.MetricsReporter
}

// ProvideServices 提供模块服务
//
// 未启用时返回 Nop；配置了 TextFile 时在应用停止前写出指标。
func ProvideServices(lc fx.Lifecycle, input ModuleInput) ModuleOutput {
	cfg := config.DefaultMetricsConfig()
	if input.Config != nil {
		cfg = *input.Config
	}
	if !cfg.Enabled {
		return ModuleOutput{Reporter: Nop{}}
	}

	r := NewReporter(cfg.Namespace)
	if cfg.TextFile != "" {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return r.WriteTextFile(cfg.TextFile)
			},
		})
	}
	return ModuleOutput{Reporter: r}
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideServices),
	)
}
