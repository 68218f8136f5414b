package probe

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// ============================================================================
//                              模块输入依赖
// ============================================================================

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config *config.ProbeConfig `optional:"true"`
	Clock  clock.Clock         `optional:"true"`
}

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	Prober   interfaces.Prober
	Tracer   interfaces.Tracer
	Resolver *Resolver
}

// ProvideServices 提供模块服务
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	cfg := config.DefaultProbeConfig()
	if input.Config != nil {
		cfg = *input.Config
	}

	resolver, err := NewResolver(cfg.ResolverCacheSize, cfg.ResolverTTL.Duration(), input.Clock, nil)
	if err != nil {
		return ModuleOutput{}, err
	}
	prober := NewProber(resolver, input.Clock, cfg.Privileged, cfg.PayloadSize)

	var tracer interfaces.Tracer = NewTracer(prober.ICMP())
	return ModuleOutput{
		Prober:   prober,
		Tracer:   tracer,
		Resolver: resolver,
	}, nil
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("probe",
		fx.Provide(ProvideServices),
	)
}
