package link

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
)

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config *config.LinkConfig `optional:"true"`
}

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	Selector interfaces.AdapterSelector
	Monitor  interfaces.LinkMonitor
}

// ProvideServices 提供模块服务
func ProvideServices(input ModuleInput) ModuleOutput {
	cfg := config.DefaultLinkConfig()
	if input.Config != nil {
		cfg = *input.Config
	}
	return ModuleOutput{
		Selector: NewSelector(cfg.Adapter, nil, nil),
		Monitor:  NewMonitor(cfg),
	}
}

// NewMonitor 按配置的来源构造链路监视器
func NewMonitor(cfg config.LinkConfig) interfaces.LinkMonitor {
	igd := NewUPnPMonitor(withTimeout(cfg.UPnPTimeout.Duration(), discoverWAN))
	switch cfg.Source {
	case config.LinkSourceSysfs:
		return NewSysfsMonitor(cfg.SysfsRoot)
	case config.LinkSourceUPnP:
		return igd
	default:
		return NewAutoMonitor(NewSysfsMonitor(cfg.SysfsRoot), igd)
	}
}

// withTimeout 为 SSDP 发现附加超时
func withTimeout(d time.Duration, fn DiscoverWANFunc) DiscoverWANFunc {
	if d <= 0 {
		return fn
	}
	return func(ctx context.Context) ([]WANLink, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return fn(ctx)
	}
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("link",
		fx.Provide(ProvideServices),
	)
}
