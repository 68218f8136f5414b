package archive

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/pkg/interfaces"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

// Nop 不存档
type Nop struct{}

// Save 实现 interfaces.Archive
func (Nop) Save(context.Context, *types.Report) error { return nil }

// Recent 实现 interfaces.Archive
func (Nop) Recent(context.Context, int) ([]*types.Report, error) { return nil, nil }

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config *config.ArchiveConfig `optional:"true"`
}

// ModuleOutput 定义模块输出
type ModuleOutput struct {
	fx.Out

	Archive interfaces.Archive
}

// ProvideServices 提供模块服务
//
// 未启用时返回 Nop；启用时在应用停止时关闭数据库。
func ProvideServices(lc fx.Lifecycle, input ModuleInput) (ModuleOutput, error) {
	cfg := config.DefaultArchiveConfig()
	if input.Config != nil {
		cfg = *input.Config
	}
	if !cfg.Enabled {
		return ModuleOutput{Archive: Nop{}}, nil
	}

	store, err := Open(cfg)
	if err != nil {
		return ModuleOutput{}, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			log.Debug("正在关闭存档")
			return store.Close()
		},
	})
	return ModuleOutput{Archive: store}, nil
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("archive",
		fx.Provide(ProvideServices),
	)
}
